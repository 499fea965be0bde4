package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Persistent flags.
var (
	configPath string
	noColor    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mjclient",
		Short: "Command-line client for the mahjong game protocol",
		Long: `mjclient connects to a mahjong game server over WebSocket.

It can play from the terminal, run a local reference server,
decode single frames and replay recorded sessions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: search)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		playCmd(),
		serveCmd(),
		decodeCmd(),
		actionsCmd(),
		replayCmd(),
		configCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printError prints err, reporting errors without a code as E180.
func printError(w io.Writer, err error) {
	errors.Fprint(w, errors.FromError(err, "E180"))
}

// loadConfig loads the file given by --config, or searches for one.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[32m", "✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", paint("\033[33m", "⚠"), fmt.Sprintf(format, args...))
}

func paint(code, text string) string {
	if noColor {
		return text
	}
	return code + text + "\033[0m"
}
