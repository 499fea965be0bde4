package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/errors"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default " + config.ConfigFileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E103").
					WithFile(path).
					WithDetail("The file already exists.").
					WithSuggestion("Use --force to overwrite it.")
			}
			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Path() != "" {
				fmt.Fprintf(out, "# %s\n", cfg.Path())
			} else {
				fmt.Fprintln(out, "# defaults (no config file found)")
			}
			out.Write(data)
			return nil
		},
	}
}
