package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/devserver"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		seed     uint64
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference game server",
		Long: `Run a local game server speaking the same protocol.

The server seats up to four players per room, deals each a hand from a
shuffled wall and relays their actions. It applies no game rules.

Routes:
  /ws      WebSocket endpoint
  /health  liveness probe
  /rooms   room membership as JSON

Examples:
  mjclient serve
  mjclient serve --addr :9000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(config.LogConfig{Level: logLevel}, cmd.ErrOrStderr())

			var opts []devserver.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, devserver.WithSeed(seed))
			}
			srv := &http.Server{
				Handler:           devserver.New(logger, opts...).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "listening on ws://%s/ws", ln.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				info(cmd.OutOrStdout(), "shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed for reproducible deals")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}
