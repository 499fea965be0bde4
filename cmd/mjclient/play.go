package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/capture"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/client"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

const playHelp = `Commands:
  discard <tile>         discard a tile
  action <type> <tile>   send a player action (claim, kong, ...)
  join                   join the configured room again
  help                   show this help
  quit                   disconnect and exit`

func playCmd() *cobra.Command {
	var (
		url         string
		room        string
		player      string
		reconnect   bool
		metricsAddr string
		captureDir  string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a room and play from the terminal",
		Long: `Connect to the game server, join a room and print every message.

Commands are read from stdin, one per line.

` + playHelp + `

Examples:
  mjclient play
  mjclient play --url ws://localhost:8080/ws --room east --player alice
  mjclient play --capture-dir ./captures --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.Server.URL = url
			}
			if flags.Changed("room") {
				cfg.Room.ID = room
			}
			if flags.Changed("player") {
				cfg.Player.ID = player
			}
			if flags.Changed("reconnect") {
				cfg.Reconnect.Enabled = reconnect
			}
			if flags.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if flags.Changed("capture-dir") {
				cfg.Capture.Dir = captureDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
			return runPlay(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "Game server WebSocket URL")
	cmd.Flags().StringVarP(&room, "room", "r", "", "Room to join")
	cmd.Flags().StringVarP(&player, "player", "p", "", "Player id (default: random)")
	cmd.Flags().BoolVar(&reconnect, "reconnect", false, "Reconnect once after an unexpected close")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&captureDir, "capture-dir", "", "Record the session's frames to this directory")

	return cmd
}

// runPlay runs one interactive session until quit, EOF on in, ctx
// cancellation or a close without reconnect.
func runPlay(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if cfg.Player.ID == "" {
		cfg.Player.ID = "p-" + uuid.NewString()[:8]
	}

	opts := []client.Option{
		client.WithConfig(cfg.ClientConfig()),
		client.WithLogger(logger),
	}

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, client.WithMetrics(client.NewMetrics(client.WithRegisterer(reg))))

		srv, err := startMetricsServer(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			return err
		}
		defer srv.Shutdown(context.Background())
	}

	var session *capture.Session
	if cfg.Capture.Dir != "" {
		sinks, err := captureSinks(ctx, cfg.Capture)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%s-%s", cfg.Room.ID, cfg.Player.ID, time.Now().UTC().Format("20060102T150405Z"))
		session = capture.NewSession(name, sinks, capture.WithLogger(logger))
		opts = append(opts, client.WithFrameObserver(session.Recorder()))
	}

	p := &player{
		cfg:  cfg,
		out:  &syncWriter{w: out},
		m:    client.New(opts...),
		done: make(chan struct{}),
	}
	p.subscribe()

	info(p.out, "connecting to %s as %s", cfg.Server.URL, cfg.Player.ID)
	p.m.Connect(cfg.Server.URL)
	err := p.loop(ctx, in)
	p.shutdown()

	if session != nil {
		if ferr := session.Finish(context.Background(), logger); ferr != nil {
			return errors.New("E161").Wrap(ferr)
		}
		success(p.out, "capture saved as %s", session.Name())
	}
	return err
}

// player ties the manager to the terminal.
type player struct {
	cfg *config.Config
	out io.Writer
	m   *client.Manager

	connected atomic.Bool
	closeCode atomic.Int64
	done      chan struct{}
	doneOnce  sync.Once
	quitting  atomic.Bool
}

func (p *player) subscribe() {
	p.m.OnConnected(func() {
		p.connected.Store(true)
		success(p.out, "connected")
		p.join()
	})
	p.m.OnError(func(err error) {
		warn(p.out, "connection error: %v", err)
	})
	p.m.OnDisconnected(func(code int, reason string) {
		p.closeCode.Store(int64(code))
		if !p.quitting.Load() {
			warn(p.out, "disconnected (%d %s)", code, reason)
		}
		if p.quitting.Load() || !p.cfg.Reconnect.Enabled {
			p.doneOnce.Do(func() { close(p.done) })
		}
	})
	p.m.OnMessage(func(action protocol.Action, payload protocol.Payload) {
		fmt.Fprintf(p.out, "%s %s %s\n", paint("\033[36m", "←"), action, describe(payload))
	})
	client.On(p.m, protocol.ActionJoinRoomRes, func(res *protocol.JoinRoomRes) {
		if !res.GetSuccess() {
			warn(p.out, "join rejected: %s", res.GetMessage())
		}
	})
}

func (p *player) join() {
	err := p.m.Send(protocol.ActionJoinRoom, &protocol.JoinRoomReq{
		RoomID:   protocol.String(p.cfg.Room.ID),
		PlayerID: protocol.String(p.cfg.Player.ID),
	})
	if err != nil {
		warn(p.out, "join: %v", err)
	}
}

func (p *player) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-p.done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.done:
			if !p.connected.Load() {
				return errors.New("E120").WithDetail("Could not connect to " + p.cfg.Server.URL + ".")
			}
			return errors.New("E121").WithDetail(fmt.Sprintf("Close code %d.", p.closeCode.Load()))
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := parseCommand(line)
			if err != nil {
				warn(p.out, "%v", err)
				continue
			}
			switch {
			case cmd.quit:
				return nil
			case cmd.help:
				fmt.Fprintln(p.out, playHelp)
			case cmd.join:
				p.join()
			case cmd.action != "":
				if err := p.m.Send(cmd.action, cmd.payload); err != nil {
					warn(p.out, "%s: %v", cmd.action, err)
					continue
				}
				fmt.Fprintf(p.out, "%s %s %s\n", paint("\033[35m", "→"), cmd.action, describe(cmd.payload))
			}
		}
	}
}

// shutdown disconnects and waits briefly for the close handshake.
func (p *player) shutdown() {
	p.quitting.Store(true)
	state := p.m.State()
	p.m.Disconnect()
	if state == client.StateOpen || state == client.StateConnecting {
		select {
		case <-p.done:
		case <-time.After(2 * time.Second):
		}
	}
	p.doneOnce.Do(func() { close(p.done) })
}

// command is one parsed stdin line.
type command struct {
	quit    bool
	help    bool
	join    bool
	action  protocol.Action
	payload protocol.Payload
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}

	argInt := func(i int) (int32, error) {
		v, err := strconv.ParseInt(fields[i], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", fields[0], fields[i])
		}
		return int32(v), nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return command{quit: true}, nil
	case "help", "?":
		return command{help: true}, nil
	case "join":
		return command{join: true}, nil
	case "discard":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: discard <tile>")
		}
		tile, err := argInt(1)
		if err != nil {
			return command{}, err
		}
		return command{
			action:  protocol.ActionDiscardTile,
			payload: &protocol.PlayerActionData{TileID: protocol.Int32(tile)},
		}, nil
	case "action":
		if len(fields) != 3 {
			return command{}, fmt.Errorf("usage: action <type> <tile>")
		}
		typ, err := argInt(1)
		if err != nil {
			return command{}, err
		}
		tile, err := argInt(2)
		if err != nil {
			return command{}, err
		}
		return command{
			action: protocol.ActionPlayerAction,
			payload: &protocol.PlayerActionData{
				ActionType: protocol.Int32(typ),
				TileID:     protocol.Int32(tile),
			},
		}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
}

// syncWriter serializes writes from the transport and stdin goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
