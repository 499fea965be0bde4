package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/capture"
	"github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/client"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

func replayCmd() *cobra.Command {
	var action string

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Print the frames of a capture file",
		Long: `Decode every frame of a capture recorded with 'play --capture-dir'.

Each line shows the time since the first frame, the direction
(→ sent, ← received), the action and the payload.

Examples:
  mjclient replay captures/room-1-p-1a2b3c4d-20240301T120000Z.mjcap
  mjclient replay session.mjcap --action sync_state`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := capture.ReadFile(args[0])
			if err != nil {
				return errors.New("E160").WithFile(args[0]).Wrap(err)
			}
			return replay(r, protocol.Action(action), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Only print frames of this action")

	return cmd
}

func replay(r *capture.Reader, only protocol.Action, out io.Writer) error {
	reg := protocol.DefaultRegistry()
	var (
		start     time.Time
		sent, got int
		bad       int
	)

	for {
		rec, err := r.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.New("E160").Wrap(err)
		}
		if start.IsZero() {
			start = rec.Time
		}

		arrow := "←"
		if rec.Dir == client.DirectionOutbound {
			arrow = "→"
			sent++
		} else {
			got++
		}

		in, err := reg.DecodeFrame(rec.Frame)
		if err != nil {
			bad++
			fmt.Fprintf(out, "%10s %s <invalid frame: %v>\n", offset(rec.Time.Sub(start)), arrow, err)
			continue
		}
		if only != "" && in.Action != only {
			continue
		}
		// Outbound frames decode through the inbound table; use the
		// outbound schema when the action has one.
		payload := in.Payload
		if rec.Dir == client.DirectionOutbound {
			payload = decodeOutbound(in.Action, rec.Frame, payload)
		}
		fmt.Fprintf(out, "%10s %s %s %s\n", offset(rec.Time.Sub(start)), arrow, in.Action, describe(payload))
	}

	fmt.Fprintf(out, "\n%d sent, %d received", sent, got)
	if bad > 0 {
		fmt.Fprintf(out, ", %d invalid", bad)
	}
	fmt.Fprintln(out)
	return nil
}

// decodeOutbound decodes the payload of a frame this client sent.
func decodeOutbound(action protocol.Action, frame []byte, fallback protocol.Payload) protocol.Payload {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return fallback
	}
	var p protocol.Payload
	switch action {
	case protocol.ActionJoinRoom:
		p = &protocol.JoinRoomReq{}
	case protocol.ActionDiscardTile, protocol.ActionPlayerAction:
		p = &protocol.PlayerActionData{}
	default:
		return fallback
	}
	if err := protocol.DefaultCodec.Unmarshal(env.GetData(), p); err != nil {
		return fallback
	}
	return p
}

func offset(d time.Duration) string {
	return "+" + d.Round(time.Millisecond).String()
}
