package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode one envelope frame",
		Long: `Decode one binary frame given as hex and print its action and payload.

Examples:
  mjclient decode 0a0c646973636172645f74696c651202102a
  mjclient decode "0a 0c 64 69 73 ..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseHex(args[0])
			if err != nil {
				return err
			}

			in, err := protocol.DefaultRegistry().DecodeFrame(data)
			if err != nil {
				return errors.New("E140").Wrap(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "action:  %s\n", in.Action)
			fmt.Fprintf(out, "payload: %s\n", describe(in.Payload))
			if in.PayloadErr != nil {
				return errors.New("E141").Wrap(in.PayloadErr)
			}
			return nil
		},
	}
	return cmd
}

func actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the registered actions",
		Run: func(cmd *cobra.Command, args []string) {
			reg := protocol.DefaultRegistry()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Outbound:")
			for _, a := range []protocol.Action{
				protocol.ActionJoinRoom,
				protocol.ActionDiscardTile,
				protocol.ActionPlayerAction,
			} {
				if reg.HasEncoder(a) {
					fmt.Fprintf(out, "  %s\n", a)
				}
			}
			fmt.Fprintln(out, "Inbound:")
			for _, a := range reg.InboundActions() {
				fmt.Fprintf(out, "  %s\n", a)
			}
		},
	}
}
