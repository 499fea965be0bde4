package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/webmajiang/mjnet/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `List every error code mjclient can report, or print the details and
hint for a single code.

Examples:
  mjclient errors
  mjclient errors E120`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				var last errors.Category
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					if t.Category != last {
						fmt.Fprintf(out, "%s:\n", t.Category)
						last = t.Category
					}
					fmt.Fprintf(out, "  %s\n", errors.New(code).FormatCompact())
				}
				return nil
			}

			code := args[0]
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.New("E180").
					WithDetail(fmt.Sprintf("%q is not a known error code.", code)).
					WithSuggestion("Run 'mjclient errors' to list the codes.")
			}
			fmt.Fprintf(out, "%s  %s (%s)\n", code, t.Message, t.Category)
			if t.Detail != "" {
				fmt.Fprintf(out, "\n%s\n", t.Detail)
			}
			if t.Suggestion != "" {
				fmt.Fprintf(out, "\nHint: %s\n", t.Suggestion)
			}
			return nil
		},
	}
}
