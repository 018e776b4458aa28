package main

import (
	"codeberg.org/practicetestbulk/client/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [url]",
		Short: "Open the interactive client",
		Long: `Open the interactive client. An optional URL (for example the address the
browser landed on after Google sign-in) is opened as the first screen.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := ""
			if len(args) == 1 {
				entry = args[0]
			}

			ctx := cmd.Context()
			return tui.Run(ctx, tui.NewApp(ctx, c.cfg, c.store, entry))
		},
	}
}
