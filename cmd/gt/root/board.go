package root

import (
	"context"

	"github.com/spf13/cobra"

	"goaltracker/internal/tui"
)

func newBoardCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, s.svc, cmd.OutOrStdout())
		},
	}

	return cmd
}
