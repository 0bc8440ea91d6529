package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophsettings/internal/client/tui"
)

func newEditCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings in an interactive form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd.Context())
		},
	}
}

func (a *App) runEdit(ctx context.Context) error {
	return a.runProgram(tui.New(ctx, a.client, a.consent, a, a.logger))
}
