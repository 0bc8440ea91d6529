package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDisconnectCommand(a *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "disconnect [provider...]",
		Short: "Remove stored provider credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("name at least one provider or pass --all")
			}

			ctx := cmd.Context()
			s, err := a.newSession(ctx)
			if err != nil {
				return err
			}
			form := s.Form()

			if all {
				if err := form.DisconnectAll(); err != nil {
					return err
				}
			}
			for _, id := range args {
				if err := form.Disconnect(id); err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
			}
			return a.save(ctx, s)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "disconnect every provider")
	return cmd
}
