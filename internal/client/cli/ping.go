package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("server %s: %w", a.config.ServerEndpointAddr, err)
			}
			fmt.Fprintf(a.stdout, "server %s: OK\n", a.config.ServerEndpointAddr)
			return nil
		},
	}
}
