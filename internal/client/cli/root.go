package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophsettings/internal/client/config"
	"github.com/dmitrijs2005/gophsettings/internal/client/settings"
)

// NewRootCommand builds the command tree. Persistent flags write straight
// into the App's config, on top of defaults and the JSON file.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gophsettings",
		Short:         "View and edit your account settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd.Context())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	config.BindFlags(root.PersistentFlags(), a.config)

	root.AddCommand(
		newEditCommand(a),
		newShowCommand(a),
		newSetCommand(a),
		newDisconnectCommand(a),
		newPingCommand(a),
	)
	return root
}

// Execute runs the command line args and releases everything setup opened,
// whether or not the command succeeded. Fetch and save failures have
// already been reported by the time they return here.
func (a *App) Execute(ctx context.Context, args []string) error {
	defer a.teardown()
	if args == nil {
		args = []string{}
	}
	root := NewRootCommand(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, settings.ErrFetchFailed) && !errors.Is(err, settings.ErrSaveFailed) {
		fmt.Fprintln(a.stderr, "Error:", err)
	}
	return err
}
