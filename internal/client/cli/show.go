package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print current settings",
		Long:  "Print current settings. Credentials are never shown, only whether each provider has one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd.Context())
			if err != nil {
				return err
			}
			form := s.Form()
			snap := form.Snapshot()
			cat := form.Catalog()

			model := snap.LLMModel
			if model == "" {
				model = "(none)"
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Setting", "Value").
				Row("Language", fmt.Sprintf("%s (%s)", cat.LanguageLabel(snap.Language), snap.Language)).
				Row("Analytics", onOff(snap.AnalyticsConsent)).
				Row("Sound notifications", onOff(snap.SoundNotificationsEnabled)).
				Row("LLM model", model).
				Row("Mode", string(cat.Mode))

			if cat.CredentialsEditable() {
				for _, st := range form.Tracker().Statuses() {
					state := "not set"
					if st.IsSet {
						state = "set"
					}
					t.Row(st.Label+" token", state)
				}
			}

			_, err = fmt.Fprintln(a.stdout, t.Render())
			return err
		},
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
