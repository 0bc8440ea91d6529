package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/client/settings"
)

type setOptions struct {
	language    string
	model       string
	analytics   string
	sound       string
	credentials []string
}

func newSetCommand(a *App) *cobra.Command {
	o := &setOptions{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings without the interactive form",
		Long: `Change settings without the interactive form. Only the flags you pass are
sent; everything else, stored credentials included, stays as it is.

Examples:
  # Switch to Spanish and allow analytics
  gophsettings set --language Spanish --analytics on

  # Store a new GitHub token (prompted, not echoed)
  gophsettings set --credential github`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSet(cmd, o)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.language, "language", "", "language label or code")
	fs.StringVar(&o.model, "model", "", "LLM model (empty to clear)")
	fs.StringVar(&o.analytics, "analytics", "", "analytics consent: on or off")
	fs.StringVar(&o.sound, "sound", "", "sound notifications: on or off")
	fs.StringArrayVar(&o.credentials, "credential", nil, "provider id whose token to set; repeatable")
	return cmd
}

func (a *App) runSet(cmd *cobra.Command, o *setOptions) error {
	ctx := cmd.Context()
	s, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	form := s.Form()

	var errs []error
	if cmd.Flags().Changed("language") {
		errs = append(errs, form.SetLanguage(o.language))
	}
	if cmd.Flags().Changed("model") {
		errs = append(errs, form.SetModel(o.model))
	}
	if cmd.Flags().Changed("analytics") {
		errs = append(errs, form.SetToggle(settings.FieldAnalyticsConsent, o.analytics))
	}
	if cmd.Flags().Changed("sound") {
		errs = append(errs, form.SetToggle(settings.FieldSoundNotifications, o.sound))
	}
	for _, id := range o.credentials {
		errs = append(errs, a.promptCredential(form, id))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	return a.save(ctx, s)
}

func (a *App) promptCredential(form *settings.Form, providerID string) error {
	p, ok := form.Catalog().Provider(providerID)
	if !ok {
		return fmt.Errorf("%w: %s", settings.ErrUnknownProvider, providerID)
	}
	if !form.Catalog().CredentialsEditable() {
		return settings.ErrCredentialsLocked
	}

	prompt := p.Label + " token"
	if form.Tracker().IsSet(providerID) {
		prompt += " (replaces the stored one)"
	}
	secret, err := readSecret(a.reader, a.stdin, a.stderr, prompt)
	if err != nil {
		return err
	}
	return form.SetCredential(providerID, secret)
}

// save submits and reports fields that were left out of the patch.
func (a *App) save(ctx context.Context, s *settings.Session) error {
	out, patch, err := s.Save(ctx)
	if patch != nil {
		a.reportSkipped(patch.Skipped)
	}
	if err != nil {
		return err
	}
	if out.Settings != nil {
		a.UseLanguage(ctx, out.Settings.Language)
	}
	return nil
}

func (a *App) reportSkipped(skipped []models.Skipped) {
	for _, sk := range skipped {
		fmt.Fprintf(a.stderr, "Skipped %s %q: %s\n", sk.Field, sk.Value, sk.Reason)
	}
}
