package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmitrijs2005/gophsettings/internal/client/client"
	"github.com/dmitrijs2005/gophsettings/internal/client/config"
	"github.com/dmitrijs2005/gophsettings/internal/client/i18n"
	"github.com/dmitrijs2005/gophsettings/internal/client/repositories"
	"github.com/dmitrijs2005/gophsettings/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/gophsettings/internal/client/settings"
	"github.com/dmitrijs2005/gophsettings/internal/client/telemetry"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

// App carries what every command needs. Dependencies are built lazily in
// setup so that flag values are known.
type App struct {
	config *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	reader *bufio.Reader

	dial       func(cfg *config.Config) (client.Client, error)
	openLocal  func(ctx context.Context, dsn string) (*repositories.Local, error)
	runProgram func(m tea.Model) error

	logger  logging.Logger
	logFile *os.File
	client  client.Client
	local   *repositories.Local
	consent *telemetry.Consent
	loc     *i18n.Switch
}

func NewApp(c *config.Config) *App {
	return &App{
		config:    c,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		dial:      dialServer,
		openLocal: repositories.Open,
		runProgram: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

func dialServer(cfg *config.Config) (client.Client, error) {
	return client.NewSettingsClient(cfg.ServerEndpointAddr, cfg.AccessToken, cfg.RequestTimeout)
}

func (a *App) setup(ctx context.Context) error {
	a.reader = bufio.NewReader(a.stdin)

	if err := a.setupLogger(); err != nil {
		return err
	}

	c, err := a.dial(a.config)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", a.config.ServerEndpointAddr, err)
	}
	a.client = c

	var prefs preferences.Repository
	if a.config.StateDB != "" {
		local, err := a.openLocal(ctx, a.config.StateDB)
		if err != nil {
			a.logger.Warn(ctx, "local state unavailable", "path", a.config.StateDB, "error", err)
		} else {
			a.local = local
			prefs = local.Preferences
		}
	}

	a.consent = telemetry.NewConsent(ctx, prefs, a.logger)
	a.loc = i18n.NewSwitch(a.lastLanguage(ctx))
	return nil
}

func (a *App) setupLogger() error {
	switch a.config.LogFile {
	case "-":
		a.logger = logging.New(a.stderr, "text", a.config.LogLevel)
	case "":
		a.logger = logging.Discard()
	default:
		f, err := os.OpenFile(a.config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		a.logFile = f
		a.logger = logging.New(f, "text", a.config.LogLevel)
	}
	return nil
}

func (a *App) teardown() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.local != nil {
		_ = a.local.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func (a *App) lastLanguage(ctx context.Context) string {
	if a.local == nil {
		return ""
	}
	v, _, err := a.local.Preferences.Get(ctx, preferences.KeyLanguage)
	if err != nil {
		a.logger.Warn(ctx, "cannot read last language", "error", err)
	}
	return v
}

// UseLanguage switches notifications to the settings language and keeps it
// for the next run, so messages shown before the first fetch match too.
func (a *App) UseLanguage(ctx context.Context, code string) {
	if code == "" {
		return
	}
	a.loc.UseLanguage(ctx, code)
	if a.local == nil {
		return
	}
	if err := a.local.Preferences.Set(ctx, preferences.KeyLanguage, code); err != nil {
		a.logger.Warn(ctx, "cannot persist language", "error", err)
	}
}

// newSession builds a session that reports to the terminal and loads it.
// On failure the localized fetch error is printed.
func (a *App) newSession(ctx context.Context) (*settings.Session, error) {
	s := settings.NewSession(a.client, printer{out: a.stdout, errOut: a.stderr}, a.consent, a, a.logger)
	if err := s.Load(ctx); err != nil {
		fmt.Fprintf(a.stderr, "%s: %v\n", a.loc.T(i18n.FetchFailed), err)
		return nil, err
	}
	a.UseLanguage(ctx, s.Form().Snapshot().Language)
	return s, nil
}

// T localizes with the current translator, which follows the settings
// language once it is known.
func (a *App) T(k i18n.Key) string {
	return a.loc.T(k)
}
