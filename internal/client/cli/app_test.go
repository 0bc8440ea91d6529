package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/dmitrijs2005/gophsettings/internal/client/client"
	"github.com/dmitrijs2005/gophsettings/internal/client/config"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/client/repositories"
	"github.com/dmitrijs2005/gophsettings/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/gophsettings/internal/client/settings"
	"github.com/dmitrijs2005/gophsettings/internal/client/tui"
)

type fakeClient struct {
	settings models.Settings
	catalog  *models.Catalog

	getErr   error
	patchErr error
	pingErr  error

	patches []*models.Patch
	closed  bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		settings: models.Settings{Language: "en", SoundNotificationsEnabled: true, CredentialsSet: []string{"github"}},
		catalog: &models.Catalog{
			Mode:      models.ModeSelfManaged,
			Languages: []models.Language{{Code: "en", Label: "English"}, {Code: "es", Label: "Spanish"}},
			Providers: []models.Provider{
				{ID: "github", Label: "GitHub"},
				{ID: "gitlab", Label: "GitLab"},
				{ID: "huggingface", Label: "Hugging Face", Models: []string{"bigcode/starcoder"}},
			},
		},
	}
}

func (c *fakeClient) Close() error { c.closed = true; return nil }

func (c *fakeClient) GetSettings(context.Context) (*models.Settings, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.settings.Clone(), nil
}

func (c *fakeClient) GetCapabilities(context.Context) (*models.Catalog, error) {
	return c.catalog, nil
}

func (c *fakeClient) PatchSettings(_ context.Context, p *models.Patch) (*models.Settings, error) {
	c.patches = append(c.patches, p)
	if c.patchErr != nil {
		return nil, c.patchErr
	}
	if p.Language != nil {
		c.settings.Language = *p.Language
	}
	if p.AnalyticsConsent != nil {
		c.settings.AnalyticsConsent = *p.AnalyticsConsent
	}
	for id := range p.Credentials {
		if !slices.Contains(c.settings.CredentialsSet, id) {
			c.settings.CredentialsSet = append(c.settings.CredentialsSet, id)
		}
	}
	c.settings.CredentialsSet = slices.DeleteFunc(c.settings.CredentialsSet, func(id string) bool {
		return slices.Contains(p.RemoveCredentials, id)
	})
	return c.settings.Clone(), nil
}

func (c *fakeClient) Ping(context.Context) error { return c.pingErr }

type harness struct {
	app     *App
	fc      *fakeClient
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	program tea.Model
}

func newHarness(t *testing.T, fc *fakeClient, stdin, stateDB string) *harness {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LogFile = ""
	cfg.StateDB = stateDB
	if stateDB == "" {
		cfg.StateDB = filepath.Join(t.TempDir(), "state.db")
	}

	h := &harness{fc: fc, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	a := NewApp(cfg)
	a.stdin = strings.NewReader(stdin)
	a.stdout = h.stdout
	a.stderr = h.stderr
	a.dial = func(*config.Config) (client.Client, error) { return fc, nil }
	a.runProgram = func(m tea.Model) error { h.program = m; return nil }
	h.app = a
	return h
}

func (h *harness) run(args ...string) error {
	return h.app.Execute(context.Background(), args)
}

func TestShow_PrintsFlagsNeverSecrets(t *testing.T) {
	h := newHarness(t, newFakeClient(), "", "")
	require.NoError(t, h.run("show"))

	out := h.stdout.String()
	assert.Contains(t, out, "English (en)")
	assert.Contains(t, out, "GitHub token")
	assert.Regexp(t, `GitHub token\s*│\s*set`, out)
	assert.Regexp(t, `GitLab token\s*│\s*not set`, out)
	assert.Contains(t, out, "(none)")
	assert.True(t, h.fc.closed)
}

func TestShow_HostedHidesCredentials(t *testing.T) {
	fc := newFakeClient()
	fc.catalog.Mode = models.ModeHosted
	h := newHarness(t, fc, "", "")
	require.NoError(t, h.run("show"))
	assert.NotContains(t, h.stdout.String(), "token")
}

func TestShow_FetchFailure(t *testing.T) {
	fc := newFakeClient()
	fc.getErr = client.ErrUnavailable
	h := newHarness(t, fc, "", "")

	err := h.run("show")
	require.ErrorIs(t, err, settings.ErrFetchFailed)
	assert.Contains(t, h.stderr.String(), "Failed to fetch settings")
	assert.True(t, fc.closed)
}

func TestSet_LanguageAndConsent(t *testing.T) {
	h := newHarness(t, newFakeClient(), "", "")
	require.NoError(t, h.run("set", "--language", "Spanish", "--analytics", "on"))

	require.Len(t, h.fc.patches, 1)
	p := h.fc.patches[0]
	assert.Equal(t, "es", *p.Language)
	assert.True(t, *p.AnalyticsConsent)
	assert.Nil(t, p.SoundNotificationsEnabled)
	assert.Nil(t, p.Credentials)

	assert.Equal(t, "Settings saved\n", h.stdout.String())
	assert.True(t, h.app.consent.Enabled())
}

func TestSet_CredentialIsPromptedAndSent(t *testing.T) {
	h := newHarness(t, newFakeClient(), "glpat-abc\n", "")
	require.NoError(t, h.run("set", "--credential", "gitlab"))

	require.Len(t, h.fc.patches, 1)
	assert.Equal(t, map[string]string{"gitlab": "glpat-abc"}, h.fc.patches[0].Credentials)
	assert.Contains(t, h.stderr.String(), "GitLab token: ")
	assert.NotContains(t, h.stdout.String(), "glpat-abc")
}

func TestSet_ReplacingStoredCredentialSaysSo(t *testing.T) {
	h := newHarness(t, newFakeClient(), "ghp-new\n", "")
	require.NoError(t, h.run("set", "--credential", "github"))
	assert.Contains(t, h.stderr.String(), "replaces the stored one")
	assert.Equal(t, map[string]string{"github": "ghp-new"}, h.fc.patches[0].Credentials)
}

func TestSet_BlankCredentialSendsNothing(t *testing.T) {
	h := newHarness(t, newFakeClient(), "   \n", "")
	require.NoError(t, h.run("set", "--credential", "github"))

	require.Len(t, h.fc.patches, 1)
	assert.True(t, h.fc.patches[0].Empty())
}

func TestSet_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"unknown provider", []string{"set", "--credential", "bitbucket"}, settings.ErrUnknownProvider},
		{"bad toggle", []string{"set", "--analytics", "maybe"}, settings.ErrInvalidToggle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, newFakeClient(), "", "")
			require.ErrorIs(t, h.run(tt.args...), tt.is)
			assert.Empty(t, h.fc.patches)
			assert.Contains(t, h.stderr.String(), "Error: ")
		})
	}
}

func TestSet_HostedRejectsCredential(t *testing.T) {
	fc := newFakeClient()
	fc.catalog.Mode = models.ModeHosted
	h := newHarness(t, fc, "x\n", "")
	require.ErrorIs(t, h.run("set", "--credential", "github"), settings.ErrCredentialsLocked)
}

func TestSet_UnknownLanguageIsSkipped(t *testing.T) {
	h := newHarness(t, newFakeClient(), "", "")
	require.NoError(t, h.run("set", "--language", "Klingon", "--sound", "off"))

	assert.Contains(t, h.stderr.String(), `Skipped language "Klingon"`)
	p := h.fc.patches[0]
	assert.Nil(t, p.Language)
	assert.False(t, *p.SoundNotificationsEnabled)
}

func TestSet_ServerMessageIsShown(t *testing.T) {
	fc := newFakeClient()
	fc.patchErr = &client.RemoteError{Code: codes.InvalidArgument, Message: "llm_model: not offered"}
	h := newHarness(t, fc, "", "")

	err := h.run("set", "--model", "bigcode/starcoder")
	require.ErrorIs(t, err, settings.ErrSaveFailed)
	assert.Contains(t, h.stderr.String(), "Error: llm_model: not offered")
	assert.Equal(t, 1, strings.Count(h.stderr.String(), "llm_model: not offered"))
}

func TestSet_BlankTransportErrorIsGeneric(t *testing.T) {
	fc := newFakeClient()
	fc.patchErr = errors.New("")
	h := newHarness(t, fc, "", "")

	require.Error(t, h.run("set", "--analytics", "on"))
	assert.Contains(t, h.stderr.String(), "Error: Failed to save settings")
	assert.False(t, h.app.consent.Enabled())
}

func TestDisconnect(t *testing.T) {
	t.Run("named provider", func(t *testing.T) {
		h := newHarness(t, newFakeClient(), "", "")
		require.NoError(t, h.run("disconnect", "github"))
		assert.Equal(t, []string{"github"}, h.fc.patches[0].RemoveCredentials)
	})

	t.Run("all", func(t *testing.T) {
		fc := newFakeClient()
		fc.settings.CredentialsSet = []string{"github", "gitlab"}
		h := newHarness(t, fc, "", "")
		require.NoError(t, h.run("disconnect", "--all"))
		assert.Equal(t, []string{"github", "gitlab"}, fc.patches[0].RemoveCredentials)
	})

	t.Run("not connected", func(t *testing.T) {
		h := newHarness(t, newFakeClient(), "", "")
		require.ErrorIs(t, h.run("disconnect", "gitlab"), settings.ErrNotConnected)
		assert.Empty(t, h.fc.patches)
	})

	t.Run("nothing named", func(t *testing.T) {
		h := newHarness(t, newFakeClient(), "", "")
		require.Error(t, h.run("disconnect"))
	})
}

func TestPing(t *testing.T) {
	h := newHarness(t, newFakeClient(), "", "")
	require.NoError(t, h.run("ping"))
	assert.Contains(t, h.stdout.String(), "OK")

	fc := newFakeClient()
	fc.pingErr = client.ErrUnavailable
	h = newHarness(t, fc, "", "")
	require.ErrorIs(t, h.run("ping"), client.ErrUnavailable)
}

func TestEdit_RunsInteractiveForm(t *testing.T) {
	for _, args := range [][]string{{"edit"}, {}} {
		h := newHarness(t, newFakeClient(), "", "")
		require.NoError(t, h.run(args...))
		require.IsType(t, &tui.Model{}, h.program)
	}
}

func TestDialError(t *testing.T) {
	h := newHarness(t, newFakeClient(), "", "")
	h.app.dial = func(*config.Config) (client.Client, error) { return nil, errors.New("bad target") }
	require.ErrorContains(t, h.run("ping"), "cannot connect")
}

func TestLanguageIsRememberedForNextRun(t *testing.T) {
	stateDB := filepath.Join(t.TempDir(), "state.db")

	fc := newFakeClient()
	fc.settings.Language = "es"
	h := newHarness(t, fc, "", stateDB)
	require.NoError(t, h.run("show"))

	local, err := repositories.Open(context.Background(), stateDB)
	require.NoError(t, err)
	v, ok, err := local.Preferences.Get(context.Background(), preferences.KeyLanguage)
	require.NoError(t, err)
	require.NoError(t, local.Close())
	assert.True(t, ok)
	assert.Equal(t, "es", v)

	fc.getErr = client.ErrUnavailable
	h = newHarness(t, fc, "", stateDB)
	require.Error(t, h.run("show"))
	assert.Contains(t, h.stderr.String(), "No se pudieron obtener los ajustes")
}
