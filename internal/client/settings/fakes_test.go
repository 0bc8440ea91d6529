package settings

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophsettings/internal/client/i18n"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
)

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Mode: models.ModeSelfManaged,
		Languages: []models.Language{
			{Code: "en", Label: "English"},
			{Code: "es", Label: "Spanish"},
			{Code: "de", Label: "Deutsch"},
		},
		Providers: []models.Provider{
			{ID: "github", Label: "GitHub"},
			{ID: "gitlab", Label: "GitLab"},
			{ID: "huggingface", Label: "Hugging Face", Models: []string{"bigcode/starcoder", "bigcode/starcoder2-15b"}},
		},
		Defaults: models.Defaults{Language: "en", SoundNotificationsEnabled: true},
	}
}

func hostedCatalog() *models.Catalog {
	c := testCatalog()
	c.Mode = models.ModeHosted
	return c
}

// fakeStore merges patches field by field, like the real server.
type fakeStore struct {
	mu       sync.Mutex
	settings models.Settings
	secrets  map[string]string
	catalog  *models.Catalog

	getErr   error
	capsErr  error
	patchErr error
	nilResp  bool

	started chan struct{}
	release chan struct{}

	patches  []*models.Patch
	getCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings: models.Settings{Language: "en", AnalyticsConsent: false, SoundNotificationsEnabled: true},
		secrets:  map[string]string{},
		catalog:  testCatalog(),
	}
}

func (s *fakeStore) GetSettings(context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.nilResp {
		return nil, nil
	}
	return s.snapshot(), nil
}

func (s *fakeStore) GetCapabilities(context.Context) (*models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capsErr != nil {
		return nil, s.capsErr
	}
	return s.catalog, nil
}

func (s *fakeStore) PatchSettings(ctx context.Context, p *models.Patch) (*models.Settings, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, p)
	if s.patchErr != nil {
		return nil, s.patchErr
	}
	if p.Language != nil {
		s.settings.Language = *p.Language
	}
	if p.AnalyticsConsent != nil {
		s.settings.AnalyticsConsent = *p.AnalyticsConsent
	}
	if p.SoundNotificationsEnabled != nil {
		s.settings.SoundNotificationsEnabled = *p.SoundNotificationsEnabled
	}
	if p.LLMModel != nil {
		s.settings.LLMModel = *p.LLMModel
	}
	for k, v := range p.Credentials {
		s.secrets[k] = v
	}
	for _, k := range p.RemoveCredentials {
		delete(s.secrets, k)
	}
	return s.snapshot(), nil
}

func (s *fakeStore) snapshot() *models.Settings {
	cp := s.settings
	cp.CredentialsSet = slices.Sorted(maps.Keys(s.secrets))
	return &cp
}

func (s *fakeStore) patchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patches)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) NotifySuccess(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) NotifyError(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

type recordingConsent struct {
	mu    sync.Mutex
	calls []bool
}

func (c *recordingConsent) SetAnalyticsConsent(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, v)
}

func english() Localizer { return i18n.New("en") }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
