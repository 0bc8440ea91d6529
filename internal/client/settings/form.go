package settings

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

var (
	ErrNotReady          = errors.New("settings are not loaded")
	ErrInvalidToggle     = errors.New("invalid toggle value")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrCredentialsLocked = errors.New("credentials are managed by the hosting service")
	ErrNotConnected      = errors.New("provider is not connected")
)

// Field names a boolean control.
type Field string

const (
	FieldAnalyticsConsent   Field = "analytics_consent"
	FieldSoundNotifications Field = "sound_notifications_enabled"
)

const (
	reasonUnknownLanguage = "language not offered"
	reasonUnknownModel    = "model not offered"
	reasonUnknownProvider = "provider not offered"
	reasonHosted          = "credentials are managed by the hosting service"
	reasonNotConnected    = "provider is not connected"
)

// pendingEdit is the sparse working copy of user input. Values are kept raw
// and resolved against the catalog only when a patch is built.
type pendingEdit struct {
	language    *string
	model       *string
	analytics   Toggle
	sound       Toggle
	credentials map[string]string
	remove      map[string]bool
}

func (e *pendingEdit) clone() pendingEdit {
	cp := *e
	cp.credentials = maps.Clone(e.credentials)
	cp.remove = maps.Clone(e.remove)
	return cp
}

// forget drops the edits that still hold the values in sent. Edits made
// after sent was taken are kept.
func (e *pendingEdit) forget(sent pendingEdit) {
	if sameString(e.language, sent.language) {
		e.language = nil
	}
	if sameString(e.model, sent.model) {
		e.model = nil
	}
	if e.analytics == sent.analytics {
		e.analytics = Toggle{}
	}
	if e.sound == sent.sound {
		e.sound = Toggle{}
	}
	for id, v := range sent.credentials {
		if cur, ok := e.credentials[id]; ok && cur == v {
			delete(e.credentials, id)
		}
	}
	for id := range sent.remove {
		delete(e.remove, id)
	}
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (e *pendingEdit) empty() bool {
	return e.language == nil && e.model == nil && !e.analytics.Present() && !e.sound.Present() &&
		len(e.credentials) == 0 && len(e.remove) == 0
}

// Values are the effective field values the form renders: the snapshot with
// pending edits laid over it.
type Values struct {
	Language                  string
	LanguageLabel             string
	AnalyticsConsent          bool
	SoundNotificationsEnabled bool
	LLMModel                  string
	TypedCredentials          []string
	Disconnecting             []string
}

// Form owns the editable state of one settings screen. The fetched snapshot
// is read-only; edits live in a pending copy until a save round-trips.
type Form struct {
	logger logging.Logger

	mu      sync.Mutex
	state   State
	err     error
	snap    *models.Settings
	catalog *models.Catalog
	tracker *CredentialTracker
	edit    pendingEdit
}

func NewForm(logger logging.Logger) *Form {
	return &Form{logger: logger.With("module", "form"), state: StateLoading, tracker: NewCredentialTracker(nil, nil)}
}

// SetLoading blocks interaction until the next Seed or Fail.
func (f *Form) SetLoading() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateLoading
	f.err = nil
}

// Seed installs a ready snapshot. Pending edits survive a reseed.
func (f *Form) Seed(snap *Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap.Settings.Clone()
	f.catalog = snap.Catalog
	f.tracker = NewCredentialTracker(f.snap, f.catalog)
	f.state = StateReady
	f.err = nil
}

// Fail puts the form in the blocking failed state.
func (f *Form) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateFailed
	f.err = err
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Mode decides whether credential fields exist. It is only meaningful once
// the form has been seeded.
func (f *Form) Mode() models.Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catalog == nil {
		return ""
	}
	return f.catalog.Mode
}

func (f *Form) Catalog() *models.Catalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.catalog
}

func (f *Form) Tracker() *CredentialTracker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracker
}

// Snapshot returns a copy of the cached settings.
func (f *Form) Snapshot() *models.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap.Clone()
}

func (f *Form) SetLanguage(label string) error {
	return f.update(func(e *pendingEdit) error {
		e.language = &label
		return nil
	})
}

func (f *Form) SetModel(model string) error {
	return f.update(func(e *pendingEdit) error {
		e.model = &model
		return nil
	})
}

// SetToggle records a raw control reading such as "on" or "off". An empty
// raw value clears the edit so the stored value is kept.
func (f *Form) SetToggle(field Field, raw string) error {
	t, err := ParseToggle(raw)
	if err != nil {
		return err
	}
	return f.setToggle(field, t)
}

func (f *Form) SetAnalyticsConsent(v bool) error {
	return f.setToggle(FieldAnalyticsConsent, ToggleOf(v))
}

func (f *Form) SetSoundNotifications(v bool) error {
	return f.setToggle(FieldSoundNotifications, ToggleOf(v))
}

func (f *Form) setToggle(field Field, t Toggle) error {
	return f.update(func(e *pendingEdit) error {
		switch field {
		case FieldAnalyticsConsent:
			e.analytics = t
		case FieldSoundNotifications:
			e.sound = t
		default:
			return ErrUnknownField
		}
		return nil
	})
}

// SetCredential records typed input for a provider. A typed value replaces
// any stored credential on save; blank input never does.
func (f *Form) SetCredential(providerID, value string) error {
	return f.update(func(e *pendingEdit) error {
		if !f.catalog.CredentialsEditable() {
			return ErrCredentialsLocked
		}
		if _, ok := f.catalog.Provider(providerID); !ok {
			return ErrUnknownProvider
		}
		if e.credentials == nil {
			e.credentials = map[string]string{}
		}
		e.credentials[providerID] = value
		return nil
	})
}

func (f *Form) Disconnect(providerID string) error {
	return f.update(func(e *pendingEdit) error {
		if !f.catalog.CredentialsEditable() {
			return ErrCredentialsLocked
		}
		if _, ok := f.catalog.Provider(providerID); !ok {
			return ErrUnknownProvider
		}
		if !f.tracker.IsSet(providerID) {
			return ErrNotConnected
		}
		if e.remove == nil {
			e.remove = map[string]bool{}
		}
		e.remove[providerID] = true
		return nil
	})
}

func (f *Form) DisconnectAll() error {
	return f.update(func(e *pendingEdit) error {
		if !f.catalog.CredentialsEditable() {
			return ErrCredentialsLocked
		}
		if !f.tracker.AnyConnected() {
			return ErrNotConnected
		}
		if e.remove == nil {
			e.remove = map[string]bool{}
		}
		for _, id := range f.tracker.Connected() {
			e.remove[id] = true
		}
		return nil
	})
}

func (f *Form) update(fn func(e *pendingEdit) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateReady {
		return ErrNotReady
	}
	return fn(&f.edit)
}

// clearSubmitted drops the edits a confirmed save carried and keeps the
// ones typed while it was pending.
func (f *Form) clearSubmitted(sent pendingEdit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edit.forget(sent)
}

// ClearEdits drops the pending copy.
func (f *Form) ClearEdits() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edit = pendingEdit{}
}

func (f *Form) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.edit.empty()
}

func (f *Form) Values() (Values, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateReady {
		return Values{}, ErrNotReady
	}

	v := Values{
		Language:                  f.snap.Language,
		AnalyticsConsent:          f.edit.analytics.Resolve(f.snap.AnalyticsConsent),
		SoundNotificationsEnabled: f.edit.sound.Resolve(f.snap.SoundNotificationsEnabled),
		LLMModel:                  f.snap.LLMModel,
	}
	if f.edit.language != nil {
		if l, ok := f.catalog.ResolveLanguage(*f.edit.language); ok {
			v.Language = l.Code
		}
	}
	v.LanguageLabel = f.catalog.LanguageLabel(v.Language)
	if f.edit.model != nil {
		v.LLMModel = strings.TrimSpace(*f.edit.model)
	}
	for _, id := range slices.Sorted(maps.Keys(f.edit.credentials)) {
		if strings.TrimSpace(f.edit.credentials[id]) != "" {
			v.TypedCredentials = append(v.TypedCredentials, id)
		}
	}
	v.Disconnecting = slices.Sorted(maps.Keys(f.edit.remove))
	return v, nil
}

// BuildPatch diffs the pending edits against the snapshot. Values the
// catalog does not offer are left out and listed in Patch.Skipped.
func (f *Form) BuildPatch() (*models.Patch, error) {
	p, _, err := f.buildPatch()
	return p, err
}

// buildPatch also returns the edits the patch was built from.
func (f *Form) buildPatch() (*models.Patch, pendingEdit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateReady {
		return nil, pendingEdit{}, ErrNotReady
	}

	e, s, c := &f.edit, f.snap, f.catalog
	p := &models.Patch{}

	if e.language != nil {
		if l, ok := c.ResolveLanguage(*e.language); !ok {
			p.Skipped = append(p.Skipped, models.Skipped{Field: "language", Value: *e.language, Reason: reasonUnknownLanguage})
		} else if l.Code != s.Language {
			p.Language = &l.Code
		}
	}

	if e.model != nil {
		m := strings.TrimSpace(*e.model)
		switch {
		case m == s.LLMModel:
		case m == "" || c.HasModel(m):
			p.LLMModel = &m
		default:
			p.Skipped = append(p.Skipped, models.Skipped{Field: "llm_model", Value: m, Reason: reasonUnknownModel})
		}
	}

	if e.analytics.Present() {
		if v := e.analytics.Resolve(s.AnalyticsConsent); v != s.AnalyticsConsent {
			p.AnalyticsConsent = &v
		}
	}
	if e.sound.Present() {
		if v := e.sound.Resolve(s.SoundNotificationsEnabled); v != s.SoundNotificationsEnabled {
			p.SoundNotificationsEnabled = &v
		}
	}

	for _, id := range slices.Sorted(maps.Keys(e.credentials)) {
		v := strings.TrimSpace(e.credentials[id])
		if v == "" {
			continue
		}
		if !c.CredentialsEditable() {
			p.Skipped = append(p.Skipped, models.Skipped{Field: "credentials", Value: id, Reason: reasonHosted})
			continue
		}
		if _, ok := c.Provider(id); !ok {
			p.Skipped = append(p.Skipped, models.Skipped{Field: "credentials", Value: id, Reason: reasonUnknownProvider})
			continue
		}
		if p.Credentials == nil {
			p.Credentials = map[string]string{}
		}
		p.Credentials[id] = v
	}

	for _, id := range slices.Sorted(maps.Keys(e.remove)) {
		if _, typed := p.Credentials[id]; typed {
			continue
		}
		if !c.CredentialsEditable() {
			p.Skipped = append(p.Skipped, models.Skipped{Field: "remove_credentials", Value: id, Reason: reasonHosted})
			continue
		}
		if !f.tracker.IsSet(id) {
			p.Skipped = append(p.Skipped, models.Skipped{Field: "remove_credentials", Value: id, Reason: reasonNotConnected})
			continue
		}
		p.RemoveCredentials = append(p.RemoveCredentials, id)
	}

	for _, sk := range p.Skipped {
		f.logger.Debug(context.Background(), "field skipped", "field", sk.Field, "reason", sk.Reason)
	}
	return p, e.clone(), nil
}
