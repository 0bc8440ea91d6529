package settings

import (
	"slices"

	"github.com/dmitrijs2005/gophsettings/internal/client/models"
)

// MaskedPlaceholder stands in for a stored credential. The value itself is
// never available to the client.
const MaskedPlaceholder = "********"

type CredentialStatus struct {
	ProviderID string
	Label      string
	IsSet      bool
}

// CredentialTracker derives per-provider presence flags from a fetched
// snapshot. Providers the catalog does not list are ignored.
type CredentialTracker struct {
	providers []models.Provider
	set       map[string]bool
}

func NewCredentialTracker(s *models.Settings, c *models.Catalog) *CredentialTracker {
	t := &CredentialTracker{set: map[string]bool{}}
	if c != nil {
		t.providers = slices.Clone(c.Providers)
	}
	if s == nil {
		return t
	}
	for _, id := range s.CredentialsSet {
		if slices.ContainsFunc(t.providers, func(p models.Provider) bool { return p.ID == id }) {
			t.set[id] = true
		}
	}
	return t
}

func (t *CredentialTracker) IsSet(providerID string) bool {
	return t.set[providerID]
}

// Statuses lists every catalog provider in catalog order.
func (t *CredentialTracker) Statuses() []CredentialStatus {
	out := make([]CredentialStatus, 0, len(t.providers))
	for _, p := range t.providers {
		out = append(out, CredentialStatus{ProviderID: p.ID, Label: p.Label, IsSet: t.set[p.ID]})
	}
	return out
}

// Placeholder is the text shown in an empty credential field.
func (t *CredentialTracker) Placeholder(providerID string) string {
	if t.set[providerID] {
		return MaskedPlaceholder
	}
	return ""
}

// AnyConnected gates the disconnect action.
func (t *CredentialTracker) AnyConnected() bool {
	return len(t.set) > 0
}

// Connected returns the ids of providers with a stored credential, in
// catalog order.
func (t *CredentialTracker) Connected() []string {
	var out []string
	for _, p := range t.providers {
		if t.set[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}
