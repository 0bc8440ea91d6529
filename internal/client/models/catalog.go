// Package models defines the client-side view of account settings, the
// capability catalog and the partial updates the form submits.
package models

import (
	"slices"
	"strings"
)

// Mode is the deployment mode reported by the capability catalog. It decides
// whether provider credentials are user-editable.
type Mode string

const (
	ModeSelfManaged Mode = "self_managed"
	ModeHosted      Mode = "hosted"
)

type Language struct {
	Code  string
	Label string
}

type Provider struct {
	ID     string
	Label  string
	Models []string
}

type Defaults struct {
	Language                  string
	AnalyticsConsent          bool
	SoundNotificationsEnabled bool
}

// Catalog enumerates the legal values the settings form may offer.
type Catalog struct {
	Mode      Mode
	Languages []Language
	Providers []Provider
	Defaults  Defaults
}

// CredentialsEditable reports whether provider credential fields exist.
func (c *Catalog) CredentialsEditable() bool {
	return c.Mode != ModeHosted
}

// ResolveLanguage maps a label or code (case-insensitive, surrounding
// whitespace ignored) to a catalog language.
func (c *Catalog) ResolveLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Language{}, false
	}
	for _, l := range c.Languages {
		if strings.EqualFold(l.Label, s) || strings.EqualFold(l.Code, s) {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageLabel returns the label for code, or code itself when unknown.
func (c *Catalog) LanguageLabel(code string) string {
	for _, l := range c.Languages {
		if l.Code == code {
			return l.Label
		}
	}
	return code
}

func (c *Catalog) Provider(id string) (Provider, bool) {
	i := slices.IndexFunc(c.Providers, func(p Provider) bool { return p.ID == id })
	if i < 0 {
		return Provider{}, false
	}
	return c.Providers[i], true
}

// Models lists every model offered by any provider, in catalog order,
// without duplicates.
func (c *Catalog) Models() []string {
	var out []string
	for _, p := range c.Providers {
		for _, m := range p.Models {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out
}

func (c *Catalog) HasModel(model string) bool {
	return slices.Contains(c.Models(), model)
}
