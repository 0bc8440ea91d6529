package models

import (
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Settings is the readable snapshot of a user's settings. Credential values
// are never readable; CredentialsSet lists providers that have one.
type Settings struct {
	Language                  string
	AnalyticsConsent          bool
	SoundNotificationsEnabled bool
	LLMModel                  string
	CredentialsSet            []string
	UpdatedAt                 time.Time
}

// Clone returns a deep copy so callers can never alias a cached snapshot.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	cp := *s
	cp.CredentialsSet = slices.Clone(s.CredentialsSet)
	return &cp
}

// Skipped records a field the form left out of a patch because its value
// could not be resolved against the catalog.
type Skipped struct {
	Field  string
	Value  string
	Reason string
}

// Patch is a sparse update. Nil fields and absent map entries leave the
// stored value untouched.
type Patch struct {
	Language                  *string
	AnalyticsConsent          *bool
	SoundNotificationsEnabled *bool
	LLMModel                  *string
	Credentials               map[string]string
	RemoveCredentials         []string

	// Skipped is local bookkeeping and is never sent.
	Skipped []Skipped
}

func (p *Patch) Empty() bool {
	return p.Language == nil && p.AnalyticsConsent == nil && p.SoundNotificationsEnabled == nil &&
		p.LLMModel == nil && len(p.Credentials) == 0 && len(p.RemoveCredentials) == 0
}

// LogValue keeps credential values out of logs.
func (p *Patch) LogValue() slog.Value {
	attrs := []slog.Attr{}
	if p.Language != nil {
		attrs = append(attrs, slog.String("language", *p.Language))
	}
	if p.AnalyticsConsent != nil {
		attrs = append(attrs, slog.Bool("analytics_consent", *p.AnalyticsConsent))
	}
	if p.SoundNotificationsEnabled != nil {
		attrs = append(attrs, slog.Bool("sound_notifications_enabled", *p.SoundNotificationsEnabled))
	}
	if p.LLMModel != nil {
		attrs = append(attrs, slog.String("llm_model", *p.LLMModel))
	}
	if len(p.Credentials) > 0 {
		attrs = append(attrs, slog.Any("credentials", slices.Sorted(maps.Keys(p.Credentials))))
	}
	if len(p.RemoveCredentials) > 0 {
		attrs = append(attrs, slog.Any("remove_credentials", p.RemoveCredentials))
	}
	if len(p.Skipped) > 0 {
		attrs = append(attrs, slog.Int("skipped", len(p.Skipped)))
	}
	return slog.GroupValue(attrs...)
}
