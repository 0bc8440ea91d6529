package api

import (
	"log/slog"
	"slices"
	"time"
)

// Deployment modes reported in CapabilitiesResponse.Mode.
const (
	ModeSelfManaged = "self_managed"
	ModeHosted      = "hosted"
)

// SettingsResponse is the read view of a user's settings. Stored provider
// credentials are reported by provider id only; secret values never leave
// the server.
type SettingsResponse struct {
	Language                  string    `json:"language"`
	AnalyticsConsent          bool      `json:"analytics_consent"`
	SoundNotificationsEnabled bool      `json:"sound_notifications_enabled"`
	LLMModel                  string    `json:"llm_model,omitempty"`
	CredentialsSet            []string  `json:"credentials_set"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// PatchSettingsRequest is a partial update. A nil pointer or an absent map
// entry leaves the stored value unchanged.
type PatchSettingsRequest struct {
	Language                  *string           `json:"language,omitempty"`
	AnalyticsConsent          *bool             `json:"analytics_consent,omitempty"`
	SoundNotificationsEnabled *bool             `json:"sound_notifications_enabled,omitempty"`
	LLMModel                  *string           `json:"llm_model,omitempty"`
	Credentials               map[string]string `json:"credentials,omitempty"`
	RemoveCredentials         []string          `json:"remove_credentials,omitempty"`
}

// LogValue keeps credential values out of logs: only the provider ids of the
// credentials being written are reported.
func (r *PatchSettingsRequest) LogValue() slog.Value {
	if r == nil {
		return slog.GroupValue()
	}

	attrs := make([]slog.Attr, 0, 6)
	if r.Language != nil {
		attrs = append(attrs, slog.String("language", *r.Language))
	}
	if r.AnalyticsConsent != nil {
		attrs = append(attrs, slog.Bool("analytics_consent", *r.AnalyticsConsent))
	}
	if r.SoundNotificationsEnabled != nil {
		attrs = append(attrs, slog.Bool("sound_notifications_enabled", *r.SoundNotificationsEnabled))
	}
	if r.LLMModel != nil {
		attrs = append(attrs, slog.String("llm_model", *r.LLMModel))
	}
	if len(r.Credentials) > 0 {
		ids := make([]string, 0, len(r.Credentials))
		for id := range r.Credentials {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		attrs = append(attrs, slog.Any("credentials", ids))
	}
	if len(r.RemoveCredentials) > 0 {
		attrs = append(attrs, slog.Any("remove_credentials", r.RemoveCredentials))
	}
	return slog.GroupValue(attrs...)
}

// Language is a locale the UI can be switched to.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Provider is a source-control or model provider a credential can be stored for.
type Provider struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Models []string `json:"models,omitempty"`
}

// Defaults are the values a freshly provisioned settings record starts with.
type Defaults struct {
	Language                  string `json:"language"`
	AnalyticsConsent          bool   `json:"analytics_consent"`
	SoundNotificationsEnabled bool   `json:"sound_notifications_enabled"`
}

// CapabilitiesResponse enumerates the legal configuration values.
type CapabilitiesResponse struct {
	Mode      string     `json:"mode"`
	Languages []Language `json:"languages"`
	Providers []Provider `json:"providers"`
	Defaults  Defaults   `json:"defaults"`
}

type PingResponse struct {
	Status string `json:"status"`
}
