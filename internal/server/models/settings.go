package models

import "time"

type Settings struct {
	UserID                    string
	Language                  string
	AnalyticsConsent          bool
	SoundNotificationsEnabled bool
	LLMModel                  string
	UpdatedAt                 time.Time
}

// SettingsPatch is a partial update of the scalar settings columns.
// Nil fields keep their stored value.
type SettingsPatch struct {
	Language                  *string
	AnalyticsConsent          *bool
	SoundNotificationsEnabled *bool
	LLMModel                  *string
}

func (p SettingsPatch) Empty() bool {
	return p.Language == nil && p.AnalyticsConsent == nil &&
		p.SoundNotificationsEnabled == nil && p.LLMModel == nil
}
