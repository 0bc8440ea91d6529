package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophsettings/internal/common"
)

const minimal = `
mode: hosted
languages:
  - code: en
    label: English
  - code: es
    label: Español
providers:
  - id: github
    label: GitHub
  - id: openai
    label: OpenAI
    models: [gpt-4o, gpt-4o-mini]
defaults:
  language: es
  analytics_consent: true
  llm_model: gpt-4o
`

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, ModeSelfManaged, c.Mode)
	assert.True(t, c.HasLanguage("en"))
	assert.True(t, c.HasLanguage("es"))
	assert.True(t, c.HasProvider("github"))
	assert.True(t, c.HasProvider("gitlab"))
	assert.True(t, c.HasModel("bigcode/starcoder"))
	assert.Equal(t, "en", c.Defaults.Language)
	assert.True(t, c.Defaults.SoundNotificationsEnabled)
	assert.False(t, c.Defaults.AnalyticsConsent)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, ModeHosted, c.Mode)
	require.Len(t, c.Providers, 2)
	assert.Equal(t, "github", c.Providers[0].ID)
	assert.Equal(t, "openai", c.Providers[1].ID)
	assert.True(t, c.HasModel("gpt-4o-mini"))
	assert.False(t, c.HasModel("gpt-3"))
	assert.False(t, c.HasProvider("gitlab"))
	assert.Equal(t, Defaults{Language: "es", AnalyticsConsent: true, LLMModel: "gpt-4o"}, c.Defaults)
}

func TestParse_ModeDefaultsToSelfManaged(t *testing.T) {
	c, err := Parse([]byte("languages: [{code: en, label: English}]\ndefaults: {language: en}\n"))
	require.NoError(t, err)
	assert.Equal(t, ModeSelfManaged, c.Mode)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"bad mode", "mode: cloud\nlanguages: [{code: en, label: English}]\ndefaults: {language: en}", "mode"},
		{"no languages", "defaults: {language: en}", "languages"},
		{"bad tag", "languages: [{code: '!!', label: X}]\ndefaults: {language: en}", "languages"},
		{"missing label", "languages: [{code: en}]\ndefaults: {language: en}", "languages"},
		{"duplicate language", "languages: [{code: en, label: A}, {code: en, label: B}]\ndefaults: {language: en}", "languages"},
		{"empty provider id", "languages: [{code: en, label: English}]\nproviders: [{label: X}]\ndefaults: {language: en}", "providers"},
		{"duplicate provider", "languages: [{code: en, label: English}]\nproviders: [{id: a}, {id: a}]\ndefaults: {language: en}", "providers"},
		{"default language", "languages: [{code: en, label: English}]\ndefaults: {language: fr}", "defaults.language"},
		{"default model", "languages: [{code: en, label: English}]\ndefaults: {language: en, llm_model: x}", "defaults.llm_model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)

			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("languages: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorValidation)
}

func TestWithMode(t *testing.T) {
	c := Default()

	same, err := c.WithMode("")
	require.NoError(t, err)
	assert.Same(t, c, same)

	hosted, err := c.WithMode(ModeHosted)
	require.NoError(t, err)
	assert.Equal(t, ModeHosted, hosted.Mode)
	assert.Equal(t, ModeSelfManaged, c.Mode, "original must not change")

	_, err = c.WithMode("bogus")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeHosted, c.Mode)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
