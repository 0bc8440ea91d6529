// Package catalog holds the capability catalog: the legal values a user's
// settings may take (languages, providers, LLM models), the deployment mode
// and the defaults new users start with.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/gophsettings/internal/common"
)

const (
	ModeSelfManaged = "self_managed"
	ModeHosted      = "hosted"
)

//go:embed default.yaml
var defaultCatalog []byte

type Language struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type Provider struct {
	ID     string   `yaml:"id"`
	Label  string   `yaml:"label"`
	Models []string `yaml:"models"`
}

type Defaults struct {
	Language                  string `yaml:"language"`
	AnalyticsConsent          bool   `yaml:"analytics_consent"`
	SoundNotificationsEnabled bool   `yaml:"sound_notifications_enabled"`
	LLMModel                  string `yaml:"llm_model"`
}

// Catalog is read-only after Parse; it is shared between requests.
type Catalog struct {
	Mode      string     `yaml:"mode"`
	Languages []Language `yaml:"languages"`
	Providers []Provider `yaml:"providers"`
	Defaults  Defaults   `yaml:"defaults"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	if c.Mode == "" {
		c.Mode = ModeSelfManaged
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks internal consistency: known mode, well-formed unique
// language tags, unique provider ids and defaults drawn from the catalog.
func (c *Catalog) Validate() error {
	if !ValidMode(c.Mode) {
		return common.NewValidationError("mode", c.Mode, "unknown deployment mode")
	}
	if len(c.Languages) == 0 {
		return common.NewValidationError("languages", nil, "at least one language is required")
	}

	seen := make(map[string]struct{}, len(c.Languages))
	for _, l := range c.Languages {
		if _, err := language.Parse(l.Code); err != nil {
			return common.NewValidationError("languages", l.Code, "not a BCP 47 tag")
		}
		if strings.TrimSpace(l.Label) == "" {
			return common.NewValidationError("languages", l.Code, "label is required")
		}
		if _, dup := seen[l.Code]; dup {
			return common.NewValidationError("languages", l.Code, "duplicate language")
		}
		seen[l.Code] = struct{}{}
	}

	ids := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID == "" {
			return common.NewValidationError("providers", nil, "provider id is required")
		}
		if _, dup := ids[p.ID]; dup {
			return common.NewValidationError("providers", p.ID, "duplicate provider")
		}
		ids[p.ID] = struct{}{}
	}

	if !c.HasLanguage(c.Defaults.Language) {
		return common.NewValidationError("defaults.language", c.Defaults.Language, "not in catalog")
	}
	if c.Defaults.LLMModel != "" && !c.HasModel(c.Defaults.LLMModel) {
		return common.NewValidationError("defaults.llm_model", c.Defaults.LLMModel, "not in catalog")
	}
	return nil
}

// WithMode returns a copy of the catalog reporting the given mode. An empty
// mode returns the catalog unchanged.
func (c *Catalog) WithMode(mode string) (*Catalog, error) {
	if mode == "" {
		return c, nil
	}
	if !ValidMode(mode) {
		return nil, common.NewValidationError("mode", mode, "unknown deployment mode")
	}
	cp := *c
	cp.Mode = mode
	return &cp, nil
}

func ValidMode(mode string) bool {
	return mode == ModeSelfManaged || mode == ModeHosted
}

func (c *Catalog) HasLanguage(code string) bool {
	return slices.ContainsFunc(c.Languages, func(l Language) bool { return l.Code == code })
}

func (c *Catalog) HasProvider(id string) bool {
	return slices.ContainsFunc(c.Providers, func(p Provider) bool { return p.ID == id })
}

// HasModel reports whether any provider offers the model.
func (c *Catalog) HasModel(model string) bool {
	for _, p := range c.Providers {
		if slices.Contains(p.Models, model) {
			return true
		}
	}
	return false
}
