// Package i18n holds the client's user-facing notification strings and
// picks a translation for the user's settings language.
package i18n

import (
	"context"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key is the English source text of a message; it doubles as the lookup key.
type Key string

const (
	SettingsSaved Key = "Settings saved"
	SaveFailed    Key = "Failed to save settings"
	FetchFailed   Key = "Failed to fetch settings"
	Loading       Key = "Loading settings"
	SaveInFlight  Key = "A save is already in progress"
)

var translations = map[language.Tag]map[Key]string{
	language.English: {
		SettingsSaved: "Settings saved",
		SaveFailed:    "Failed to save settings",
		FetchFailed:   "Failed to fetch settings",
		Loading:       "Loading settings",
		SaveInFlight:  "A save is already in progress",
	},
	language.Spanish: {
		SettingsSaved: "Ajustes guardados",
		SaveFailed:    "No se pudieron guardar los ajustes",
		FetchFailed:   "No se pudieron obtener los ajustes",
		Loading:       "Cargando ajustes",
		SaveInFlight:  "Ya hay un guardado en curso",
	},
	language.German: {
		SettingsSaved: "Einstellungen gespeichert",
		SaveFailed:    "Einstellungen konnten nicht gespeichert werden",
		FetchFailed:   "Einstellungen konnten nicht geladen werden",
		Loading:       "Einstellungen werden geladen",
		SaveInFlight:  "Es wird bereits gespeichert",
	},
	language.French: {
		SettingsSaved: "Paramètres enregistrés",
		SaveFailed:    "Échec de l'enregistrement des paramètres",
		FetchFailed:   "Impossible de récupérer les paramètres",
		Loading:       "Chargement des paramètres",
		SaveInFlight:  "Un enregistrement est déjà en cours",
	},
}

var messages = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, m := range translations {
		for k, v := range m {
			if err := b.SetString(tag, string(k), v); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Translator renders messages in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for a BCP 47 locale such as "es" or "zh-TW".
// Unknown or malformed locales fall back to English.
func New(locale string) *Translator {
	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		matcher := language.NewMatcher(messages.Languages())
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = messages.Languages()[idx]
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

// Language is the tag actually used after fallback.
func (t *Translator) Language() language.Tag {
	return t.tag
}

func (t *Translator) T(k Key) string {
	return t.printer.Sprintf(string(k))
}

// Switch is a shared Translator that moves to the settings language once it
// is known. Safe for concurrent use.
type Switch struct {
	mu sync.RWMutex
	t  *Translator
}

func NewSwitch(locale string) *Switch {
	return &Switch{t: New(locale)}
}

func (s *Switch) T(k Key) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.T(k)
}

// UseLanguage switches to code. An empty code keeps the current language.
func (s *Switch) UseLanguage(_ context.Context, code string) {
	if code == "" {
		return
	}
	t := New(code)
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
}

func (s *Switch) Language() language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Language()
}
