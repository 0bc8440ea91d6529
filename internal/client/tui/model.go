// Package tui is the interactive settings form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/gophsettings/internal/client/i18n"
	"github.com/dmitrijs2005/gophsettings/internal/client/models"
	"github.com/dmitrijs2005/gophsettings/internal/client/settings"
	"github.com/dmitrijs2005/gophsettings/internal/logging"
)

type fieldKind int

const (
	fieldLanguage fieldKind = iota
	fieldModel
	fieldAnalytics
	fieldSound
	fieldCredential
	fieldSave
)

type field struct {
	kind     fieldKind
	provider models.Provider
	input    textinput.Model
}

type (
	loadedMsg struct{ err error }
	savedMsg  struct {
		out settings.Outcome
		err error
	}
	tickMsg time.Time
)

// Localizer translates the form's text. UseLanguage is called with the
// settings language after every successful fetch.
type Localizer interface {
	T(k i18n.Key) string
	UseLanguage(ctx context.Context, code string)
}

// Model renders one settings.Form. Fetches and saves run as tea.Cmds so the
// UI keeps redrawing while they are pending.
type Model struct {
	ctx     context.Context
	session *settings.Session
	loc     Localizer
	logger  logging.Logger

	spinner spinner.Model
	toasts  ToastsModel
	inbox   *inbox

	fields []field
	focus  int
	width  int
	saving bool
}

// New builds the model and the Session it drives. Notifications from saves
// become toasts.
func New(ctx context.Context, store settings.Store, consent settings.ConsentPropagator, loc Localizer, logger logging.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	b := &inbox{}
	return &Model{
		ctx:     ctx,
		session: settings.NewSession(store, b, consent, loc, logger),
		loc:     loc,
		logger:  logger.With("module", "tui"),
		spinner: sp,
		toasts:  NewToasts(),
		inbox:   b,
		width:   80,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.session.Load(m.ctx)}
	}
}

func (m *Model) save() tea.Cmd {
	if m.saving || m.session.Saving() {
		return nil
	}
	m.saving = true
	return func() tea.Msg {
		out, _, err := m.session.Save(m.ctx)
		return savedMsg{out: out, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.toasts.Tick()
		return m, tick()

	case loadedMsg:
		if msg.err == nil {
			m.followLanguage()
			m.buildFields()
		}
		return m, nil

	case savedMsg:
		m.saving = false
		for _, t := range m.inbox.drain() {
			m.toasts.Add(t.message, t.level)
		}
		switch {
		case msg.err == nil:
			m.followLanguage()
			m.buildFields()
		case errors.Is(msg.err, settings.ErrNotReady), errors.Is(msg.err, settings.ErrSaveInFlight):
			m.toasts.Add(msg.err.Error(), ToastWarning)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.session.Form().State() {
	case settings.StateLoading:
		return m, nil
	case settings.StateFailed:
		switch key {
		case "r":
			return m, tea.Batch(m.spinner.Tick, m.load())
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "ctrl+s":
		return m, m.save()
	}

	// Fields are read-only until the pending save comes back.
	if m.saving {
		return m, nil
	}

	if key == "ctrl+x" {
		m.report(m.session.Form().DisconnectAll())
		return m, nil
	}

	f := &m.fields[m.focus]
	switch f.kind {
	case fieldLanguage, fieldModel:
		switch key {
		case "left", "h":
			m.cycle(f, -1)
		case "right", "l", " ", "enter":
			m.cycle(f, 1)
		}
	case fieldAnalytics, fieldSound:
		if key == " " || key == "enter" {
			m.flip(f)
		}
	case fieldCredential:
		if key == "ctrl+d" {
			m.report(m.session.Form().Disconnect(f.provider.ID))
			return m, nil
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		m.report(m.session.Form().SetCredential(f.provider.ID, f.input.Value()))
		return m, cmd
	case fieldSave:
		if key == "enter" || key == " " {
			return m, m.save()
		}
	}
	return m, nil
}

func (m *Model) followLanguage() {
	form := m.session.Form()
	if form.State() != settings.StateReady {
		return
	}
	m.loc.UseLanguage(m.ctx, form.Snapshot().Language)
}

func (m *Model) report(err error) {
	if err != nil {
		m.toasts.Add(err.Error(), ToastWarning)
	}
}

func (m *Model) buildFields() {
	form := m.session.Form()
	m.fields = []field{{kind: fieldLanguage}, {kind: fieldModel}, {kind: fieldAnalytics}, {kind: fieldSound}}

	if form.Catalog().CredentialsEditable() {
		tr := form.Tracker()
		for _, p := range form.Catalog().Providers {
			in := textinput.New()
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
			in.Placeholder = tr.Placeholder(p.ID)
			in.CharLimit = 512
			in.Width = 40
			m.fields = append(m.fields, field{kind: fieldCredential, provider: p, input: in})
		}
	}
	m.fields = append(m.fields, field{kind: fieldSave})
	m.focus = min(m.focus, len(m.fields)-1)
	m.syncFocus()
}

func (m *Model) moveFocus(d int) {
	n := len(m.fields)
	if n == 0 {
		return
	}
	m.focus = (m.focus + d + n) % n
	m.syncFocus()
}

func (m *Model) syncFocus() {
	for i := range m.fields {
		if m.fields[i].kind != fieldCredential {
			continue
		}
		if i == m.focus {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
}

func (m *Model) cycle(f *field, d int) {
	form := m.session.Form()
	v, err := form.Values()
	if err != nil {
		return
	}
	cat := form.Catalog()

	if f.kind == fieldLanguage {
		labels := make([]string, 0, len(cat.Languages))
		for _, l := range cat.Languages {
			labels = append(labels, l.Label)
		}
		m.report(form.SetLanguage(step(labels, v.LanguageLabel, d)))
		return
	}
	options := append([]string{""}, cat.Models()...)
	m.report(form.SetModel(step(options, v.LLMModel, d)))
}

func step(options []string, current string, d int) string {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[(i+d+len(options))%len(options)]
}

func (m *Model) flip(f *field) {
	form := m.session.Form()
	v, err := form.Values()
	if err != nil {
		return
	}
	if f.kind == fieldAnalytics {
		m.report(form.SetAnalyticsConsent(!v.AnalyticsConsent))
	} else {
		m.report(form.SetSoundNotifications(!v.SoundNotificationsEnabled))
	}
}

func (m *Model) View() string {
	form := m.session.Form()
	var body string
	switch form.State() {
	case settings.StateLoading:
		body = fmt.Sprintf("%s %s", m.spinner.View(), m.loc.T(i18n.Loading))
	case settings.StateFailed:
		body = m.failedView(form.Err())
	default:
		body = m.formView()
	}
	if m.toasts.HasToasts() {
		body += "\n\n" + m.toasts.View(m.width)
	}
	return body
}

func (m *Model) failedView(err error) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorError).Render(m.loc.T(i18n.FetchFailed)))
	if err != nil {
		b.WriteString("\n\n" + mutedStyle.Render(err.Error()))
	}
	b.WriteString(helpStyle.Render("\n\nr retry • q quit"))
	return panelStyle.Render(b.String())
}

func (m *Model) formView() string {
	form := m.session.Form()
	v, err := form.Values()
	if err != nil {
		return ""
	}
	tr := form.Tracker()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Account settings"))
	b.WriteString("\n")

	for i, f := range m.fields {
		cursor := "  "
		if i == m.focus {
			cursor = focusedStyle.Render("> ")
		}
		b.WriteString(cursor)
		switch f.kind {
		case fieldLanguage:
			b.WriteString(labelStyle.Render("Language") + "‹ " + v.LanguageLabel + " ›")
		case fieldModel:
			model := v.LLMModel
			if model == "" {
				model = mutedStyle.Render("(none)")
			}
			b.WriteString(labelStyle.Render("LLM model") + "‹ " + model + " ›")
		case fieldAnalytics:
			b.WriteString(labelStyle.Render("Analytics") + checkbox(v.AnalyticsConsent))
		case fieldSound:
			b.WriteString(labelStyle.Render("Sound notifications") + checkbox(v.SoundNotificationsEnabled))
		case fieldCredential:
			status := mutedStyle.Render("not set")
			if tr.IsSet(f.provider.ID) {
				status = setStyle.Render("set")
			}
			if slices.Contains(v.Disconnecting, f.provider.ID) {
				status = disabledStyle.Render("set") + " " + mutedStyle.Render("(disconnect on save)")
			}
			b.WriteString(labelStyle.Render(f.provider.Label+" token") + f.input.View() + "  " + status)
		case fieldSave:
			label := "Save"
			if m.saving {
				label = m.spinner.View() + " Saving"
				b.WriteString(buttonStyle.BorderForeground(colorMuted).Render(label))
			} else {
				b.WriteString(buttonStyle.Render(label))
			}
		}
		b.WriteString("\n")
	}

	help := "tab/↑↓ move • ←→ change • space toggle • ctrl+s save • esc quit"
	if form.Catalog().CredentialsEditable() && tr.AnyConnected() {
		help += " • ctrl+d disconnect • ctrl+x disconnect all"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
