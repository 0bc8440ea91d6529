package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastWarning
	ToastError
)

const (
	maxToasts = 3
	toastTTL  = 4 * time.Second
)

type toast struct {
	message string
	level   ToastLevel
	expiry  time.Time
}

// ToastsModel is a queue of auto-dismissing notifications.
type ToastsModel struct {
	queue []toast
	now   func() time.Time
}

func NewToasts() ToastsModel {
	return ToastsModel{now: time.Now}
}

// Add enqueues a toast. The oldest ones are dropped past maxToasts.
func (m *ToastsModel) Add(message string, level ToastLevel) {
	m.queue = append(m.queue, toast{message: message, level: level, expiry: m.now().Add(toastTTL)})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Tick prunes expired toasts.
func (m *ToastsModel) Tick() {
	now := m.now()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

func (m ToastsModel) HasToasts() bool {
	return len(m.queue) > 0
}

func (m ToastsModel) View(termWidth int) string {
	if len(m.queue) == 0 {
		return ""
	}
	var lines []string
	for _, t := range m.queue {
		icon, color := toastIconColor(t.level)
		rendered := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf(" %s %s ", icon, t.message))
		pad := max(termWidth-lipgloss.Width(rendered), 0)
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

func toastIconColor(level ToastLevel) (string, lipgloss.TerminalColor) {
	switch level {
	case ToastWarning:
		return "⚠", colorWarning
	case ToastError:
		return "✘", colorError
	default:
		return "✓", colorSuccess
	}
}

// inbox is the Notifier handed to the save coordinator. Saves run inside a
// tea.Cmd goroutine, so messages are buffered and drained by Update.
type inbox struct {
	mu    sync.Mutex
	items []toast
}

func (b *inbox) NotifySuccess(msg string) {
	b.push(msg, ToastInfo)
}

func (b *inbox) NotifyError(msg string) {
	b.push(msg, ToastError)
}

func (b *inbox) push(msg string, level ToastLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, toast{message: msg, level: level})
}

func (b *inbox) drain() []toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}
