package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.Color("42")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("63")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(24)
	focusedStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	setStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	disabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent)
	panelStyle    = lipgloss.NewStyle().Padding(1, 3).Border(lipgloss.ThickBorder()).BorderForeground(colorError)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
)
