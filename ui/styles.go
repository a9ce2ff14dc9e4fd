package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// Agent report style
	AgentStyle = lipgloss.NewStyle().
			Foreground(accentColor)
	// NO .Background() = transparent!

	// Failed report style
	FailedStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Border style
	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	// Status bar style
	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)
)

// ApplyTheme sets the palette for the configured theme. The dark theme uses
// the bright ANSI range, the light theme the normal range so text stays
// readable on white terminals. Called before the program starts and again
// when the theme setting changes.
func ApplyTheme(theme string) {
	if theme == "dark" {
		dimColor = lipgloss.Color("7")
		accentColor = lipgloss.Color("12")
		successColor = lipgloss.Color("10")
		warningColor = lipgloss.Color("11")
		dangerColor = lipgloss.Color("9")
		highlightColor = lipgloss.Color("13")
	} else {
		dimColor = lipgloss.Color("8")
		accentColor = lipgloss.Color("4")
		successColor = lipgloss.Color("2")
		warningColor = lipgloss.Color("3")
		dangerColor = lipgloss.Color("1")
		highlightColor = lipgloss.Color("5")
	}

	UserStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	AgentStyle = lipgloss.NewStyle().Foreground(accentColor)
	FailedStyle = lipgloss.NewStyle().Foreground(dangerColor)
	DimStyle = lipgloss.NewStyle().Foreground(dimColor)
	BorderStyle = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle = lipgloss.NewStyle().Bold(true)
	StatusStyle = lipgloss.NewStyle().Foreground(dimColor)
	SelectedStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	HelpStyle = lipgloss.NewStyle().Foreground(dimColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
}

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent+bold.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
