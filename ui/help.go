package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	modalWidth := 64
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(fmt.Sprintf("patui %s", a.dataModel.Version))

	keyStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	rows := [][2]string{
		{"Enter", "Send instruction to the phone agent"},
		{"Alt+Enter", "Insert newline"},
		{"Alt+E", "Edit your last message and resubmit"},
		{"Alt+R", "Retry / regenerate the last report"},
		{"Alt+K", "Select any message to edit or retry"},
		{"Alt+N", "New chat (archives the current one)"},
		{"Alt+S", "Chat history"},
		{"Alt+D", "Device selector"},
		{"Alt+F", "Search archived chats"},
		{"Alt+O", "Settings"},
		{"Alt+Y", "Copy last report to clipboard"},
		{"Alt+T", "Copy the whole transcript"},
		{"Alt+U", "Clear the input"},
		{"PgUp/PgDn", "Scroll the conversation"},
		{"Alt+H", "Toggle this help"},
		{"Alt+Q", "Quit"},
	}

	var lines []string
	lines = append(lines, strings.Repeat(" ", modalWidth))
	for _, row := range rows {
		styled := fmt.Sprintf("  %s %s", keyStyle.Render(fmt.Sprintf("%-12s", row[0])), row[1])
		lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(styled))
	}
	lines = append(lines, strings.Repeat(" ", modalWidth))

	bodySection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("Press any key to close")

	content := strings.Join([]string{titleSection, bodySection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
