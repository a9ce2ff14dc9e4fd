package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "patui/model"
	"patui/storage"
)

func renderMessageSearch(searchInput textinput.Model, results []storage.MessageMatch, selectedIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search Chat History")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type a query and press Enter to search archived chats...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Title(1) + Blank(1) + Input(1) + Blank(1) + count(1) + Blank(1) +
		// Footer(2) + border/padding(6)
		fixedOverhead := 14
		linesPerResult := 4
		maxVisible := (height - fixedOverhead) / linesPerResult
		if maxVisible < 1 {
			maxVisible = 1
		}

		startIdx := 0
		if selectedIdx >= maxVisible {
			startIdx = selectedIdx - maxVisible + 1
		}
		endIdx := startIdx + maxVisible
		if endIdx > len(results) {
			endIdx = len(results)
		}

		var b strings.Builder
		b.WriteString(fmt.Sprintf("Found %d matches:\n\n", len(results)))

		if startIdx > 0 {
			b.WriteString(DimStyle.Render(fmt.Sprintf("↑ %d more above", startIdx)) + "\n\n")
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Role == "agent" {
				roleStyle = AgentStyle
			}

			chatTitle := DimStyle.Render(fmt.Sprintf("[%s]", match.ChatTitle))
			matchText := fmt.Sprintf("%s %s %s\n  %s",
				roleStyle.Render(match.Role),
				chatTitle,
				DimStyle.Render(match.Timestamp.Format("Jan 2, 3:04 PM")),
				wordWrap(match.Preview, modalWidth-8),
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("▶ ") + matchText
			} else {
				matchText = "  " + matchText
			}

			b.WriteString(matchText + "\n\n")
		}

		if endIdx < len(results) {
			b.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx)) + "\n")
		}

		resultsView = strings.TrimRight(b.String(), "\n")
	}

	footer := HelpStyle.Render(FormatFooter("Enter", "Search", "Alt+J/K", "Navigate", "Alt+O", "Open Chat", "Esc", "Close"))

	content := strings.Join([]string{
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	}, "\n")

	modal := modalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

func (a AppView) handleMessageSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "alt+f":
		a.showMessageSearch = false
		a.messageSearchInput.Blur()
		return a, nil

	case "enter":
		query := strings.TrimSpace(a.messageSearchInput.Value())
		if query == "" {
			return a, nil
		}
		return a, a.dataModel.SearchMessages(query)

	case "alt+j", "alt+down":
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
		}
		return a, nil

	case "alt+k", "alt+up":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
		}
		return a, nil

	case "alt+o":
		if a.selectedSearchIdx < 0 || a.selectedSearchIdx >= len(a.messageSearchResults) {
			return a, nil
		}
		match := a.messageSearchResults[a.selectedSearchIdx]
		cmds := []tea.Cmd{a.dataModel.SwitchChat(match.ChatID)}
		a.closeAllModals()
		a.textarea.Reset()
		a.editingMessageID = ""

		for _, m := range a.dataModel.Active.Messages {
			if m.Role == appmodel.RoleAgent && !m.Pending() && !m.Failed() {
				if _, ok := a.rendered[m.ID]; !ok {
					cmds = append(cmds, a.renderMarkdownAsync(m.ID, m.Content))
				}
			}
		}

		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)
	return a, cmd
}
