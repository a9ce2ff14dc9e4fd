package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	appmodel "patui/model"
)

func renderChatManager(chats []*appmodel.Chat, selectedIdx int, confirmDelete *appmodel.Chat, filterMode bool, filterInput textinput.Model, filteredChats []*appmodel.Chat, width, height int) string {
	// Modal dimensions
	modalWidth := width - 10
	if modalWidth > 110 {
		modalWidth = 110
	}
	modalHeight := height - 6

	// Show delete confirmation if set
	if confirmDelete != nil {
		warningText := lipgloss.NewStyle().Foreground(dangerColor).Render("This action cannot be undone.")
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "⚠ Delete Chat",
			Message: fmt.Sprintf("Are you sure you want to delete:\n\n\"%s\"\n\n%s", confirmDelete.Title, warningText),
		}, width, height)
	}

	// Title section (no borders)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Chat History")

	// Header: show filter input or count
	var header string
	if filterMode {
		header = filterInput.View()
	} else {
		header = fmt.Sprintf("%d chats", len(chats))
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	displayList := chats
	if filterMode && len(filteredChats) > 0 {
		displayList = filteredChats
	}

	var chatLines []string
	maxLines := modalHeight - 8 // Reserve space for title, borders, header, footer

	if len(displayList) == 0 {
		emptyMsg := "No chats yet. Send an instruction to start one!"
		if filterMode {
			emptyMsg = "No matches found"
		}
		emptyMsgStyled := lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg)
		chatLines = append(chatLines, emptyMsgStyled)
	} else {
		startIdx := 0
		endIdx := len(displayList)

		// Scroll if needed
		if len(displayList) > maxLines {
			if selectedIdx < maxLines/2 {
				endIdx = maxLines
			} else if selectedIdx >= len(displayList)-maxLines/2 {
				startIdx = len(displayList) - maxLines
			} else {
				startIdx = selectedIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(displayList); i++ {
			chat := displayList[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			// Chat title (truncate if needed)
			title := chat.Title
			maxTitleWidth := modalWidth - 30 // Reserve space for metadata + padding
			if len(title) > maxTitleWidth {
				title = title[:maxTitleWidth-3] + "..."
			}

			titleStyled := title
			if i == selectedIdx {
				titleStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(title)
			}

			msgCount := fmt.Sprintf("%d msgs", len(chat.Messages))
			if len(chat.Messages) == 1 {
				msgCount = "1 msg"
			}

			timeAgo := formatTimeAgo(chat.UpdatedAt)

			leftSide := indicator + titleStyled
			rightSide := fmt.Sprintf("%s  %8s", msgCount, timeAgo)

			// Calculate spacing using VISUAL width (not including ANSI codes)
			leftVisualWidth := len(indicator) + len(title)
			spacing := modalWidth - 4 - leftVisualWidth - len(rightSide)
			if spacing < 2 {
				spacing = 2
			}

			rightSideStyled := rightSide
			if i == selectedIdx {
				rightSideStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(rightSide)
			}

			styledLine := fmt.Sprintf("  %s%s%s  ", leftSide, strings.Repeat(" ", spacing), rightSideStyled)

			paddedLine := lipgloss.NewStyle().
				Width(modalWidth).
				Render(styledLine)

			chatLines = append(chatLines, paddedLine)
		}
	}

	// Add empty line before and after list
	emptyLine := strings.Repeat(" ", modalWidth)
	chatLines = append([]string{emptyLine}, chatLines...)
	chatLines = append(chatLines, emptyLine)

	var footerText string
	if filterMode {
		footerText = FormatFooter("Type", "to filter", "Alt+J/K", "Navigate", "Enter", "Load", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "Enter", "Load", "d", "Delete", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	var sections []string
	sections = append(sections, titleSection)
	sections = append(sections, headerSection)
	sections = append(sections, chatLines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	modalStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return modalStyle.Render(content)
}

func (a AppView) handleChatManagerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation takes over all input
	if a.confirmDeleteChat != nil {
		switch msg.String() {
		case "y", "Y":
			chatID := a.confirmDeleteChat.ID
			a.confirmDeleteChat = nil
			cmd := a.dataModel.DeleteChat(chatID)
			a.filteredChatList = nil
			a.chatFilterMode = false
			if a.selectedChatIdx >= len(a.dataModel.History) && a.selectedChatIdx > 0 {
				a.selectedChatIdx--
			}
			return a, cmd
		case "n", "N", "esc":
			a.confirmDeleteChat = nil
			return a, nil
		}
		return a, nil
	}

	if a.chatFilterMode {
		switch msg.String() {
		case "esc":
			a.chatFilterMode = false
			a.chatFilterInput.Blur()
			a.filteredChatList = nil
			a.selectedChatIdx = 0
			return a, nil

		case "enter":
			return a.loadSelectedChat()

		case "alt+j", "alt+down", "down":
			list := a.getChatList()
			if a.selectedChatIdx < len(list)-1 {
				a.selectedChatIdx++
			}
			return a, nil

		case "alt+k", "alt+up", "up":
			if a.selectedChatIdx > 0 {
				a.selectedChatIdx--
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.chatFilterInput, cmd = a.chatFilterInput.Update(msg)

		filterValue := a.chatFilterInput.Value()
		if filterValue == "" {
			a.filteredChatList = a.dataModel.History
		} else {
			targets := make([]string, len(a.dataModel.History))
			for i, c := range a.dataModel.History {
				targets[i] = c.Title
			}

			matches := fuzzy.Find(filterValue, targets)
			a.filteredChatList = make([]*appmodel.Chat, len(matches))
			for i, match := range matches {
				a.filteredChatList[i] = a.dataModel.History[match.Index]
			}
		}

		list := a.getChatList()
		if a.selectedChatIdx >= len(list) && len(list) > 0 {
			a.selectedChatIdx = len(list) - 1
		}

		return a, cmd
	}

	switch msg.String() {
	case "/":
		a.chatFilterMode = true
		a.chatFilterInput.Focus()
		a.chatFilterInput.SetValue("")
		a.filteredChatList = a.dataModel.History
		return a, textinput.Blink

	case "esc", "alt+s":
		a.showChatManager = false
		return a, nil

	case "j", "down":
		list := a.getChatList()
		if a.selectedChatIdx < len(list)-1 {
			a.selectedChatIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedChatIdx > 0 {
			a.selectedChatIdx--
		}
		return a, nil

	case "d":
		list := a.getChatList()
		if a.selectedChatIdx >= 0 && a.selectedChatIdx < len(list) {
			a.confirmDeleteChat = list[a.selectedChatIdx]
		}
		return a, nil

	case "enter":
		return a.loadSelectedChat()
	}

	return a, nil
}

// loadSelectedChat activates the highlighted history entry and returns to the
// main view with its reports queued for rendering.
func (a AppView) loadSelectedChat() (tea.Model, tea.Cmd) {
	list := a.getChatList()
	if a.selectedChatIdx < 0 || a.selectedChatIdx >= len(list) {
		return a, nil
	}

	cmds := []tea.Cmd{a.dataModel.SwitchChat(list[a.selectedChatIdx].ID)}
	a.closeAllModals()
	a.editingMessageID = ""
	a.textarea.Reset()

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

// formatTimeAgo formats a time as a relative string (e.g., "2h ago", "3d ago")
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if duration < 7*24*time.Hour {
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	} else if duration < 30*24*time.Hour {
		weeks := int(duration.Hours() / 24 / 7)
		return fmt.Sprintf("%dw ago", weeks)
	} else {
		months := int(duration.Hours() / 24 / 30)
		return fmt.Sprintf("%dmo ago", months)
	}
}
