package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "patui/model"
)

func (a AppView) handleMainKeys(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "alt+n":
		cmd = a.dataModel.NewChat()
		a.textarea.Reset()
		a.editingMessageID = ""
		a.updateViewportContent(true)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case "alt+r":
		if len(a.dataModel.Active.Messages) == 0 {
			return a, tea.Batch(cmds...)
		}
		last := a.dataModel.Active.Messages[len(a.dataModel.Active.Messages)-1]
		cmd = a.dataModel.Retry(last.ID)
		if cmd == nil {
			cmds = append(cmds, a.setFlash("Nothing to retry.", false))
			return a, tea.Batch(cmds...)
		}
		a.updateViewportContent(true)
		cmds = append(cmds, cmd, a.loadingSpinner.Tick)
		return a, tea.Batch(cmds...)

	case "alt+e":
		for i := len(a.dataModel.Active.Messages) - 1; i >= 0; i-- {
			m := a.dataModel.Active.Messages[i]
			if m.Role == appmodel.RoleUser {
				a.startEditing(m)
				break
			}
		}
		return a, tea.Batch(cmds...)

	case "alt+y":
		return a.copyLastReport(cmds)

	case "alt+t":
		return a.copyTranscript(cmds)

	case "alt+u":
		a.textarea.Reset()
		return a, tea.Batch(cmds...)

	case "esc":
		if a.editingMessageID != "" {
			a.editingMessageID = ""
			a.textarea.Reset()
		}
		return a, tea.Batch(cmds...)

	case "enter":
		return a.submitInput(cmds)

	case "pgup", "pgdown", "home", "end":
		a.viewport, cmd = a.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// submitInput sends the textarea content, either as a fresh instruction or as
// the rewrite of the message being edited.
func (a AppView) submitInput(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if a.dataModel.Awaiting {
		cmds = append(cmds, a.setFlash("Waiting for the phone agent to finish...", false))
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	if a.editingMessageID != "" {
		cmd = a.dataModel.EditMessage(a.editingMessageID, a.textarea.Value())
		if cmd == nil {
			cmds = append(cmds, a.setFlash("Nothing changed.", false))
			return a, tea.Batch(cmds...)
		}
		a.editingMessageID = ""
	} else {
		cmd = a.dataModel.SendMessage(a.textarea.Value(), "")
		if cmd == nil {
			return a, tea.Batch(cmds...)
		}
	}

	a.textarea.Reset()
	a.updateViewportContent(true)
	cmds = append(cmds, cmd, a.loadingSpinner.Tick)
	return a, tea.Batch(cmds...)
}

func (a *AppView) startEditing(m appmodel.Message) {
	a.editingMessageID = m.ID
	a.textarea.SetValue(m.Content)
	a.textarea.CursorEnd()
}

func (a AppView) copyLastReport(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	for i := len(a.dataModel.Active.Messages) - 1; i >= 0; i-- {
		m := a.dataModel.Active.Messages[i]
		if m.Role == appmodel.RoleAgent && !m.Pending() {
			if err := clipboard.WriteAll(m.Content); err != nil {
				cmds = append(cmds, a.setFlash("Clipboard unavailable.", true))
			} else {
				cmds = append(cmds, a.setFlash("Report copied to clipboard.", false))
			}
			return a, tea.Batch(cmds...)
		}
	}
	cmds = append(cmds, a.setFlash("No report to copy yet.", false))
	return a, tea.Batch(cmds...)
}

func (a AppView) copyTranscript(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if len(a.dataModel.Active.Messages) == 0 {
		cmds = append(cmds, a.setFlash("Nothing to copy yet.", false))
		return a, tea.Batch(cmds...)
	}

	var b strings.Builder
	for _, m := range a.dataModel.Active.Messages {
		if m.Pending() {
			continue
		}
		speaker := "Agent"
		if m.Role == appmodel.RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", speaker, m.Content)
	}

	if err := clipboard.WriteAll(strings.TrimRight(b.String(), "\n") + "\n"); err != nil {
		cmds = append(cmds, a.setFlash("Clipboard unavailable.", true))
	} else {
		cmds = append(cmds, a.setFlash("Transcript copied to clipboard.", false))
	}
	return a, tea.Batch(cmds...)
}

// handleSelectModeKeys picks an edit or retry target among the active chat's
// messages.
func (a AppView) handleSelectModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	messages := a.dataModel.Active.Messages

	switch msg.String() {
	case "esc", "alt+k":
		a.selectMode = false
		a.selectedMessageIdx = -1
		a.updateViewportContent(false)
		return a, nil

	case "k", "up":
		if a.selectedMessageIdx > 0 {
			a.selectedMessageIdx--
			a.updateViewportContent(false)
		}
		return a, nil

	case "j", "down":
		if a.selectedMessageIdx < len(messages)-1 {
			a.selectedMessageIdx++
			a.updateViewportContent(false)
		}
		return a, nil

	case "e":
		if a.selectedMessageIdx < 0 || a.selectedMessageIdx >= len(messages) {
			return a, nil
		}
		target := messages[a.selectedMessageIdx]
		if target.Role != appmodel.RoleUser {
			return a, a.setFlash("Select one of your own messages to edit.", false)
		}
		a.selectMode = false
		a.selectedMessageIdx = -1
		a.startEditing(target)
		a.updateViewportContent(false)
		return a, nil

	case "r", "enter":
		if a.selectedMessageIdx < 0 || a.selectedMessageIdx >= len(messages) {
			return a, nil
		}
		target := messages[a.selectedMessageIdx]
		a.selectMode = false
		a.selectedMessageIdx = -1
		cmd := a.dataModel.Retry(target.ID)
		if cmd == nil {
			return a, a.setFlash("Nothing to retry.", false)
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmd, a.loadingSpinner.Tick)
	}

	return a, nil
}
