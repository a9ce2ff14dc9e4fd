package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"patui/config"
	appmodel "patui/model"
)

const flashDuration = 3 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST to handle TickMsg before anything else
	if a.dataModel.Awaiting || a.devicesLoading {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		if a.dataModel.Awaiting {
			// Animate the pending placeholder
			a.updateViewportContent(true)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), textarea
		// (3 lines) and status bar (1 line)
		viewportHeight := a.height - 6
		a.viewport.Width = a.width
		a.viewport.Height = viewportHeight
		a.textarea.SetWidth(a.width)

		firstSize := !a.ready
		a.ready = true
		a.updateViewportContent(true)

		// Render the restored chat's reports once we know the width
		if firstSize {
			var renderCmds []tea.Cmd
			for _, m := range a.dataModel.Active.Messages {
				if m.Role == appmodel.RoleAgent && !m.Pending() && !m.Failed() {
					renderCmds = append(renderCmds, a.renderMarkdownAsync(m.ID, m.Content))
				}
			}
			if len(renderCmds) > 0 {
				return a, tea.Batch(renderCmds...)
			}
		}
		return a, tea.Batch(cmds...)

	case markdownRenderedMsg:
		a.rendered[msg.MessageID] = msg.Rendered
		a.updateViewportContent(false)
		return a, tea.Batch(cmds...)

	case flashTickMsg:
		a.flashMessage = ""
		a.flashIsError = false
		return a, tea.Batch(cmds...)

	case agentResponseMsg:
		a.dataModel.ResolveAgentResponse(msg)
		if !msg.OK {
			cmds = append(cmds, a.setFlash("Failed to process command.", true))
		} else if a.dataModel.Active.MessageIndex(msg.MessageID) >= 0 {
			cmds = append(cmds, a.renderMarkdownAsync(msg.MessageID, msg.Content))
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case titleMsg:
		a.dataModel.ApplyTitle(msg)
		return a, tea.Batch(cmds...)

	case devicesListMsg:
		a.devicesLoading = false
		a.dataModel.Devices = msg.Devices
		if a.selectedDeviceIdx >= len(msg.Devices) {
			a.selectedDeviceIdx = 0
		}
		if a.showDeviceSelector && len(msg.Devices) == 0 {
			cmds = append(cmds, a.setFlash("No devices found. Is the control server reachable?", true))
		}
		return a, tea.Batch(cmds...)

	case chatSavedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] failed to save chat %s: %v", msg.ChatID, msg.Err)
			}
			cmds = append(cmds, a.setFlash("Failed to save chat.", true))
		}
		return a, tea.Batch(cmds...)

	case chatDeletedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] failed to delete chat %s: %v", msg.ChatID, msg.Err)
			}
			cmds = append(cmds, a.setFlash("Failed to delete chat.", true))
		}
		return a, tea.Batch(cmds...)

	case searchResultsMsg:
		a.messageSearchResults = msg.Matches
		a.selectedSearchIdx = 0
		if msg.Err != nil {
			cmds = append(cmds, a.setFlash("Search failed.", true))
		}
		return a, tea.Batch(cmds...)

	case settingsSavedMsg:
		if msg.err != nil {
			a.settingsSaveError = msg.err.Error()
		} else {
			a.settingsHasChanges = false
			a.settingsSaveError = ""
			cmds = append(cmds, a.setFlash("Settings saved.", false))
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKeyPress(msg, cmds)
	}

	// Blink and other component ticks
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a AppView) handleKeyPress(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	// PRIORITY 0: Always-global shortcuts
	if msg.String() == "alt+q" {
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if msg.String() == "alt+h" {
		a.showHelp = !a.showHelp
		return a, nil
	}

	if a.showHelp {
		// Any key closes help
		a.showHelp = false
		return a, nil
	}

	// PRIORITY 1: Active modal handlers
	if a.showSettings {
		return a.handleSettingsInput(msg)
	}
	if a.showDeviceSelector {
		return a.handleDeviceSelectorKeys(msg)
	}
	if a.showChatManager {
		return a.handleChatManagerKeys(msg)
	}
	if a.showMessageSearch {
		return a.handleMessageSearchKeys(msg)
	}
	if a.selectMode {
		return a.handleSelectModeKeys(msg)
	}

	// PRIORITY 2: Modal toggle shortcuts
	switch msg.String() {
	case "alt+s":
		a.closeAllModals()
		a.showChatManager = true
		a.selectedChatIdx = 0
		a.filteredChatList = nil
		return a, nil

	case "alt+d":
		a.closeAllModals()
		a.showDeviceSelector = true
		a.selectedDeviceIdx = 0
		a.devicesLoading = true
		return a, tea.Batch(a.dataModel.FetchDevices(), a.loadingSpinner.Tick)

	case "alt+o":
		a.closeAllModals()
		a.showSettings = true
		a.settingsFields = buildSettingsFields(a.dataModel.Config)
		a.selectedSettingIdx = 0
		a.settingsHasChanges = false
		a.settingsSaveError = ""
		return a, nil

	case "alt+f":
		a.closeAllModals()
		a.showMessageSearch = true
		a.messageSearchInput.SetValue("")
		a.messageSearchInput.Focus()
		a.messageSearchResults = nil
		a.selectedSearchIdx = 0
		return a, nil

	case "alt+k":
		if len(a.dataModel.Active.Messages) > 0 {
			a.selectMode = true
			a.selectedMessageIdx = len(a.dataModel.Active.Messages) - 1
			a.updateViewportContent(false)
		}
		return a, nil
	}

	return a.handleMainKeys(msg, cmds)
}

func (a *AppView) setFlash(message string, isError bool) tea.Cmd {
	a.flashMessage = message
	a.flashIsError = isError
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTickMsg{}
	})
}
