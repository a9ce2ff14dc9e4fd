package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patui/agent"
	"patui/config"
	appmodel "patui/model"
	"patui/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Rendered markdown cache, keyed by message id. Reports are rendered
	// asynchronously; until the render lands the raw content is shown.
	rendered map[string]string

	// Status flash line
	flashMessage string
	flashIsError bool

	showHelp bool

	// Edit mode: the user message being rewritten, loaded into the textarea
	editingMessageID string

	// Message select mode (pick an edit/retry target)
	selectMode         bool
	selectedMessageIdx int

	// Chat manager
	showChatManager   bool
	selectedChatIdx   int
	chatFilterMode    bool
	chatFilterInput   textinput.Model
	filteredChatList  []*appmodel.Chat
	confirmDeleteChat *appmodel.Chat

	// Device selector
	showDeviceSelector bool
	selectedDeviceIdx  int
	devicesLoading     bool
	deviceManualMode   bool
	deviceManualInput  textinput.Model

	// Settings modal
	showSettings       bool
	settingsFields     []SettingField
	selectedSettingIdx int
	settingsEditMode   bool
	settingsEditInput  textinput.Model
	settingsHasChanges bool
	settingsSaveError  string

	// Message search
	showMessageSearch    bool
	messageSearchInput   textinput.Model
	messageSearchResults []storage.MessageMatch
	selectedSearchIdx    int
}

func NewAppView(cfg *config.Config, gateway appmodel.Gateway, summarizer appmodel.Summarizer, chatStorage *storage.ChatStorage, history []*appmodel.Chat, version string) AppView {
	ta := textarea.New()
	ta.Placeholder = "Tell the phone agent what to do..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; Enter alone sends (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	chatFilterInput := textinput.New()
	chatFilterInput.Prompt = "Filter: "
	chatFilterInput.CharLimit = 64

	deviceManualInput := textinput.New()
	deviceManualInput.Prompt = "Device ID: "
	deviceManualInput.CharLimit = 128

	messageSearchInput := textinput.New()
	messageSearchInput.Prompt = "Search: "
	messageSearchInput.CharLimit = 100

	dataModel := appmodel.NewModel(cfg, gateway, summarizer, chatStorage, history, version)

	// Restore the chat that was open when the app last quit
	if chatStorage != nil {
		if lastChatID, err := chatStorage.LoadCurrentChatID(); err == nil {
			dataModel.SwitchChat(lastChatID)
		}
	}

	return AppView{
		dataModel:          dataModel,
		textarea:           ta,
		viewport:           vp,
		loadingSpinner:     sp,
		rendered:           make(map[string]string),
		chatFilterInput:    chatFilterInput,
		deviceManualInput:  deviceManualInput,
		messageSearchInput: messageSearchInput,
		selectedMessageIdx: -1,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.FetchDevices(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading patui..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (always on top)
	// 2. Settings
	// 3. Device selector
	// 4. Chat manager
	// 5. Message search

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.showSettings {
		return renderSettings(a.settingsFields, a.selectedSettingIdx, a.settingsEditMode, a.settingsEditInput, a.settingsHasChanges, a.settingsSaveError, a.width, a.height)
	}

	if a.showDeviceSelector {
		return renderDeviceSelector(a.dataModel.Devices, a.selectedDeviceIdx, a.dataModel.Config.DeviceID, a.devicesLoading, a.loadingSpinner, a.deviceManualMode, a.deviceManualInput, a.width, a.height)
	}

	if a.showChatManager {
		return renderChatManager(a.dataModel.History, a.selectedChatIdx, a.confirmDeleteChat, a.chatFilterMode, a.chatFilterInput, a.filteredChatList, a.width, a.height)
	}

	if a.showMessageSearch {
		return renderMessageSearch(a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.width, a.height)
	}

	// Title bar - "patui - device | chat title"
	patuiText := AgentStyle.Render("patui")
	deviceText := TitleStyle.Render(fmt.Sprintf(" - %s", a.deviceLabel()))
	chatTitle := a.dataModel.Active.Title
	if chatTitle == "" {
		chatTitle = agent.PlaceholderTitle
	}
	chatText := UserStyle.Render(fmt.Sprintf(" - %s", chatTitle))
	title := patuiText + deviceText + chatText

	if a.dataModel.Awaiting {
		title += TitleStyle.Render(fmt.Sprintf(" | %s working...", a.loadingSpinner.View()))
	}

	// Separator with bottom margin for header (empty line forces spacing)
	separator := ""

	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	statusBar := a.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) renderStatusBar() string {
	if a.flashMessage != "" {
		style := DimStyle
		if a.flashIsError {
			style = FailedStyle
		}
		return style.Render(a.flashMessage)
	}

	if a.selectMode {
		return StatusStyle.Render(FormatFooter("j/k", "Navigate", "e", "Edit", "r", "Retry", "Esc", "Exit"))
	}

	if a.editingMessageID != "" {
		return StatusStyle.Render(FormatFooter("Enter", "Resubmit", "Esc", "Cancel"))
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+N %s  Alt+S %s  Alt+D %s  Alt+F %s  Alt+K %s  Enter %s  Alt+Y %s  Alt+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("New"),
		descStyle.Render("Chats"),
		descStyle.Render("Devices"),
		descStyle.Render("Search"),
		descStyle.Render("Select"),
		descStyle.Render("Send"),
		descStyle.Render("Copy"),
		descStyle.Render("Help"),
	)
	return StatusStyle.Render(statusBar)
}

// deviceLabel shows the configured device, annotated with its directory
// status when the directory has been fetched.
func (a AppView) deviceLabel() string {
	deviceID := a.dataModel.Config.DeviceID
	if deviceID == "" {
		return "no device"
	}
	for _, d := range a.dataModel.Devices {
		if d.DeviceID == deviceID {
			if d.Status == "online" {
				return deviceID + " ●"
			}
			return deviceID + " ○"
		}
	}
	return deviceID
}

func (a AppView) getChatList() []*appmodel.Chat {
	if a.chatFilterMode && len(a.filteredChatList) > 0 {
		return a.filteredChatList
	}
	return a.dataModel.History
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showChatManager = false
	a.showDeviceSelector = false
	a.showSettings = false
	a.showMessageSearch = false

	a.chatFilterMode = false
	a.confirmDeleteChat = nil
	a.deviceManualMode = false
	a.settingsEditMode = false
	a.selectMode = false
	a.selectedMessageIdx = -1

	if a.chatFilterInput.Focused() {
		a.chatFilterInput.Blur()
	}
	if a.deviceManualInput.Focused() {
		a.deviceManualInput.Blur()
	}
	if a.settingsEditInput.Focused() {
		a.settingsEditInput.Blur()
	}
	if a.messageSearchInput.Focused() {
		a.messageSearchInput.Blur()
	}
}
