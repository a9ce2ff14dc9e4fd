package ui

import (
	appmodel "patui/model"
)

// Aliases for the core model's message types so handlers in this package
// stay terse.
type agentResponseMsg = appmodel.AgentResponseMsg
type titleMsg = appmodel.TitleMsg
type devicesListMsg = appmodel.DevicesListMsg
type chatSavedMsg = appmodel.ChatSavedMsg
type chatDeletedMsg = appmodel.ChatDeletedMsg
type searchResultsMsg = appmodel.SearchResultsMsg

// markdownRenderedMsg delivers an async markdown render for one report.
type markdownRenderedMsg struct {
	MessageID string
	Rendered  string
}

// flashTickMsg clears the status flash line.
type flashTickMsg struct{}

// settingsSavedMsg reports the outcome of a settings save.
type settingsSavedMsg struct {
	err error
}
