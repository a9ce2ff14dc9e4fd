package model

import (
	"patui/agent"
	"patui/storage"
)

// AgentResponseMsg resolves a pending placeholder. ChatID and MessageID pin
// the resolution to the placeholder that triggered the call so a response
// arriving after the chat was switched or truncated is ignored.
type AgentResponseMsg struct {
	ChatID    string
	MessageID string
	Content   string
	OK        bool
}

// TitleMsg carries the summarizer's output for a chat's first instruction.
// It holds the chat itself rather than an id: the draft keeps its sentinel
// id until archived, so an id could not distinguish the chat that asked for
// the title from a fresh draft. The pointer is only dereferenced on the
// update loop.
type TitleMsg struct {
	Chat  *Chat
	Title string
}

type DevicesListMsg struct {
	Devices []agent.DeviceInfo
}

type ChatSavedMsg struct {
	ChatID string
	Err    error
}

type ChatDeletedMsg struct {
	ChatID string
	Err    error
}

type SearchResultsMsg struct {
	Query   string
	Matches []storage.MessageMatch
	Err     error
}
