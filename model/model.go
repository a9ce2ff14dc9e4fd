package model

import (
	"github.com/google/uuid"

	"patui/agent"
	"patui/config"
	"patui/storage"
)

// Model owns the active chat and the chat history for the lifetime of the
// process. All mutation happens on the bubbletea update loop, so no locking
// is needed; the Awaiting guard serializes agent calls per chat.
type Model struct {
	// Core dependencies
	Config      *config.Config
	Gateway     Gateway
	Summarizer  Summarizer
	ChatStorage *storage.ChatStorage

	// NewID generates message and chat identifiers. Injected so tests can
	// be deterministic; defaults to uuid.
	NewID func() string

	// Application data
	Active  *Chat
	History []*Chat // archived chats, most-recent-first
	Devices []agent.DeviceInfo

	// Runtime state (not UI)
	Awaiting         bool
	pendingMessageID string
	Quitting         bool

	// Application metadata
	Version string
}

// NewModel creates a Model with an empty draft chat and the given archived
// history (newest first). chatStorage may be nil for an in-memory session.
func NewModel(cfg *config.Config, gateway Gateway, summarizer Summarizer, chatStorage *storage.ChatStorage, history []*Chat, version string) *Model {
	return &Model{
		Config:      cfg,
		Gateway:     gateway,
		Summarizer:  summarizer,
		ChatStorage: chatStorage,
		NewID:       uuid.NewString,
		Active:      NewDraftChat(),
		History:     history,
		Version:     version,
	}
}

// chatByID returns the active chat or a history entry with the given id.
func (m *Model) chatByID(id string) *Chat {
	if m.Active != nil && m.Active.ID == id {
		return m.Active
	}
	for _, c := range m.History {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// PendingCount reports how many placeholders the active chat holds. The
// Awaiting guard keeps this at most one.
func (m *Model) PendingCount() int {
	n := 0
	for _, msg := range m.Active.Messages {
		if msg.Pending() {
			n++
		}
	}
	return n
}
