package model

import (
	"time"

	"patui/agent"
	"patui/storage"
)

// DraftChatID is the sentinel identifier of the unsaved draft chat. A real
// id is assigned the moment the draft is archived.
const DraftChatID = "draft"

// Chat is one linear conversation: an ordered message list plus a display
// title. The draft chat carries DraftChatID until archived.
type Chat struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewDraftChat() *Chat {
	now := time.Now()
	return &Chat{
		ID:        DraftChatID,
		Title:     agent.PlaceholderTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Chat) IsDraft() bool {
	return c.ID == DraftChatID
}

// MessageIndex returns the position of the message with the given id, or -1.
func (c *Chat) MessageIndex(id string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// FirstUserMessage returns the first user-role message, if any.
func (c *Chat) FirstUserMessage() (Message, bool) {
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy. Switching chats activates a copy of the history
// entry so that abandoning the active chat never corrupts the archive.
func (c *Chat) Clone() *Chat {
	dup := *c
	dup.Messages = make([]Message, len(c.Messages))
	copy(dup.Messages, c.Messages)
	return &dup
}

// ToStorage converts a chat for persistence. Pending placeholders are
// runtime-only and are dropped.
func (c *Chat) ToStorage() *storage.Chat {
	sc := &storage.Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, m := range c.Messages {
		if m.Pending() {
			continue
		}
		sc.Messages = append(sc.Messages, storage.Message{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Failed:    m.Failed(),
			Timestamp: m.Timestamp,
		})
	}
	return sc
}

// ChatFromStorage restores a chat from its persisted form.
func ChatFromStorage(sc *storage.Chat) *Chat {
	c := &Chat{
		ID:        sc.ID,
		Title:     sc.Title,
		CreatedAt: sc.CreatedAt,
		UpdatedAt: sc.UpdatedAt,
	}
	for _, m := range sc.Messages {
		state := StateResolved
		if m.Failed {
			state = StateFailed
		}
		c.Messages = append(c.Messages, Message{
			ID:        m.ID,
			Role:      Role(m.Role),
			Content:   m.Content,
			State:     state,
			Timestamp: m.Timestamp,
		})
	}
	return c
}
