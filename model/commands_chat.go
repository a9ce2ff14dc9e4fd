package model

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"patui/agent"
	"patui/config"
)

// SendMessage appends a user message followed by a pending agent placeholder
// and dispatches the instruction to the gateway. The first user message of a
// chat also triggers title derivation, concurrently. Rejected while a call
// is already in flight.
func (m *Model) SendMessage(text, attachment string) tea.Cmd {
	if m.Awaiting {
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" && attachment == "" {
		return nil
	}

	content := text
	if attachment != "" {
		annotation := "[attachment: " + filepath.Base(attachment) + "]"
		if content == "" {
			content = annotation
		} else {
			content += " " + annotation
		}
	}

	_, hadUser := m.Active.FirstUserMessage()

	m.Active.Messages = append(m.Active.Messages, Message{
		ID:        m.NewID(),
		Role:      RoleUser,
		Content:   content,
		State:     StateResolved,
		Timestamp: time.Now(),
	})

	cmds := []tea.Cmd{m.appendPlaceholderAndRun(content)}
	if !hadUser {
		cmds = append(cmds, m.deriveTitle(content))
	}
	return tea.Batch(cmds...)
}

// EditMessage rewrites a message in place, discards everything after it
// (editing a turn invalidates the conversation branch that followed it) and
// resubmits the new content.
func (m *Model) EditMessage(messageID, newContent string) tea.Cmd {
	if m.Awaiting {
		return nil
	}

	idx := m.Active.MessageIndex(messageID)
	if idx < 0 {
		return nil
	}

	newContent = strings.TrimSpace(newContent)
	if newContent == "" || newContent == m.Active.Messages[idx].Content {
		return nil
	}

	m.Active.Messages[idx].Content = newContent
	m.Active.Messages[idx].State = StateResolved
	m.Active.Messages = m.Active.Messages[:idx+1]

	return m.appendPlaceholderAndRun(newContent)
}

// Retry resubmits a user message, discarding every message after it. On an
// agent message it regenerates: the nearest preceding user message is
// resubmitted and the retried report is dropped. A no-op when no user
// message precedes the target.
func (m *Model) Retry(messageID string) tea.Cmd {
	if m.Awaiting {
		return nil
	}

	idx := m.Active.MessageIndex(messageID)
	if idx < 0 {
		return nil
	}

	userIdx := idx
	if m.Active.Messages[idx].Role == RoleAgent {
		userIdx = -1
		for i := idx - 1; i >= 0; i-- {
			if m.Active.Messages[i].Role == RoleUser {
				userIdx = i
				break
			}
		}
		if userIdx < 0 {
			return nil
		}
	}

	instruction := m.Active.Messages[userIdx].Content
	m.Active.Messages = m.Active.Messages[:userIdx+1]

	return m.appendPlaceholderAndRun(instruction)
}

// NewChat archives the active chat (assigning it a real id if it is the
// draft, overwriting its history entry if it was loaded from history) and
// resets to an empty draft. With no messages it only resets.
func (m *Model) NewChat() tea.Cmd {
	var cmd tea.Cmd

	if len(m.Active.Messages) > 0 {
		archived := m.Active
		archived.dropPendingMessages()

		// Never archive with the placeholder title; the summarizer may
		// still be in flight
		if archived.Title == agent.PlaceholderTitle {
			if first, ok := archived.FirstUserMessage(); ok {
				archived.Title = agent.TruncateTitle(first.Content)
			}
		}
		archived.UpdatedAt = time.Now()

		if archived.IsDraft() {
			archived.ID = m.NewID()
			m.History = append([]*Chat{archived}, m.History...)
		} else {
			replaced := false
			for i, c := range m.History {
				if c.ID == archived.ID {
					m.History[i] = archived
					replaced = true
					break
				}
			}
			if !replaced {
				m.History = append([]*Chat{archived}, m.History...)
			}
		}

		cmd = m.archiveChat(archived)
	}

	m.Active = NewDraftChat()
	return cmd
}

// SwitchChat activates a copy of a history entry. The previous active chat
// is abandoned without archiving. Unknown ids are a no-op.
func (m *Model) SwitchChat(chatID string) tea.Cmd {
	for _, c := range m.History {
		if c.ID == chatID {
			m.Active = c.Clone()
			return m.saveCurrentChatID(chatID)
		}
	}
	return nil
}

// ResolveAgentResponse applies a gateway result to the placeholder that
// triggered it. The write is guarded: if the placeholder no longer exists
// (chat switched, tail truncated, draft abandoned) the response is dropped.
func (m *Model) ResolveAgentResponse(msg AgentResponseMsg) {
	if msg.MessageID == m.pendingMessageID {
		m.Awaiting = false
		m.pendingMessageID = ""
	}

	chat := m.chatByID(msg.ChatID)
	if chat == nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] dropping stale agent response for chat %s", msg.ChatID)
		}
		return
	}

	idx := chat.MessageIndex(msg.MessageID)
	if idx < 0 || !chat.Messages[idx].Pending() {
		return
	}

	chat.Messages[idx].Content = msg.Content
	if msg.OK {
		chat.Messages[idx].State = StateResolved
	} else {
		chat.Messages[idx].State = StateFailed
	}
	chat.UpdatedAt = time.Now()
}

// ApplyTitle sets the summarized title on the chat that requested it, which
// may have been archived meanwhile. Abandoned chats and chats that already
// carry a derived title are left alone.
func (m *Model) ApplyTitle(msg TitleMsg) {
	if msg.Chat == nil || msg.Title == "" {
		return
	}
	if msg.Chat != m.Active && !m.inHistory(msg.Chat) {
		return
	}
	if msg.Chat.Title != agent.PlaceholderTitle {
		return
	}
	msg.Chat.Title = msg.Title
}

func (m *Model) inHistory(chat *Chat) bool {
	for _, c := range m.History {
		if c == chat {
			return true
		}
	}
	return false
}

func (c *Chat) dropPendingMessages() {
	kept := c.Messages[:0]
	for _, msg := range c.Messages {
		if !msg.Pending() {
			kept = append(kept, msg)
		}
	}
	c.Messages = kept
}
