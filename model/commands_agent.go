package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"patui/agent"
	"patui/config"
)

// FallbackErrorMsg resolves a placeholder when the send/edit/retry
// orchestration itself blows up, as opposed to the gateway reporting a
// failure.
const FallbackErrorMsg = "Sorry, an unexpected error occurred. Please check the logs."

// appendPlaceholderAndRun appends a pending agent placeholder to the active
// chat, raises the in-flight guard and returns the command that runs the
// instruction. The guard stays up until the response message for this
// placeholder comes back, so at most one placeholder exists per chat.
func (m *Model) appendPlaceholderAndRun(instruction string) tea.Cmd {
	placeholder := Message{
		ID:        m.NewID(),
		Role:      RoleAgent,
		State:     StatePending,
		Timestamp: time.Now(),
	}
	m.Active.Messages = append(m.Active.Messages, placeholder)
	m.Awaiting = true
	m.pendingMessageID = placeholder.ID

	chatID := m.Active.ID
	messageID := placeholder.ID
	deviceID := m.Config.DeviceID
	gateway := m.Gateway

	return func() (msg tea.Msg) {
		// The gateway never errors by contract, but the placeholder must
		// resolve even if something underneath it panics.
		defer func() {
			if r := recover(); r != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Model] agent call panicked: %v", r)
				}
				msg = AgentResponseMsg{
					ChatID:    chatID,
					MessageID: messageID,
					Content:   FallbackErrorMsg,
					OK:        false,
				}
			}
		}()

		text, ok := gateway.Run(context.Background(), instruction, deviceID)
		return AgentResponseMsg{
			ChatID:    chatID,
			MessageID: messageID,
			Content:   text,
			OK:        ok,
		}
	}
}

// deriveTitle asks the summarizer for a chat title. Runs concurrently with
// the agent call and never blocks message flow.
func (m *Model) deriveTitle(instruction string) tea.Cmd {
	chat := m.Active
	summarizer := m.Summarizer

	return func() tea.Msg {
		title := ""
		if summarizer != nil {
			title = summarizer.Summarize(context.Background(), instruction)
		} else {
			title = agent.TruncateTitle(instruction)
		}
		return TitleMsg{Chat: chat, Title: title}
	}
}
