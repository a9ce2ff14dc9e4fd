package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"patui/storage"
)

// archiveChat persists an archived chat. Storage is optional; without it the
// history lives only for the process lifetime.
func (m *Model) archiveChat(chat *Chat) tea.Cmd {
	if m.ChatStorage == nil {
		return nil
	}

	record := chat.ToStorage()
	store := m.ChatStorage

	return func() tea.Msg {
		err := store.Save(record)
		if err == nil {
			store.SaveCurrentChatID(record.ID)
		}
		return ChatSavedMsg{ChatID: record.ID, Err: err}
	}
}

func (m *Model) saveCurrentChatID(chatID string) tea.Cmd {
	if m.ChatStorage == nil {
		return nil
	}
	store := m.ChatStorage
	return func() tea.Msg {
		store.SaveCurrentChatID(chatID)
		return nil
	}
}

// DeleteChat removes a chat from the in-memory history and from disk.
func (m *Model) DeleteChat(chatID string) tea.Cmd {
	for i, c := range m.History {
		if c.ID == chatID {
			m.History = append(m.History[:i], m.History[i+1:]...)
			break
		}
	}

	if m.ChatStorage == nil {
		return nil
	}
	store := m.ChatStorage
	return func() tea.Msg {
		return ChatDeletedMsg{ChatID: chatID, Err: store.Delete(chatID)}
	}
}

// SearchMessages searches archived chats for the query text.
func (m *Model) SearchMessages(query string) tea.Cmd {
	if m.ChatStorage == nil {
		return nil
	}
	store := m.ChatStorage
	return func() tea.Msg {
		matches, err := store.SearchMessages(query)
		return SearchResultsMsg{Query: query, Matches: matches, Err: err}
	}
}

// LoadHistory restores the archived chats from disk, newest first.
func LoadHistory(store *storage.ChatStorage) ([]*Chat, error) {
	records, err := store.LoadAll()
	if err != nil {
		return nil, err
	}
	chats := make([]*Chat, 0, len(records))
	for _, record := range records {
		chats = append(chats, ChatFromStorage(record))
	}
	return chats, nil
}
