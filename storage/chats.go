package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one persisted chat message. Pending placeholders are runtime
// state and are never written to disk.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is one archived conversation.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ChatMetadata is a lightweight version of Chat for listing.
type ChatMetadata struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ChatStorage handles chat persistence
type ChatStorage struct {
	chatsDir string
	index    *ChatIndex
}

// NewChatStorage creates a new chat storage rooted at dataDir.
func NewChatStorage(dataDir string) (*ChatStorage, error) {
	chatsDir := filepath.Join(dataDir, "chats")

	// 0700 - user-only access
	if err := os.MkdirAll(chatsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create chats directory: %w", err)
	}

	index, err := NewChatIndex(dataDir)
	if err != nil {
		return nil, err
	}

	return &ChatStorage{
		chatsDir: chatsDir,
		index:    index,
	}, nil
}

func (s *ChatStorage) Close() error {
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

// Save writes a chat to disk and updates the search index.
func (s *ChatStorage) Save(chat *Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}

	chat.UpdatedAt = time.Now()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = chat.UpdatedAt
	}

	filename := fmt.Sprintf("%s.json", chat.ID)
	path := filepath.Join(s.chatsDir, filename)

	data, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chat: %w", err)
	}

	// 0600 - chat files contain conversation history
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write chat file: %w", err)
	}

	if err := s.index.IndexChat(chat); err != nil {
		return fmt.Errorf("failed to index chat: %w", err)
	}

	return nil
}

// Load reads a chat from disk.
func (s *ChatStorage) Load(id string) (*Chat, error) {
	filename := fmt.Sprintf("%s.json", id)
	path := filepath.Join(s.chatsDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat file: %w", err)
	}

	var chat Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat: %w", err)
	}

	return &chat, nil
}

// LoadAll returns every stored chat, newest first.
func (s *ChatStorage) LoadAll() ([]*Chat, error) {
	entries, err := os.ReadDir(s.chatsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chats directory: %w", err)
	}

	var chats []*Chat
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.chatsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // Skip corrupted files
		}

		var chat Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			continue // Skip corrupted files
		}

		chats = append(chats, &chat)
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	return chats, nil
}

// List returns metadata for all chats, sorted by update time (newest first).
func (s *ChatStorage) List() ([]ChatMetadata, error) {
	chats, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	metas := make([]ChatMetadata, 0, len(chats))
	for _, chat := range chats {
		metas = append(metas, ChatMetadata{
			ID:           chat.ID,
			Title:        chat.Title,
			CreatedAt:    chat.CreatedAt,
			UpdatedAt:    chat.UpdatedAt,
			MessageCount: len(chat.Messages),
		})
	}

	return metas, nil
}

// Delete removes a chat from disk and from the index.
func (s *ChatStorage) Delete(id string) error {
	filename := fmt.Sprintf("%s.json", id)
	path := filepath.Join(s.chatsDir, filename)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete chat file: %w", err)
	}

	return s.index.RemoveChat(id)
}

// SearchMessages finds archived messages containing the query text.
func (s *ChatStorage) SearchMessages(query string) ([]MessageMatch, error) {
	return s.index.Search(query)
}

// SaveCurrentChatID records the id of the last active archived chat.
func (s *ChatStorage) SaveCurrentChatID(id string) error {
	path := filepath.Join(filepath.Dir(s.chatsDir), "current_chat.id")
	return os.WriteFile(path, []byte(id), 0600)
}

// LoadCurrentChatID returns the id of the last active archived chat.
func (s *ChatStorage) LoadCurrentChatID() (string, error) {
	path := filepath.Join(filepath.Dir(s.chatsDir), "current_chat.id")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
