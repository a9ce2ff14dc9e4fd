package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MessageMatch is one search hit across archived chats.
type MessageMatch struct {
	ChatID       string
	ChatTitle    string
	MessageIndex int
	Role         string
	Content      string
	Preview      string
	Timestamp    time.Time
}

// ChatIndex is a sqlite index of archived chats and their messages. It backs
// the cross-chat message search; the JSON chat files remain the source of
// truth and the index is rebuilt from them whenever a chat is saved.
type ChatIndex struct {
	db *sql.DB
}

func NewChatIndex(dataDir string) (*ChatIndex, error) {
	dbPath := filepath.Join(dataDir, "chats.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	index := &ChatIndex{db: db}

	if err := index.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return index, nil
}

func (ci *ChatIndex) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		message_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		chat_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (chat_id, idx),
		FOREIGN KEY (chat_id) REFERENCES chats(id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id);
	`

	_, err := ci.db.Exec(schema)
	return err
}

func (ci *ChatIndex) Close() error {
	return ci.db.Close()
}

// IndexChat replaces the index rows for one chat.
func (ci *ChatIndex) IndexChat(chat *Chat) error {
	tx, err := ci.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, chat.ID); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO chats (id, title, created_at, updated_at, message_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at,
			message_count = excluded.message_count`,
		chat.ID, chat.Title, chat.CreatedAt, chat.UpdatedAt, len(chat.Messages))
	if err != nil {
		return err
	}

	for i, msg := range chat.Messages {
		_, err := tx.Exec(`
			INSERT INTO messages (chat_id, idx, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			chat.ID, i, msg.Role, msg.Content, msg.Timestamp)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveChat drops a chat and its messages from the index.
func (ci *ChatIndex) RemoveChat(chatID string) error {
	tx, err := ci.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, chatID); err != nil {
		return err
	}

	return tx.Commit()
}

// Search returns archived messages whose content contains the query,
// case-insensitively, newest chats first.
func (ci *ChatIndex) Search(query string) ([]MessageMatch, error) {
	if query == "" {
		return []MessageMatch{}, nil
	}

	rows, err := ci.db.Query(`
		SELECT m.chat_id, c.title, m.idx, m.role, m.content, m.created_at
		FROM messages m
		JOIN chats c ON c.id = m.chat_id
		WHERE m.content LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY c.updated_at DESC, m.idx ASC`,
		query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MessageMatch
	for rows.Next() {
		var m MessageMatch
		if err := rows.Scan(&m.ChatID, &m.ChatTitle, &m.MessageIndex, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Preview = m.Content
		if len(m.Preview) > 100 {
			m.Preview = m.Preview[:100] + "..."
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}
