package db

import (
	"database/sql"
	"fmt"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ClientDB handles client-side database operations.
type ClientDB struct {
	db *sql.DB
}

// NewClientDB opens or creates the client database.
func NewClientDB(path string) (*ClientDB, error) {
	db, err := sql.Open("sqlite3", path+"?_fk=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cdb := &ClientDB{db: db}
	if err := cdb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (c *ClientDB) Close() error {
	return c.db.Close()
}

func (c *ClientDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			other_user_id TEXT NOT NULL,
			other_user_name TEXT NOT NULL,
			other_user_avatar TEXT NOT NULL DEFAULT '',
			last_message_time TEXT NOT NULL DEFAULT '',
			unread_count INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS cached_messages (
			conversation_id TEXT NOT NULL,
			message_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (conversation_id, message_id)
		);

		CREATE INDEX IF NOT EXISTS idx_cached_messages_conversation
			ON cached_messages(conversation_id, created_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

// GetPreference retrieves a preference value. A missing key yields "".
func (c *ClientDB) GetPreference(key string) (string, error) {
	var value string
	err := c.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetPreference sets a preference value.
func (c *ClientDB) SetPreference(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeletePreference removes a preference. Missing keys are not an error.
func (c *ClientDB) DeletePreference(key string) error {
	_, err := c.db.Exec(`DELETE FROM preferences WHERE key = ?`, key)
	return err
}

// UpsertConversation adds or updates a cached conversation directory entry.
func (c *ClientDB) UpsertConversation(conv *models.Conversation) error {
	_, err := c.db.Exec(`
		INSERT INTO conversations (id, other_user_id, other_user_name, other_user_avatar, last_message_time, unread_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			other_user_name = excluded.other_user_name,
			other_user_avatar = excluded.other_user_avatar,
			last_message_time = excluded.last_message_time,
			unread_count = excluded.unread_count
	`, conv.ID, conv.OtherUserID, conv.OtherUserName, conv.OtherUserAvatar, conv.LastMessageTime, conv.UnreadCount)
	return err
}

// GetConversations returns the cached conversation directory, most recent
// activity first.
func (c *ClientDB) GetConversations() ([]models.Conversation, error) {
	rows, err := c.db.Query(`
		SELECT id, other_user_id, other_user_name, other_user_avatar, last_message_time, unread_count
		FROM conversations ORDER BY last_message_time DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []models.Conversation
	for rows.Next() {
		var cv models.Conversation
		if err := rows.Scan(&cv.ID, &cv.OtherUserID, &cv.OtherUserName, &cv.OtherUserAvatar, &cv.LastMessageTime, &cv.UnreadCount); err != nil {
			return nil, err
		}
		convs = append(convs, cv)
	}
	return convs, rows.Err()
}

// CacheMessage caches a message locally.
func (c *ClientDB) CacheMessage(msg *models.CachedMessage) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO cached_messages
			(conversation_id, message_id, sender_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ConversationID, msg.MessageID, msg.SenderID, msg.Text, msg.CreatedAt)
	return err
}

// GetCachedMessages retrieves the most recent cached messages for a
// conversation in chronological order.
func (c *ClientDB) GetCachedMessages(conversationID string, limit int) ([]models.CachedMessage, error) {
	rows, err := c.db.Query(`
		SELECT conversation_id, message_id, sender_id, text, created_at
		FROM cached_messages
		WHERE conversation_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.CachedMessage
	for rows.Next() {
		var m models.CachedMessage
		if err := rows.Scan(&m.ConversationID, &m.MessageID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, rows.Err()
}

// ClearCachedMessages clears cached messages for a conversation.
func (c *ClientDB) ClearCachedMessages(conversationID string) error {
	_, err := c.db.Exec(`DELETE FROM cached_messages WHERE conversation_id = ?`, conversationID)
	return err
}
