package protocol

import (
	"encoding/json"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// MessageType identifies the type of a local UI WebSocket message.
type MessageType string

const (
	// UI -> daemon
	TypeOpenConversation MessageType = "open_conversation"
	TypeLoadOlder        MessageType = "load_older"
	TypeSendMessage      MessageType = "send_message"
	TypeWatchGroup       MessageType = "watch_group"
	TypeUnwatchGroup     MessageType = "unwatch_group"
	TypeSendGroupMessage MessageType = "send_group_message"
	TypeTyping           MessageType = "typing"

	// daemon -> UI
	TypeConversations MessageType = "conversations"
	TypeMessages      MessageType = "messages"
	TypeMessage       MessageType = "message"
	TypeGroupMessages MessageType = "group_messages"
	TypeGroupTyping   MessageType = "group_typing"
	TypeNotification  MessageType = "notification"
	TypeError         MessageType = "error"
)

// Envelope wraps all local UI WebSocket messages with a type field.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// OpenConversationMessage selects the active conversation.
type OpenConversationMessage struct {
	ConversationID string `json:"conversation_id"`
}

// SendMessageMessage sends a message on a conversation.
type SendMessageMessage struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// WatchGroupMessage starts a live watch on a group room.
type WatchGroupMessage struct {
	GroupID string `json:"group_id"`
}

// SendGroupMessageMessage sends a message to the watched group.
type SendGroupMessageMessage struct {
	GroupID string `json:"group_id"`
	Text    string `json:"text"`
}

// TypingMessage publishes a typing indicator to the watched group.
type TypingMessage struct {
	GroupID string `json:"group_id"`
}

// ConversationsMessage carries the conversation directory.
type ConversationsMessage struct {
	Conversations []models.Conversation `json:"conversations"`
}

// MessagesMessage carries the active conversation's current message list.
type MessagesMessage struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []models.Message `json:"messages"`
	HasMore        bool             `json:"has_more"`
}

// GroupMessagesMessage carries a watched group's message list.
type GroupMessagesMessage struct {
	GroupID  string                `json:"group_id"`
	Messages []models.GroupMessage `json:"messages"`
}

// GroupTypingMessage reports that a group member is composing.
type GroupTypingMessage struct {
	GroupID string `json:"group_id"`
	User    string `json:"user"`
}

// ErrorMessage reports a failed UI command.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidMsg   = "invalid_message"
	ErrCodeInternal     = "internal_error"
)

// NewEnvelope creates an envelope with the given type and data.
func NewEnvelope(msgType MessageType, data interface{}) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: msgType, Data: raw}, nil
}

// ParseEnvelope parses a raw envelope.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
