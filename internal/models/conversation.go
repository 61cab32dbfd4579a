package models

// Conversation represents a 1:1 chat thread with another user.
type Conversation struct {
	ID              string `json:"id"`
	OtherUserID     string `json:"otherUserId"`
	OtherUserName   string `json:"otherUserName"`
	OtherUserAvatar string `json:"otherUserAvatar,omitempty"`
	LastMessageTime string `json:"lastMessageTime,omitempty"`
	UnreadCount     int64  `json:"unreadCount"`
}

// Message represents a chat message within a conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName,omitempty"`
	MessageText    string `json:"messageText"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt,omitempty"`
	ReadAt         string `json:"readAt,omitempty"`
}

// CachedMessage is the local sqlite projection of a message, kept so a
// restarted client can show recent history before the first network
// round-trip.
type CachedMessage struct {
	ConversationID string
	MessageID      string
	SenderID       string
	Text           string
	CreatedAt      string
}
