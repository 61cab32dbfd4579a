package models

// Group represents a study group.
type Group struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	RelatedSkill string `json:"relatedSkill,omitempty"`
	CreatorName  string `json:"creatorName,omitempty"`
	MemberCount  int    `json:"memberCount"`
	MaxMembers   int    `json:"maxMembers"`
	IsPrivate    bool   `json:"isPrivate"`
	IconURL      string `json:"iconUrl,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// GroupMember represents a user's membership in a group.
type GroupMember struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// GroupMessage represents a message in a group chat room.
type GroupMessage struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName,omitempty"`
	MessageText string `json:"messageText"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// GroupSession represents a scheduled group study session.
type GroupSession struct {
	ID             string `json:"id"`
	GroupID        string `json:"groupId"`
	ScheduledTime  string `json:"scheduledTime"`
	Duration       int    `json:"duration,omitempty"`
	CreatedByName  string `json:"createdByName,omitempty"`
	MeetingLink    string `json:"meetingLink,omitempty"`
	VideoRoom      string `json:"videoRoom,omitempty"`
	WhiteboardRoom string `json:"whiteboardRoom,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// TypingEvent is pushed on a group's typing topic while a member composes.
type TypingEvent struct {
	User string `json:"user"`
}
