package models

// ResourceItem represents an uploaded file or shared link.
type ResourceItem struct {
	ID          string `json:"id"`
	SkillName   string `json:"skillName,omitempty"`
	Type        string `json:"type"` // "FILE" or "LINK"
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	SizeBytes   int64  `json:"sizeBytes,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// CalendarEventMapping links a skill session to an external calendar event.
type CalendarEventMapping struct {
	ID              string `json:"id"`
	SessionID       string `json:"sessionId"`
	Provider        string `json:"provider"`
	ProviderEventID string `json:"providerEventId,omitempty"`
	HTMLLink        string `json:"htmlLink,omitempty"`
	ICalUID         string `json:"icalUid,omitempty"`
	LastSyncedAt    string `json:"lastSyncedAt,omitempty"`
}
