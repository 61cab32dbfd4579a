package models

// Skill session statuses as reported by the backend.
const (
	SessionPending   = "PENDING"
	SessionConfirmed = "CONFIRMED"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
)

// SkillSession represents a scheduled teaching session between two users.
type SkillSession struct {
	ID                    string `json:"id"`
	PartnerID             string `json:"partnerId"`
	PartnerName           string `json:"partnerName,omitempty"`
	PartnerProfilePicture string `json:"partnerProfilePicture,omitempty"`
	SkillTopic            string `json:"skillTopic"`
	ScheduledTime         string `json:"scheduledTime"`
	Duration              int    `json:"duration,omitempty"`
	Status                string `json:"status"`
	MeetingLink           string `json:"meetingLink,omitempty"`
	IsTeacher             bool   `json:"isTeacher"`
}

// SessionJoinInfo is returned when joining a session room.
type SessionJoinInfo struct {
	MeetingLink    string `json:"meetingLink,omitempty"`
	VideoRoom      string `json:"videoRoom,omitempty"`
	WhiteboardRoom string `json:"whiteboardRoom,omitempty"`
}
