package models

// User represents a SkillSwap user profile.
type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Bio               string   `json:"bio,omitempty"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	SkillsOffered     []string `json:"skillsOffered,omitempty"`
	SkillsWanted      []string `json:"skillsWanted,omitempty"`
	Availability      string   `json:"availability,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	Points            int      `json:"points,omitempty"`
	Level             string   `json:"level,omitempty"`
	CompletedSessions int      `json:"completedSessions,omitempty"`
}

// AuthSession pairs a bearer token with the profile it belongs to.
// A session with an empty token is unauthenticated regardless of the
// cached profile.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
