package models

// Match represents a suggested skill-exchange partner.
type Match struct {
	UserID                 string   `json:"userId"`
	Name                   string   `json:"name"`
	ProfilePictureURL      string   `json:"profilePictureUrl,omitempty"`
	MatchingSkillsTheyOffer []string `json:"matchingSkillsTheyOffer,omitempty"`
	MatchingSkillsYouOffer  []string `json:"matchingSkillsYouOffer,omitempty"`
	MatchScore             int      `json:"matchScore"`
	Rating                 float64  `json:"rating,omitempty"`
	CompletedSessions      int      `json:"completedSessions,omitempty"`
}

// Review represents a review left after a completed session.
type Review struct {
	ID                        string `json:"id"`
	ReviewerID                string `json:"reviewerId"`
	ReviewerName              string `json:"reviewerName,omitempty"`
	ReviewerProfilePictureURL string `json:"reviewerProfilePictureUrl,omitempty"`
	RevieweeID                string `json:"revieweeId"`
	Rating                    int    `json:"rating"`
	Comment                   string `json:"comment,omitempty"`
	CreatedAt                 string `json:"createdAt,omitempty"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ProfilePictureURL string  `json:"profilePictureUrl,omitempty"`
	Points            int     `json:"points"`
	Level             string  `json:"level,omitempty"`
	Rating            float64 `json:"rating,omitempty"`
	CompletedSessions int     `json:"completedSessions,omitempty"`
}
