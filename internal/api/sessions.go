package api

import (
	"context"
	"net/http"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// MySessions lists the current user's skill sessions.
func (c *Client) MySessions(ctx context.Context) ([]models.SkillSession, error) {
	var out []models.SkillSession
	if err := c.do(ctx, http.MethodGet, "/sessions/my-sessions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSessionRequest schedules a new session with a partner.
type CreateSessionRequest struct {
	PartnerID     string `json:"partnerId"`
	SkillTopic    string `json:"skillTopic"`
	ScheduledTime string `json:"scheduledTime"`
	Duration      int    `json:"duration,omitempty"`
}

// CreateSession schedules a session.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.SkillSession, error) {
	var out models.SkillSession
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSessionStatus transitions a session's status.
func (c *Client) UpdateSessionStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/sessions/"+id+"/status", nil, body, nil)
}

// SessionJoinInfo returns the meeting rooms for a session.
func (c *Client) SessionJoinInfo(ctx context.Context, id string) (*models.SessionJoinInfo, error) {
	var out models.SessionJoinInfo
	if err := c.do(ctx, http.MethodGet, "/sessions/"+id+"/join-info", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitReviewRequest carries a post-session review.
type SubmitReviewRequest struct {
	SessionID  string `json:"sessionId"`
	RevieweeID string `json:"revieweeId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
}

// SubmitReview submits a review for a completed session.
func (c *Client) SubmitReview(ctx context.Context, req SubmitReviewRequest) error {
	return c.do(ctx, http.MethodPost, "/reviews", nil, req, nil)
}

// UserReviews lists the reviews written about a user.
func (c *Client) UserReviews(ctx context.Context, userID string) ([]models.Review, error) {
	var out []models.Review
	if err := c.do(ctx, http.MethodGet, "/reviews/user/"+userID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalendarMappings lists the current user's calendar event mappings.
func (c *Client) CalendarMappings(ctx context.Context) ([]models.CalendarEventMapping, error) {
	var out []models.CalendarEventMapping
	if err := c.do(ctx, http.MethodGet, "/calendar/mappings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CalendarBySession returns the calendar mapping for one session, if any.
func (c *Client) CalendarBySession(ctx context.Context, sessionID string) (*models.CalendarEventMapping, error) {
	var out models.CalendarEventMapping
	if err := c.do(ctx, http.MethodGet, "/calendar/session/"+sessionID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
