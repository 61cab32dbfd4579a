package api

import (
	"context"
	"net/http"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMeRequest carries profile fields to change. Nil fields are left
// untouched by the server.
type UpdateMeRequest struct {
	Name          *string  `json:"name,omitempty"`
	Bio           *string  `json:"bio,omitempty"`
	SkillsOffered []string `json:"skillsOffered,omitempty"`
	SkillsWanted  []string `json:"skillsWanted,omitempty"`
	Availability  *string  `json:"availability,omitempty"`
}

// UpdateMe updates the current user's profile and returns the new snapshot.
func (c *Client) UpdateMe(ctx context.Context, req UpdateMeRequest) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/me", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches another user's public profile.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Matches fetches the current user's suggested partners.
func (c *Client) Matches(ctx context.Context) ([]models.Match, error) {
	var out []models.Match
	if err := c.do(ctx, http.MethodGet, "/match", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Leaderboard fetches the points leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var out []models.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
