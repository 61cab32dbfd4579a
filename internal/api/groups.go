package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// Groups lists study groups, optionally filtered by skill.
func (c *Client) Groups(ctx context.Context, skill string, page, size int) (*models.Page[models.Group], error) {
	q := url.Values{}
	if skill != "" {
		q.Set("skill", skill)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out models.Page[models.Group]
	if err := c.do(ctx, http.MethodGet, "/groups", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGroupRequest describes a new study group.
type CreateGroupRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	RelatedSkill string `json:"relatedSkill,omitempty"`
	MaxMembers   int    `json:"maxMembers,omitempty"`
	IsPrivate    bool   `json:"isPrivate,omitempty"`
}

// CreateGroup creates a study group.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodPost, "/groups", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGroup fetches one group.
func (c *Client) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinGroup joins a group. Idempotent for existing members.
func (c *Client) JoinGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/groups/"+id+"/join", nil, nil, nil)
}

// LeaveGroup leaves a group.
func (c *Client) LeaveGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/groups/"+id+"/leave", nil, nil, nil)
}

// GroupMessages fetches a group's recent messages, newest-first.
func (c *Client) GroupMessages(ctx context.Context, id string) ([]models.GroupMessage, error) {
	var out []models.GroupMessage
	if err := c.do(ctx, http.MethodGet, "/groups/"+id+"/messages", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendGroupMessage sends a message over REST and returns the acknowledged
// copy. The same message is also fanned out on the group topic.
func (c *Client) SendGroupMessage(ctx context.Context, id, text string) (*models.GroupMessage, error) {
	body := map[string]string{"text": text}
	var out models.GroupMessage
	if err := c.do(ctx, http.MethodPost, "/groups/"+id+"/messages", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GroupMembers lists a group's members.
func (c *Client) GroupMembers(ctx context.Context, id string) ([]models.GroupMember, error) {
	var out []models.GroupMember
	if err := c.do(ctx, http.MethodGet, "/groups/"+id+"/members", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GroupResources lists the resources shared with a group.
func (c *Client) GroupResources(ctx context.Context, id string) ([]models.ResourceItem, error) {
	var out []models.ResourceItem
	if err := c.do(ctx, http.MethodGet, "/groups/"+id+"/resources", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShareGroupResource shares one of the caller's resources with a group.
func (c *Client) ShareGroupResource(ctx context.Context, id, resourceID string) error {
	body := map[string]string{"resourceId": resourceID}
	return c.do(ctx, http.MethodPost, "/groups/"+id+"/resources/share", nil, body, nil)
}

// GroupSessions lists a group's scheduled sessions.
func (c *Client) GroupSessions(ctx context.Context, id string) ([]models.GroupSession, error) {
	var out []models.GroupSession
	if err := c.do(ctx, http.MethodGet, "/groups/"+id+"/sessions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScheduleGroupSession schedules a study session for a group.
func (c *Client) ScheduleGroupSession(ctx context.Context, id, scheduledTime string, duration int) (*models.GroupSession, error) {
	body := map[string]interface{}{"scheduledTime": scheduledTime}
	if duration > 0 {
		body["duration"] = duration
	}
	var out models.GroupSession
	if err := c.do(ctx, http.MethodPost, "/groups/"+id+"/sessions", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
