package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// StartConversation opens (or returns the existing) 1:1 thread with a user.
func (c *Client) StartConversation(ctx context.Context, otherID string) (*models.Conversation, error) {
	var out models.Conversation
	if err := c.do(ctx, http.MethodPost, "/chat/start/"+otherID, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversations lists the current user's conversations.
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	if err := c.do(ctx, http.MethodGet, "/chat/conversations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages fetches one page of a conversation's history. The server
// reports messages newest-first; callers reverse for display.
func (c *Client) Messages(ctx context.Context, conversationID string, page, size int) (*models.Page[models.Message], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out models.Page[models.Message]
	if err := c.do(ctx, http.MethodGet, "/chat/"+conversationID+"/messages", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends a message and returns the server's acknowledged copy.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error) {
	body := map[string]string{"text": text}
	var out models.Message
	if err := c.do(ctx, http.MethodPost, "/chat/"+conversationID+"/send", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkRead marks a conversation read. Idempotent on the server.
func (c *Client) MarkRead(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodPut, "/chat/"+conversationID+"/read", nil, nil, nil)
}

// UnreadCount returns the unread message count for a conversation.
func (c *Client) UnreadCount(ctx context.Context, conversationID string) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/"+conversationID+"/unread", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Notifications lists the current user's notifications.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead marks one notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil, nil)
}

// DeleteNotification removes one notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+id, nil, nil, nil)
}
