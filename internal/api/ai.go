package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// AskAssistant sends a question to the AI assistant.
func (c *Client) AskAssistant(ctx context.Context, question, skill string) (*models.AiChatMessage, error) {
	body := map[string]string{"question": question}
	if skill != "" {
		body["skill"] = skill
	}
	var out models.AiChatMessage
	if err := c.do(ctx, http.MethodPost, "/ai/ask", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssistantHistory pages through the server-side assistant transcript.
func (c *Client) AssistantHistory(ctx context.Context, page, size int) (*models.Page[models.AiChatMessage], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out models.Page[models.AiChatMessage]
	if err := c.do(ctx, http.MethodGet, "/ai/history", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearAssistantHistory deletes the server-side assistant transcript.
func (c *Client) ClearAssistantHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/ai/history", nil, nil, nil)
}
