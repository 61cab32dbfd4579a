package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// Resources lists all shared resources.
func (c *Client) Resources(ctx context.Context) ([]models.ResourceItem, error) {
	var out []models.ResourceItem
	if err := c.do(ctx, http.MethodGet, "/resources", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyResources lists the caller's own resources.
func (c *Client) MyResources(ctx context.Context) ([]models.ResourceItem, error) {
	var out []models.ResourceItem
	if err := c.do(ctx, http.MethodGet, "/resources/my", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadResource uploads a file, optionally attached to a session or skill.
func (c *Client) UploadResource(ctx context.Context, filename string, contents io.Reader, sessionID, skillName string) (*models.ResourceItem, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, fmt.Errorf("read upload contents: %w", err)
	}
	if sessionID != "" {
		w.WriteField("sessionId", sessionID)
	}
	if skillName != "" {
		w.WriteField("skillName", skillName)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish upload: %w", err)
	}

	var out models.ResourceItem
	if err := c.doRaw(ctx, http.MethodPost, "/resources/upload", nil, w.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LinkResourceRequest shares an external link as a resource.
type LinkResourceRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	SkillName   string `json:"skillName,omitempty"`
}

// LinkResource shares an external link.
func (c *Client) LinkResource(ctx context.Context, req LinkResourceRequest) (*models.ResourceItem, error) {
	var out models.ResourceItem
	if err := c.do(ctx, http.MethodPost, "/resources/link", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResourcesBySession lists resources attached to a session.
func (c *Client) ResourcesBySession(ctx context.Context, sessionID string) ([]models.ResourceItem, error) {
	var out []models.ResourceItem
	if err := c.do(ctx, http.MethodGet, "/resources/session/"+sessionID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResourcesBySkill lists resources tagged with a skill.
func (c *Client) ResourcesBySkill(ctx context.Context, skill string) ([]models.ResourceItem, error) {
	var out []models.ResourceItem
	if err := c.do(ctx, http.MethodGet, "/resources/skill/"+url.PathEscape(skill), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteResource removes one of the caller's resources.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resources/"+id, nil, nil, nil)
}

// DownloadResource streams a resource file. The returned filename is parsed
// from the Content-Disposition header; the caller owns closing the reader.
func (c *Client) DownloadResource(ctx context.Context, id string) (filename string, body io.ReadCloser, err error) {
	resp, err := c.download(ctx, "/resources/"+id+"/download")
	if err != nil {
		return "", nil, err
	}
	filename = FilenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = id
	}
	return filename, resp.Body, nil
}

// FilenameFromDisposition extracts the filename from a Content-Disposition
// header, handling both the plain `filename=` form and the RFC 5987
// `filename*=UTF-8''...` form. Returns "" when no filename is present.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	// Fall back to a manual scan for servers that emit parameters the
	// stdlib parser rejects.
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "filename*="); ok {
			v = strings.TrimPrefix(v, "UTF-8''")
			v = strings.TrimPrefix(v, "utf-8''")
			if decoded, err := url.PathUnescape(v); err == nil {
				return decoded
			}
			return v
		}
		if v, ok := strings.CutPrefix(part, "filename="); ok {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}
