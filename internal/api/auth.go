package api

import (
	"context"
	"net/http"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// LoginRequest carries credentials, with an optional TOTP code when the
// account has two-factor enabled.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TotpCode string `json:"totpCode,omitempty"`
}

// LoginResponse is returned by login, register, and OAuth verification.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*LoginResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout informs the server. Callers drop local credentials regardless of
// the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Verify validates the current token, returning a refreshed session.
// Used by the OAuth callback flow.
func (c *Client) Verify(ctx context.Context) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthProviders lists the enabled OAuth providers.
func (c *Client) AuthProviders(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/auth/providers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TwoFactorSetup returns a fresh TOTP secret and provisioning URI.
func (c *Client) TwoFactorSetup(ctx context.Context) (secret, otpauthURL string, err error) {
	var out struct {
		Secret     string `json:"secret"`
		OtpauthURL string `json:"otpauthUrl"`
	}
	if err := c.do(ctx, http.MethodGet, "/2fa/setup", nil, nil, &out); err != nil {
		return "", "", err
	}
	return out.Secret, out.OtpauthURL, nil
}

// TwoFactorEnable confirms the secret with a current code.
func (c *Client) TwoFactorEnable(ctx context.Context, secret, code string) error {
	body := map[string]string{"secret": secret, "code": code}
	return c.do(ctx, http.MethodPost, "/2fa/enable", nil, body, nil)
}

// TwoFactorDisable turns off two-factor auth, confirmed by a current code.
func (c *Client) TwoFactorDisable(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, http.MethodPost, "/2fa/disable", nil, body, nil)
}
