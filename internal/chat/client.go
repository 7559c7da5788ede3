// Package chat wraps the chat provider's REST API. The app only needs
// session management; message traffic never touches this backend.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/config"
)

// Client manages chat SaaS user sessions.
type Client struct {
	baseURL  string
	appID    string
	apiToken string
	http     *http.Client
}

// NewClient creates a chat client. Returns nil when no base URL is
// configured; callers treat chat as optional.
func NewClient(cfg config.ChatConfig) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		appID:    cfg.AppID,
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SignIn upserts the chat user so the app can open a messaging session.
func (c *Client) SignIn(ctx context.Context, userID, displayName string) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"user_id":  userID,
		"nickname": displayName,
	})
	if err != nil {
		return fmt.Errorf("failed to encode chat user: %w", err)
	}

	url := fmt.Sprintf("%s/v3/applications/%s/users/%s", c.baseURL, c.appID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Token", c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat sign-in failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat sign-in failed: status %d", resp.StatusCode)
	}
	return nil
}

// SignOut revokes the user's chat sessions.
func (c *Client) SignOut(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}

	url := fmt.Sprintf("%s/v3/applications/%s/users/%s/sessions", c.baseURL, c.appID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Api-Token", c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat sign-out failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat sign-out failed: status %d", resp.StatusCode)
	}
	return nil
}
