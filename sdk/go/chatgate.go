// Package chatgate provides a Go client for the ChatGate API.
package chatgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config holds the SDK configuration.
type Config struct {
	// BaseURL is the ChatGate server URL, e.g. "https://gate.example.com".
	BaseURL string

	// HTTPClient is an optional custom HTTP client.
	HTTPClient *http.Client
}

// Client is the ChatGate SDK client.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new ChatGate client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("chatgate: BaseURL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{cfg: cfg, http: httpClient}, nil
}

// Status returns the security status for the authenticated user.
func (c *Client) Status(ctx context.Context, accessToken string) (*SecurityStatus, error) {
	var status SecurityStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/security/status", accessToken, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Enable turns the gate on with the given password. The hint is optional.
func (c *Client) Enable(ctx context.Context, accessToken, password string, hint *string) error {
	body := map[string]interface{}{"password": password}
	if hint != nil {
		body["hint"] = *hint
	}

	var resp actionResponse
	return c.do(ctx, http.MethodPost, "/api/v1/security/enable", accessToken, body, &resp)
}

// Verify submits a password attempt. A failed attempt is not an error at
// this level: inspect VerifyResult.Success and the lockout fields.
func (c *Client) Verify(ctx context.Context, accessToken, password string) (*VerifyResult, error) {
	body := map[string]interface{}{"password": password}

	var result VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/security/verify", accessToken, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangePassword rotates the gate password. The current password must be
// supplied and verified server-side.
func (c *Client) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	body := map[string]interface{}{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}

	var resp actionResponse
	return c.do(ctx, http.MethodPost, "/api/v1/security/change-password", accessToken, body, &resp)
}

// Disable turns the gate off. The current password must be supplied.
func (c *Client) Disable(ctx context.Context, accessToken, password string) error {
	body := map[string]interface{}{"password": password}

	var resp actionResponse
	return c.do(ctx, http.MethodPost, "/api/v1/security/disable", accessToken, body, &resp)
}

// SecurityLog returns the most recent security events for the user,
// newest first.
func (c *Client) SecurityLog(ctx context.Context, accessToken string, limit, offset int) ([]LogEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/v1/security/log"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp securityLogResponse
	if err := c.do(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out interface{}) error {
	if accessToken == "" {
		return ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("chatgate: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("chatgate: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chatgate: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("chatgate: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		return parseAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("chatgate: decode response: %w", err)
		}
	}
	return nil
}
