package chatgate

import (
	"context"
	"sync"
	"time"
)

// Gate caches at most one chat session token and decides whether the
// password prompt has to be shown before the protected view renders.
// The server remains the authority: an expired or revoked token is
// rejected there regardless of what the gate believes.
type Gate struct {
	client *Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

// NewGate creates a gate backed by the given client.
func NewGate(client *Client) *Gate {
	return &Gate{client: client, now: time.Now}
}

// NeedsPrompt reports whether the password prompt must be shown. It is
// true when security is enabled and no unexpired session token is held.
// Call it every time the protected view is about to render, not once.
func (g *Gate) NeedsPrompt(ctx context.Context, accessToken string) (bool, error) {
	status, err := g.client.Status(ctx, accessToken)
	if err != nil {
		return false, err
	}
	if !status.Enabled {
		return false, nil
	}
	return !g.hasValidToken(), nil
}

// Verify submits a password attempt and caches the session token on
// success. The previous token, if any, is discarded either way.
func (g *Gate) Verify(ctx context.Context, accessToken, password string) (*VerifyResult, error) {
	result, err := g.client.Verify(ctx, accessToken, password)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if result.Success && result.Token != "" && result.ExpiresAt != nil {
		g.token = result.Token
		g.expiresAt = *result.ExpiresAt
	} else {
		g.token = ""
		g.expiresAt = time.Time{}
	}
	return result, nil
}

// Token returns the cached session token, or false when none is held or
// it has expired. The returned token goes into the X-Chat-Session-Token
// header of gated requests.
func (g *Gate) Token() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.token == "" || !g.now().Before(g.expiresAt) {
		return "", false
	}
	return g.token, true
}

// Clear drops the cached token, forcing the next render to prompt.
func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	g.expiresAt = time.Time{}
}

// RemainingLockout converts a lockedUntil timestamp from a VerifyResult
// into a countdown duration. It is cosmetic: the server re-checks the
// lockout on every attempt.
func (g *Gate) RemainingLockout(lockedUntil *time.Time) time.Duration {
	if lockedUntil == nil {
		return 0
	}
	remaining := lockedUntil.Sub(g.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (g *Gate) hasValidToken() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token != "" && g.now().Before(g.expiresAt)
}
