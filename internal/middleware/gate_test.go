package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/logger"
)

type fakeTokenChecker struct {
	valid bool
	err   error
	seen  string
}

func (f *fakeTokenChecker) Check(ctx context.Context, userID, token string) (bool, error) {
	f.seen = token
	return f.valid, f.err
}

type fakeGateStatus struct {
	enabled bool
	err     error
}

func (f *fakeGateStatus) GateEnabled(ctx context.Context, userID string) (bool, error) {
	return f.enabled, f.err
}

func newTestMiddleware() *Middleware {
	return New(nil, logger.New("disabled", "json"), &config.Config{})
}

func serveGate(t *testing.T, tokens tokenChecker, status gateStatus, userID, sessionToken string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	handler := newTestMiddleware().Gate(tokens, status)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/access", nil)
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	}
	if sessionToken != "" {
		req.Header.Set(SessionTokenHeader, sessionToken)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestGate_DisabledPassesThrough(t *testing.T) {
	rec, reached := serveGate(t, &fakeTokenChecker{}, &fakeGateStatus{enabled: false}, "user-1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestGate_EnabledWithoutTokenForbidden(t *testing.T) {
	rec, reached := serveGate(t, &fakeTokenChecker{valid: false}, &fakeGateStatus{enabled: true}, "user-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "verification_required")
}

func TestGate_EnabledWithValidToken(t *testing.T) {
	checker := &fakeTokenChecker{valid: true}
	rec, reached := serveGate(t, checker, &fakeGateStatus{enabled: true}, "user-1", "session-abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, "session-abc", checker.seen)
}

func TestGate_EnabledWithExpiredToken(t *testing.T) {
	// An expired token is indistinguishable from a missing one.
	rec, reached := serveGate(t, &fakeTokenChecker{valid: false}, &fakeGateStatus{enabled: true}, "user-1", "stale-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestGate_MissingUser(t *testing.T) {
	rec, reached := serveGate(t, &fakeTokenChecker{}, &fakeGateStatus{enabled: true}, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestGate_StatusErrorIsInternal(t *testing.T) {
	rec, reached := serveGate(t, &fakeTokenChecker{}, &fakeGateStatus{err: assert.AnError}, "user-1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, reached)
}

func TestGate_TokenCheckErrorIsInternal(t *testing.T) {
	rec, reached := serveGate(t, &fakeTokenChecker{err: assert.AnError}, &fakeGateStatus{enabled: true}, "user-1", "session-abc")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, reached)
}
