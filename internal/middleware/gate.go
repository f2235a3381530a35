package middleware

import (
	"context"
	"net/http"
)

// SessionTokenHeader carries the chat session token minted by a
// successful verification.
const SessionTokenHeader = "X-Chat-Session-Token"

// tokenChecker validates a chat session token for a user
type tokenChecker interface {
	Check(ctx context.Context, userID, token string) (bool, error)
}

// gateStatus reads whether the gate is enabled for a user
type gateStatus interface {
	GateEnabled(ctx context.Context, userID string) (bool, error)
}

// Gate enforces the chat access gate at the history boundary. Requests
// pass when the gate is disabled, or when they carry a session token
// that is still valid. The server-side check is authoritative; any
// client-side countdown is cosmetic.
func (m *Middleware) Gate(tokens tokenChecker, status gateStatus) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID == "" {
				http.Error(w, `{"error":{"code":"unauthorized","message":"Authentication required"}}`, http.StatusUnauthorized)
				return
			}

			enabled, err := status.GateEnabled(ctx, userID)
			if err != nil {
				m.log.Error().Err(err).Str("user_id", userID).Msg("failed to read gate status")
				http.Error(w, `{"error":{"code":"internal_error","message":"An unexpected error occurred"}}`, http.StatusInternalServerError)
				return
			}
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := tokens.Check(ctx, userID, r.Header.Get(SessionTokenHeader))
			if err != nil {
				m.log.Error().Err(err).Str("user_id", userID).Msg("failed to check session token")
				http.Error(w, `{"error":{"code":"internal_error","message":"An unexpected error occurred"}}`, http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, `{"error":{"code":"verification_required","message":"Chat password verification required"}}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
