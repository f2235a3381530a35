package router

import (
	"net/http"
	"time"

	"github.com/chatgate/chatgate/internal/auth"
	"github.com/chatgate/chatgate/internal/handler"
	"github.com/chatgate/chatgate/internal/middleware"
	"github.com/chatgate/chatgate/internal/service"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, tokenSvc *auth.TokenService, sessionSvc *service.TokenService, securitySvc *service.SecurityService) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints (no auth required)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	authMw := mw.Auth(tokenSvc)
	gateMw := mw.Gate(sessionSvc, securitySvc)

	// Verification is the brute-force surface; rate limit it by IP on
	// top of the per-user lockout policy.
	verifyRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  10,
		Window: 5 * time.Minute,
		KeyFn:  mw.IPKey,
	})
	settingsRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Limit:  10,
		Window: 1 * time.Minute,
		KeyFn:  mw.IPKey,
	})

	// Chat security gate routes (all require the primary account token)
	mux.Handle("POST /api/v1/security/enable", authMw(settingsRateLimit(http.HandlerFunc(h.EnableSecurity))))
	mux.Handle("POST /api/v1/security/verify", authMw(verifyRateLimit(http.HandlerFunc(h.VerifyPassword))))
	mux.Handle("POST /api/v1/security/change-password", authMw(settingsRateLimit(http.HandlerFunc(h.ChangePassword))))
	mux.Handle("POST /api/v1/security/disable", authMw(settingsRateLimit(http.HandlerFunc(h.DisableSecurity))))
	mux.Handle("GET /api/v1/security/status", authMw(http.HandlerFunc(h.SecurityStatus)))
	mux.Handle("GET /api/v1/security/log", authMw(http.HandlerFunc(h.SecurityLog)))

	// Gated conversation boundary: auth plus a valid chat session token
	mux.Handle("GET /api/v1/chat/access", authMw(gateMw(http.HandlerFunc(h.ChatAccess))))

	// RequestID sits outermost so Recover and Logger both see the ID
	var hnd http.Handler = mux

	hnd = mw.Logger(hnd)
	hnd = mw.Recover(hnd)
	hnd = mw.RequestID(hnd)

	return hnd
}
