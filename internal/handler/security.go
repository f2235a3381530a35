package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chatgate/chatgate/internal/auth"
	"github.com/chatgate/chatgate/internal/middleware"
	"github.com/chatgate/chatgate/internal/service"
)

// requestMeta captures the request origin recorded alongside security
// log entries. IP resolution honors forwarding headers only when the
// server is configured behind a trusted proxy.
func (h *Handler) requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: middleware.ClientIP(r, h.cfg.Server.TrustProxyHeaders),
		UserAgent: r.UserAgent(),
	}
}

// --- Enable ---

type enableRequest struct {
	Password string  `json:"password"`
	Hint     *string `json:"hint,omitempty"`
}

// EnableSecurity turns the chat gate on for the signed-in account
func (h *Handler) EnableSecurity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req enableRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Password is required")
		return
	}

	if err := h.securitySvc.Enable(r.Context(), userID, req.Password, req.Hint, h.requestMeta(r)); err != nil {
		h.writeSecurityError(w, err, "failed to enable chat security")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Chat password set successfully",
	})
}

// --- Verify ---

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	Locked            bool       `json:"locked,omitempty"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
	AttemptsRemaining *int       `json:"attemptsRemaining,omitempty"`
	Token             string     `json:"token,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

// VerifyPassword checks the chat password and mints a session token on
// success. Lockout is part of the normal response payload, not an
// error status.
func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req verifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Password is required")
		return
	}

	result, err := h.securitySvc.Verify(r.Context(), userID, req.Password, h.requestMeta(r))
	if err != nil {
		h.writeSecurityError(w, err, "verification failed")
		return
	}

	resp := verifyResponse{
		Success:           result.Success,
		Locked:            result.Locked,
		LockedUntil:       result.LockedUntil,
		AttemptsRemaining: result.AttemptsRemaining,
		Token:             result.Token,
		ExpiresAt:         result.ExpiresAt,
	}
	switch {
	case result.Success:
		resp.Message = "Access granted"
	case result.Locked:
		resp.Message = "Too many failed attempts. Please try again later."
	default:
		// One generic message for every failed comparison; nothing to
		// enumerate from.
		resp.Message = "Incorrect password"
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Change password ---

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the chat password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req changePasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Current and new passwords are required")
		return
	}

	if err := h.securitySvc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, h.requestMeta(r)); err != nil {
		h.writeSecurityError(w, err, "failed to change chat password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password changed successfully",
	})
}

// --- Disable ---

type disableRequest struct {
	Password string `json:"password"`
}

// DisableSecurity turns the chat gate off
func (h *Handler) DisableSecurity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req disableRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Password is required")
		return
	}

	if err := h.securitySvc.Disable(r.Context(), userID, req.Password, h.requestMeta(r)); err != nil {
		h.writeSecurityError(w, err, "failed to disable chat security")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Chat security disabled",
	})
}

// --- Status ---

// SecurityStatus returns the profile fields the client needs for its
// prompt decision. Hash material and counters never leave the server.
func (h *Handler) SecurityStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.securitySvc.Status(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read security status")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read security status")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// --- Security log ---

// SecurityLog returns the user's security log, most recent first
func (h *Handler) SecurityLog(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.securitySvc.Log(r.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list security log")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list security log")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

// --- Gated boundary ---

// ChatAccess confirms the caller may render the gated conversation
// view. The Gate middleware has already done the checking by the time
// this runs.
func (h *Handler) ChatAccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access": true,
	})
}

// writeSecurityError maps service errors onto HTTP responses. Wrong
// passwords collapse to one generic message; storage failures stay
// generic too and never masquerade as password failures.
func (h *Handler) writeSecurityError(w http.ResponseWriter, err error, logMsg string) {
	var weakErr *auth.WeakPasswordError
	switch {
	case errors.As(err, &weakErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "weak_password",
				"message": "Password must be at least 8 characters with uppercase, lowercase, number, and special character",
				"failed":  weakErr.Failed,
			},
		})
	case errors.Is(err, service.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "invalid_password", "Incorrect password")
	case errors.Is(err, service.ErrNotEnabled):
		writeError(w, http.StatusConflict, "not_enabled", "Chat security is not enabled")
	default:
		h.log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
