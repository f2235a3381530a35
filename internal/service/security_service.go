package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatgate/chatgate/internal/auth"
	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/model"
	"github.com/chatgate/chatgate/internal/repository"
	"github.com/google/uuid"
)

// Common service errors
var (
	// ErrInvalidPassword covers every wrong-password path. The message
	// is deliberately generic so callers cannot distinguish why the
	// comparison failed.
	ErrInvalidPassword = errors.New("incorrect password")

	// ErrNotEnabled is returned when an operation requires the gate to
	// be enabled and it is not. This is a caller error, not a guess,
	// and is never audit-logged as a password failure.
	ErrNotEnabled = errors.New("chat security is not enabled")
)

// TokenIssuer mints session tokens on successful verification
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (*model.SessionToken, error)
}

// LockoutNotifier is told when an account trips a lockout threshold.
// Notification is fire-and-forget; implementations must not block.
type LockoutNotifier interface {
	NotifyLockout(userID string, attempts int, until time.Time)
}

// RequestMeta carries the network origin of an attempt for the audit
// trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// VerifyResult is the outcome of a verification attempt. Lockout is an
// expected, user-recoverable state and travels in the payload rather
// than as an error.
type VerifyResult struct {
	Success           bool             `json:"success"`
	Locked            bool             `json:"locked,omitempty"`
	LockedUntil       *time.Time       `json:"lockedUntil,omitempty"`
	AttemptsRemaining *int             `json:"attemptsRemaining,omitempty"`
	Token             string           `json:"token,omitempty"`
	ExpiresAt         *time.Time       `json:"expiresAt,omitempty"`
}

// SecurityService orchestrates the chat access gate: credential
// storage, lockout evaluation, hash comparison, audit logging and
// session token issuance.
type SecurityService struct {
	db          *database.Postgres
	profiles    *repository.ProfileRepository
	events      *repository.EventRepository
	tokens      TokenIssuer
	alerts      LockoutNotifier
	argonParams *auth.Argon2Params
	log         *logger.Logger
	now         func() time.Time
}

// NewSecurityService creates a new SecurityService. The alerts notifier
// may be nil when lockout alerting is not configured.
func NewSecurityService(
	db *database.Postgres,
	profiles *repository.ProfileRepository,
	events *repository.EventRepository,
	tokens TokenIssuer,
	alerts LockoutNotifier,
	cfg *config.Config,
	log *logger.Logger,
) *SecurityService {
	return &SecurityService{
		db:       db,
		profiles: profiles,
		events:   events,
		tokens:   tokens,
		alerts:   alerts,
		argonParams: auth.NewParams(
			cfg.Security.Password.Argon2Memory,
			cfg.Security.Password.Argon2Iterations,
			cfg.Security.Password.Argon2Parallelism,
		),
		log: log.WithComponent("security_service"),
		now: time.Now,
	}
}

// Enable turns the gate on for a user with a fresh password and an
// optional hint. The hint is a mnemonic aid only; it never takes part
// in verification.
func (s *SecurityService) Enable(ctx context.Context, userID, password string, hint *string, meta RequestMeta) error {
	ctx = context.WithoutCancel(ctx)

	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	if err := s.profiles.Ensure(ctx, userID); err != nil {
		return fmt.Errorf("failed to prepare security profile: %w", err)
	}

	salt, err := auth.GenerateSalt(s.argonParams)
	if err != nil {
		return err
	}
	hash := auth.HashPassword(password, salt, s.argonParams)

	if hint != nil && strings.TrimSpace(*hint) == "" {
		hint = nil
	}

	if err := s.profiles.Enable(ctx, userID, hash, salt, hint, s.now()); err != nil {
		return fmt.Errorf("failed to enable chat security: %w", err)
	}

	s.logEvent(ctx, userID, model.ActionPasswordSet, true, meta, nil)
	s.log.Info().Str("user_id", userID).Msg("chat security enabled")
	return nil
}

// Verify checks a supplied password against the stored hash, applying
// the lockout policy. The read-increment-write of the attempt counter
// runs under a row-level lock so concurrent guesses for the same user
// serialize; no ordering is needed across users.
func (s *SecurityService) Verify(ctx context.Context, userID, password string, meta RequestMeta) (*VerifyResult, error) {
	// An attempt is not cancelable once started. A client that hangs up
	// mid-hash must still pay for the guess: the counter update and the
	// audit entry land regardless of the request's fate.
	ctx = context.WithoutCancel(ctx)

	now := s.now()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin verification: %w", err)
	}
	defer tx.Rollback()

	profile, err := s.profiles.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotEnabled
		}
		return nil, err
	}
	if !profile.Enabled {
		return nil, ErrNotEnabled
	}

	// Refuse while locked without consuming a hash comparison and
	// without touching the counter; the refusal still lands in the
	// audit trail.
	if profile.IsLocked(now) {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to complete verification: %w", err)
		}
		s.logEvent(ctx, userID, model.ActionPasswordFailed, false, meta, map[string]interface{}{
			"reason": "locked",
		})
		return &VerifyResult{
			Success:     false,
			Locked:      true,
			LockedUntil: profile.LockedUntil,
		}, nil
	}

	if auth.VerifyPassword(password, profile.Salt, profile.PasswordHash, s.argonParams) {
		if err := s.profiles.RecordSuccess(ctx, tx, userID, now); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to complete verification: %w", err)
		}

		token, err := s.tokens.Issue(ctx, userID)
		if err != nil {
			return nil, err
		}

		s.logEvent(ctx, userID, model.ActionPasswordVerified, true, meta, nil)
		s.log.Info().Str("user_id", userID).Msg("chat password verified")

		return &VerifyResult{
			Success:   true,
			Token:     token.Token,
			ExpiresAt: &token.ExpiresAt,
		}, nil
	}

	attempts := profile.FailedAttempts + 1
	state := auth.NextLockState(attempts, now)

	var lockedUntil *time.Time
	if state.Locked {
		until := state.Until
		lockedUntil = &until
	}

	if err := s.profiles.RecordFailure(ctx, tx, userID, attempts, lockedUntil, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to complete verification: %w", err)
	}

	s.logEvent(ctx, userID, model.ActionPasswordFailed, false, meta, map[string]interface{}{
		"attempts": attempts,
	})
	if state.Locked {
		s.log.Warn().
			Str("user_id", userID).
			Int("attempts", attempts).
			Time("locked_until", state.Until).
			Msg("chat security locked after failed attempts")
		if s.alerts != nil {
			s.alerts.NotifyLockout(userID, attempts, state.Until)
		}
	}

	remaining := auth.AttemptsRemaining(attempts)
	return &VerifyResult{
		Success:           false,
		Locked:            state.Locked,
		LockedUntil:       lockedUntil,
		AttemptsRemaining: &remaining,
	}, nil
}

// ChangePassword rotates the password after verifying the current one.
// It fails closed on a mismatch and deliberately leaves the lockout
// counter alone: only a successful verification or a fresh enable
// clears it.
func (s *SecurityService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string, meta RequestMeta) error {
	ctx = context.WithoutCancel(ctx)

	profile, err := s.getEnabled(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(currentPassword, profile.Salt, profile.PasswordHash, s.argonParams) {
		s.logEvent(ctx, userID, model.ActionPasswordChanged, false, meta, map[string]interface{}{
			"reason": "invalid_current_password",
		})
		return ErrInvalidPassword
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}

	salt, err := auth.GenerateSalt(s.argonParams)
	if err != nil {
		return err
	}
	hash := auth.HashPassword(newPassword, salt, s.argonParams)

	if err := s.profiles.RotatePassword(ctx, userID, hash, salt, s.now()); err != nil {
		return fmt.Errorf("failed to change chat password: %w", err)
	}

	s.logEvent(ctx, userID, model.ActionPasswordChanged, true, meta, nil)
	s.log.Info().Str("user_id", userID).Msg("chat password changed")
	return nil
}

// Disable turns the gate off after verifying the current password.
// Disabling is a hard reset: hash, salt, hint, counters and lock are
// all cleared.
func (s *SecurityService) Disable(ctx context.Context, userID, password string, meta RequestMeta) error {
	ctx = context.WithoutCancel(ctx)

	profile, err := s.getEnabled(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(password, profile.Salt, profile.PasswordHash, s.argonParams) {
		s.logEvent(ctx, userID, model.ActionSecurityDisabled, false, meta, map[string]interface{}{
			"reason": "invalid_password",
		})
		return ErrInvalidPassword
	}

	if err := s.profiles.Disable(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("failed to disable chat security: %w", err)
	}

	s.logEvent(ctx, userID, model.ActionSecurityDisabled, true, meta, nil)
	s.log.Info().Str("user_id", userID).Msg("chat security disabled")
	return nil
}

// Status returns the security profile for the prompt decision,
// creating the empty row on first read.
func (s *SecurityService) Status(ctx context.Context, userID string) (*model.SecurityProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		if err := s.profiles.Ensure(ctx, userID); err != nil {
			return nil, err
		}
		return s.profiles.Get(ctx, userID)
	}
	return profile, err
}

// GateEnabled reports whether the gate is active for a user. A missing
// profile row means the gate was never enabled.
func (s *SecurityService) GateEnabled(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.Enabled, nil
}

// Log returns the user's security log, most recent first
func (s *SecurityService) Log(ctx context.Context, userID string, limit, offset int) ([]model.SecurityEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.events.ListByUser(ctx, userID, limit, offset)
}

func (s *SecurityService) getEnabled(ctx context.Context, userID string) (*model.SecurityProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotEnabled
		}
		return nil, err
	}
	if !profile.Enabled {
		return nil, ErrNotEnabled
	}
	return profile, nil
}

// logEvent appends a security log entry. The log is best-effort from
// the caller's point of view; a write failure is logged, never
// surfaced as a verification outcome.
func (s *SecurityService) logEvent(ctx context.Context, userID, action string, success bool, meta RequestMeta, metadata map[string]interface{}) {
	event := &model.SecurityEvent{
		ID:        generateID("sec"),
		UserID:    userID,
		Action:    action,
		Success:   success,
		CreatedAt: s.now(),
		Metadata:  metadata,
	}
	if meta.IPAddress != "" {
		event.IPAddress = &meta.IPAddress
	}
	if meta.UserAgent != "" {
		event.UserAgent = &meta.UserAgent
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("failed to create security event")
	}
}

func generateID(prefix string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(prefix) > 0 {
		return prefix + "_" + id[:26]
	}
	return id
}
