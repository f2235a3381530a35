package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/model"
)

// ProfileRepository handles security profile persistence
type ProfileRepository struct {
	db *database.Postgres
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *database.Postgres) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, enabled, password_hash, salt, hint,
	       failed_attempts, locked_until, password_set_at, last_access_at,
	       created_at, updated_at`

// Get retrieves the security profile for a user
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.SecurityProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM security_profiles
		WHERE user_id = $1
	`
	return scanProfile(r.db.QueryRowContext(ctx, query, userID))
}

// GetForUpdate retrieves the profile inside tx with a row-level lock.
// Concurrent verification attempts for the same user serialize on this
// lock, so two simultaneous guesses can never read the same
// pre-increment counter.
func (r *ProfileRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, userID string) (*model.SecurityProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM security_profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	return scanProfile(tx.QueryRowContext(ctx, query, userID))
}

// Ensure creates an empty profile row for the user if none exists
func (r *ProfileRepository) Ensure(ctx context.Context, userID string) error {
	query := `
		INSERT INTO security_profiles (user_id, enabled, failed_attempts, created_at, updated_at)
		VALUES ($1, false, 0, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to ensure security profile: %w", err)
	}
	return nil
}

// Enable writes fresh password material, enables the gate, and clears
// the attempt counter and any lockout.
func (r *ProfileRepository) Enable(ctx context.Context, userID string, hash, salt []byte, hint *string, now time.Time) error {
	query := `
		UPDATE security_profiles
		SET enabled = true, password_hash = $1, salt = $2, hint = $3,
		    password_set_at = $4, failed_attempts = 0, locked_until = NULL,
		    updated_at = $4
		WHERE user_id = $5
	`
	result, err := r.db.ExecContext(ctx, query, hash, salt, hint, now, userID)
	if err != nil {
		return fmt.Errorf("failed to enable security profile: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RotatePassword replaces the hash and salt. Lockout counters are left
// untouched: changing the password is not a lockout-clearing event.
func (r *ProfileRepository) RotatePassword(ctx context.Context, userID string, hash, salt []byte, now time.Time) error {
	query := `
		UPDATE security_profiles
		SET password_hash = $1, salt = $2, password_set_at = $3, updated_at = $3
		WHERE user_id = $4
	`
	result, err := r.db.ExecContext(ctx, query, hash, salt, now, userID)
	if err != nil {
		return fmt.Errorf("failed to rotate password: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Disable hard-resets the profile: hash, salt, hint, timestamps,
// counter and lock are all cleared along with the enabled flag.
func (r *ProfileRepository) Disable(ctx context.Context, userID string, now time.Time) error {
	query := `
		UPDATE security_profiles
		SET enabled = false, password_hash = NULL, salt = NULL, hint = NULL,
		    password_set_at = NULL, failed_attempts = 0, locked_until = NULL,
		    updated_at = $1
		WHERE user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, now, userID)
	if err != nil {
		return fmt.Errorf("failed to disable security profile: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordSuccess resets the counter, clears any lock, and stamps the
// last access time. Runs inside the verification transaction.
func (r *ProfileRepository) RecordSuccess(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	query := `
		UPDATE security_profiles
		SET failed_attempts = 0, locked_until = NULL, last_access_at = $1, updated_at = $1
		WHERE user_id = $2
	`
	if _, err := tx.ExecContext(ctx, query, now, userID); err != nil {
		return fmt.Errorf("failed to record successful verification: %w", err)
	}
	return nil
}

// RecordFailure persists the incremented counter and the lockout
// timestamp computed for it (nil when under the first tier). Runs
// inside the verification transaction.
func (r *ProfileRepository) RecordFailure(ctx context.Context, tx *sql.Tx, userID string, attempts int, lockedUntil *time.Time, now time.Time) error {
	query := `
		UPDATE security_profiles
		SET failed_attempts = $1, locked_until = $2, updated_at = $3
		WHERE user_id = $4
	`
	if _, err := tx.ExecContext(ctx, query, attempts, lockedUntil, now, userID); err != nil {
		return fmt.Errorf("failed to record failed verification: %w", err)
	}
	return nil
}

// scanProfile scans a single profile row
func scanProfile(row *sql.Row) (*model.SecurityProfile, error) {
	var p model.SecurityProfile
	err := row.Scan(
		&p.UserID,
		&p.Enabled,
		&p.PasswordHash,
		&p.Salt,
		&p.Hint,
		&p.FailedAttempts,
		&p.LockedUntil,
		&p.PasswordSetAt,
		&p.LastAccessAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan security profile: %w", err)
	}
	return &p, nil
}
