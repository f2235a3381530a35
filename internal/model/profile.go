package model

import (
	"time"
)

// SecurityProfile holds a user's chat security state: the secondary
// password material, the failed-attempt counter, and the lockout
// timestamp. One row per user, created empty when the account is
// created and populated when the gate is enabled.
//
// Invariant: PasswordHash and Salt are both non-nil iff Enabled is
// true. Disabling the gate is a hard reset of every field, not a flag
// flip.
type SecurityProfile struct {
	UserID         string     `json:"userId"`
	Enabled        bool       `json:"enabled"`
	PasswordHash   []byte     `json:"-"` // never expose hash material
	Salt           []byte     `json:"-"`
	Hint           *string    `json:"hint,omitempty"`
	FailedAttempts int        `json:"-"`
	LockedUntil    *time.Time `json:"lockedUntil,omitempty"`
	PasswordSetAt  *time.Time `json:"passwordSetAt,omitempty"`
	LastAccessAt   *time.Time `json:"lastAccessAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// IsLocked reports whether verification is currently refused
func (p *SecurityProfile) IsLocked(now time.Time) bool {
	if p.LockedUntil == nil {
		return false
	}
	return now.Before(*p.LockedUntil)
}
