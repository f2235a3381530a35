package chatgate

import "time"

// SecurityStatus is the profile summary used for the prompt decision.
// The server never returns hash material or attempt counters.
type SecurityStatus struct {
	UserID        string     `json:"userId"`
	Enabled       bool       `json:"enabled"`
	Hint          *string    `json:"hint,omitempty"`
	LockedUntil   *time.Time `json:"lockedUntil,omitempty"`
	PasswordSetAt *time.Time `json:"passwordSetAt,omitempty"`
	LastAccessAt  *time.Time `json:"lastAccessAt,omitempty"`
}

// VerifyResult is the outcome of a verification attempt
type VerifyResult struct {
	Success           bool       `json:"success"`
	Message           string     `json:"message"`
	Locked            bool       `json:"locked,omitempty"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
	AttemptsRemaining *int       `json:"attemptsRemaining,omitempty"`
	Token             string     `json:"token,omitempty"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

// LogEntry is one entry of the user-facing security log
type LogEntry struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Action    string                 `json:"action"`
	Success   bool                   `json:"success"`
	IPAddress *string                `json:"ipAddress,omitempty"`
	UserAgent *string                `json:"userAgent,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type securityLogResponse struct {
	Entries []LogEntry `json:"entries"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
