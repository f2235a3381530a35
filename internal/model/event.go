package model

import "time"

// SecurityEvent is one append-only entry in the chat security log.
// Entries are never updated or deleted after insertion.
type SecurityEvent struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Action    string                 `json:"action"`
	Success   bool                   `json:"success"`
	IPAddress *string                `json:"ipAddress,omitempty"`
	UserAgent *string                `json:"userAgent,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Security log action constants
const (
	ActionPasswordSet      = "password_set"
	ActionPasswordVerified = "password_verified"
	ActionPasswordFailed   = "password_failed"
	ActionPasswordChanged  = "password_changed"
	ActionSecurityDisabled = "security_disabled"
)
