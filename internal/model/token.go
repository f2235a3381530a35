package model

import "time"

// SessionToken is the ephemeral proof of a recent successful
// verification. It is minted only by a correct verify, never renewed,
// and treated as expired the instant now >= ExpiresAt.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
