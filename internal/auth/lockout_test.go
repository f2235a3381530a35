package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextLockState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		attempts int
		locked   bool
		duration time.Duration
	}{
		{name: "first failure stays open", attempts: 1, locked: false},
		{name: "second failure stays open", attempts: 2, locked: false},
		{name: "third failure locks five minutes", attempts: 3, locked: true, duration: 5 * time.Minute},
		{name: "fourth failure locks five minutes", attempts: 4, locked: true, duration: 5 * time.Minute},
		{name: "fifth failure locks fifteen minutes", attempts: 5, locked: true, duration: 15 * time.Minute},
		{name: "beyond fifth stays at fifteen minutes", attempts: 9, locked: true, duration: 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NextLockState(tt.attempts, now)
			assert.Equal(t, tt.locked, state.Locked)
			if tt.locked {
				assert.Equal(t, now.Add(tt.duration), state.Until)
			} else {
				assert.Equal(t, Open, state)
			}
		})
	}
}

func TestAttemptsRemaining(t *testing.T) {
	assert.Equal(t, 5, AttemptsRemaining(0))
	assert.Equal(t, 4, AttemptsRemaining(1))
	assert.Equal(t, 1, AttemptsRemaining(4))
	assert.Equal(t, 0, AttemptsRemaining(5))
	assert.Equal(t, 0, AttemptsRemaining(12))
}
