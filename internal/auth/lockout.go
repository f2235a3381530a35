package auth

import "time"

// Lockout tier thresholds and durations. Escalating rather than flat
// windows tolerate a couple of genuine typos while making sustained
// guessing expensive.
const (
	ShortLockThreshold = 3
	LongLockThreshold  = 5
	MaxAttempts        = 5

	ShortLockDuration = 5 * time.Minute
	LongLockDuration  = 15 * time.Minute
)

// LockState is the lockout state of a security profile: either open
// (verification permitted) or locked until a point in time.
type LockState struct {
	Locked bool
	Until  time.Time
}

// Open is the unlocked state.
var Open = LockState{}

// LockedUntil returns a locked state expiring at the given instant.
func LockedUntil(until time.Time) LockState {
	return LockState{Locked: true, Until: until}
}

// NextLockState maps the failed-attempt count, after incrementing for
// the current failure, to the resulting lockout state.
func NextLockState(attempts int, now time.Time) LockState {
	switch {
	case attempts >= LongLockThreshold:
		return LockedUntil(now.Add(LongLockDuration))
	case attempts >= ShortLockThreshold:
		return LockedUntil(now.Add(ShortLockDuration))
	default:
		return Open
	}
}

// AttemptsRemaining returns how many wrong guesses remain before the
// long lockout tier, never negative.
func AttemptsRemaining(attempts int) int {
	if attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - attempts
}
