package auth

import (
	"strings"
	"unicode"
)

// Symbols is the punctuation set accepted as special characters.
const Symbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// MinPasswordLength is the minimum accepted chat password length.
const MinPasswordLength = 8

// WeakPasswordError reports which strength rules a candidate password
// failed. It is an input validation failure, never a security event.
type WeakPasswordError struct {
	Failed []string
}

func (e *WeakPasswordError) Error() string {
	return "password does not meet requirements: " + strings.Join(e.Failed, ", ")
}

// ValidatePassword checks the candidate against the strength policy:
// minimum 8 characters with at least one uppercase letter, one
// lowercase letter, one digit, and one symbol.
func ValidatePassword(password string) error {
	var failed []string

	if len(password) < MinPasswordLength {
		failed = append(failed, "min_length")
	}

	hasUpper, hasLower, hasDigit, hasSymbol := false, false, false, false
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	if !hasUpper {
		failed = append(failed, "uppercase")
	}
	if !hasLower {
		failed = append(failed, "lowercase")
	}
	if !hasDigit {
		failed = append(failed, "digit")
	}
	if !hasSymbol {
		failed = append(failed, "symbol")
	}

	if len(failed) > 0 {
		return &WeakPasswordError{Failed: failed}
	}
	return nil
}
