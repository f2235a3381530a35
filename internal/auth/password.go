package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2Params holds Argon2id parameter defaults
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the default Argon2id parameters
func DefaultParams() *Argon2Params {
	return &Argon2Params{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// NewParams creates custom Argon2id parameters
func NewParams(memory, iterations uint32, parallelism uint8) *Argon2Params {
	return &Argon2Params{
		Memory:      memory,
		Iterations:  iterations,
		Parallelism: parallelism,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// GenerateSalt returns a fresh random salt. A new salt is generated on
// every set and change; salts are never reused across passwords.
func GenerateSalt(params *Argon2Params) ([]byte, error) {
	if params == nil {
		params = DefaultParams()
	}
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives an Argon2id hash of the password with the given
// salt. The hash and salt are stored as separate columns so the raw
// password never touches persistent storage.
func HashPassword(password string, salt []byte, params *Argon2Params) []byte {
	if params == nil {
		params = DefaultParams()
	}
	return argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
}

// VerifyPassword checks the supplied password against the stored hash
// in constant time.
func VerifyPassword(password string, salt, storedHash []byte, params *Argon2Params) bool {
	if params == nil {
		params = DefaultParams()
	}
	p := *params
	p.KeyLength = uint32(len(storedHash))
	otherHash := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(storedHash, otherHash) == 1
}
