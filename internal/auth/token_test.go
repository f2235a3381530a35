package auth

import (
	"testing"
	"time"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key-for-unit-tests"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.AuthConfig{
		SigningKey: testSigningKey,
		Issuer:     "chatgate",
	})
	require.NoError(t, err)
	return svc
}

func signToken(t *testing.T, key string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestNewTokenService_RequiresSigningKey(t *testing.T) {
	_, err := NewTokenService(config.AuthConfig{Issuer: "chatgate"})
	assert.Error(t, err)
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestTokenService(t)

	t.Run("valid token", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "chatgate",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		claims, err := svc.ValidateAccessToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "chatgate",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})

		_, err := svc.ValidateAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, jwt.RegisteredClaims{
			Subject: "user-123",
			Issuer:  "chatgate",
		})

		_, err := svc.ValidateAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		_, err := svc.ValidateAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		tokenString := signToken(t, "a-different-key", jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "chatgate",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		_, err := svc.ValidateAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tokenString := signToken(t, testSigningKey, jwt.RegisteredClaims{
			Issuer:    "chatgate",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})

		_, err := svc.ValidateAccessToken(tokenString)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
