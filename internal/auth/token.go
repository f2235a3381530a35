package auth

import (
	"errors"
	"fmt"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a bearer token fails validation
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenClaims holds the validated claims of a primary bearer token
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService validates the primary account bearer tokens issued by
// the surrounding application. ChatGate never issues these tokens; it
// only checks them so every operation can be attributed to a signed-in
// account owner.
type TokenService struct {
	signingKey []byte
	issuer     string
}

// NewTokenService creates a new TokenService
func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("auth signing key is required")
	}
	return &TokenService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
	}, nil
}

// ValidateAccessToken parses and validates a bearer token, returning
// its claims. The subject claim carries the account's user ID.
func (s *TokenService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
