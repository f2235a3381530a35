package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/model"
	"github.com/redis/go-redis/v9"
)

// sessionStore is the slice of the Redis client the token service
// needs. Expiry is enforced by the store's native TTL, so no sweeper
// is required.
type sessionStore interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// TokenService mints and checks chat session tokens. A token is an
// opaque random identifier proving that a correct verification
// happened very recently; it is deliberately short-lived and there is
// no refresh operation.
type TokenService struct {
	store sessionStore
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewTokenService creates a new TokenService backed by Redis
func NewTokenService(rdb *database.Redis, cfg config.SessionConfig, log *logger.Logger) *TokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &TokenService{
		store: rdb,
		ttl:   ttl,
		log:   log.WithComponent("token_service"),
		now:   time.Now,
	}
}

// Issue mints a fresh session token for the user
func (s *TokenService) Issue(ctx context.Context, userID string) (*model.SessionToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiresAt := s.now().Add(s.ttl)
	if err := s.store.SetWithTTL(ctx, sessionKey(userID, token), "1", s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}

	return &model.SessionToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Check reports whether the token is currently valid for the user.
// Expiry is lazy: once the TTL elapses the key is simply gone.
func (s *TokenService) Check(ctx context.Context, userID, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := s.store.GetString(ctx, sessionKey(userID, token))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session token: %w", err)
	}
	return true, nil
}

// Revoke drops a token before its natural expiry
func (s *TokenService) Revoke(ctx context.Context, userID, token string) error {
	return s.store.Delete(ctx, sessionKey(userID, token))
}

func sessionKey(userID, token string) string {
	return "chatgate:session:" + userID + ":" + token
}
