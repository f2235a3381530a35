package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatgate/chatgate/internal/logger"
)

// fakeStore mimics the Redis TTL behavior against a controllable clock
type fakeStore struct {
	clock   *time.Time
	entries map[string]time.Time
}

func newFakeStore(clock *time.Time) *fakeStore {
	return &fakeStore{clock: clock, entries: make(map[string]time.Time)}
}

func (s *fakeStore) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.entries[key] = s.clock.Add(ttl)
	return nil
}

func (s *fakeStore) GetString(ctx context.Context, key string) (string, error) {
	expiresAt, ok := s.entries[key]
	if !ok || !s.clock.Before(expiresAt) {
		return "", redis.Nil
	}
	return "1", nil
}

func (s *fakeStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func newTestTokenService(t *testing.T) (*TokenService, *fakeStore, *time.Time) {
	t.Helper()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(&clock)
	svc := &TokenService{
		store: store,
		ttl:   60 * time.Second,
		log:   logger.New("disabled", "json"),
		now:   func() time.Time { return clock },
	}
	return svc, store, &clock
}

func TestTokenService_IssueAndCheck(t *testing.T) {
	svc, _, clock := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, token.Token, 64) // 32 random bytes, hex encoded
	assert.Equal(t, clock.Add(60*time.Second), token.ExpiresAt)

	ok, err := svc.Check(ctx, "user-1", token.Token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	svc, _, _ := newTestTokenService(t)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestTokenService_CheckIsPerUser(t *testing.T) {
	svc, _, _ := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)

	ok, err := svc.Check(ctx, "user-2", token.Token)
	require.NoError(t, err)
	assert.False(t, ok)
}

// The token stays valid for its full window and is gone right after,
// with no refresh in between.
func TestTokenService_Expiry(t *testing.T) {
	svc, _, clock := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)

	*clock = clock.Add(30 * time.Second)
	ok, err := svc.Check(ctx, "user-1", token.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	*clock = clock.Add(31 * time.Second)
	ok, err = svc.Check(ctx, "user-1", token.Token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenService_CheckEmptyToken(t *testing.T) {
	svc, _, _ := newTestTokenService(t)

	ok, err := svc.Check(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenService_Revoke(t *testing.T) {
	svc, _, _ := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "user-1", token.Token))

	ok, err := svc.Check(ctx, "user-1", token.Token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionKey_Layout(t *testing.T) {
	key := sessionKey("user-1", "abc123")
	assert.Equal(t, "chatgate:session:user-1:abc123", key)
	assert.True(t, strings.HasPrefix(key, "chatgate:session:"))
}
