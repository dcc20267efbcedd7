package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/pkg/config"
)

func TestMemoryTokens(t *testing.T) {
	tokens := NewMemoryTokens()
	ctx := context.Background()

	_, ok, err := tokens.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tokens.Save(ctx, "tok-1", 42))
	userID, ok, err := tokens.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestMemoryTokensExpire(t *testing.T) {
	tokens := NewMemoryTokens()
	ctx := context.Background()

	now := time.Now()
	tokens.now = func() time.Time { return now }
	require.NoError(t, tokens.Save(ctx, "tok-1", 42))

	tokens.now = func() time.Time { return now.Add(tokenTTL + time.Minute) }
	_, ok, err := tokens.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok, "expired tokens are rejected")
}

func newRedisTokens(t *testing.T) (*RedisTokens, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	tokens := NewRedisTokens(&config.RedisConfig{Addr: mr.Addr(), PoolSize: 2})
	t.Cleanup(func() { tokens.Close() })
	return tokens, mr
}

func TestRedisTokens(t *testing.T) {
	tokens, _ := newRedisTokens(t)
	ctx := context.Background()

	require.NoError(t, tokens.Ping(ctx))

	_, ok, err := tokens.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tokens.Save(ctx, "tok-1", 42))
	userID, ok, err := tokens.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestRedisTokensExpire(t *testing.T) {
	tokens, mr := newRedisTokens(t)
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, "tok-1", 42))
	assert.True(t, mr.Exists("session:tok-1"))

	mr.FastForward(tokenTTL + time.Minute)

	_, ok, err := tokens.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServerWithRedisTokens(t *testing.T) {
	tokens, _ := newRedisTokens(t)
	ctx := context.Background()

	store := NewStore()
	store.Seed()
	user, err := store.CreateUser("alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, tokens.Save(ctx, "tok-redis", user.UserID))

	userID, ok, err := tokens.Lookup(ctx, "tok-redis")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.UserID, userID)
}
