package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))

	listed, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "short", time.Millisecond))
	require.NoError(t, blacklist.AddToBlacklist(ctx, "already-expired", 0))
	time.Sleep(10 * time.Millisecond)

	listed, err := blacklist.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, listed)

	listed, err = blacklist.IsBlacklisted(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestRedisTokenBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	blacklist := NewRedisTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("token:blacklist:jti:jti-1"))

	listed, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, listed)

	mr.FastForward(2 * time.Minute)

	listed, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestRedisTokenBlacklist_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisTokenBlacklist(client).IsBlacklisted(context.Background(), "x")
	assert.ErrorContains(t, err, "failed to check token blacklist")
}
