package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceCache_LoadMiss(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewBalanceCache(client, time.Minute)

	_, ok, err := cache.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceCache_StoreAndLoad(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewBalanceCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, "s1", 3, decimal.RequireFromString("120.50")))

	balance, ok, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "120.50", balance.StringFixed(2))

	assert.True(t, mr.TTL(cache.prefix+"s1") > 0, "entry has a TTL")
}

func TestBalanceCache_IgnoresOlderVersions(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewBalanceCache(client, 0)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, "s1", 5, decimal.NewFromInt(50)))
	require.NoError(t, cache.Store(ctx, "s1", 4, decimal.NewFromInt(40)))
	require.NoError(t, cache.Store(ctx, "s1", 5, decimal.NewFromInt(41)))

	balance, _, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "50", balance.String())

	require.NoError(t, cache.Store(ctx, "s1", 6, decimal.NewFromInt(60)))

	balance, _, err = cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "60", balance.String())
}

func TestBalanceCache_Expires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewBalanceCache(client, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, "s1", 1, decimal.NewFromInt(1)))
	mr.FastForward(2 * time.Second)

	_, ok, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBalanceCache_CorruptValue(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewBalanceCache(client, 0)
	mr.HSet(cache.prefix+"s1", "b", "not-a-number")

	_, _, err := cache.Load(context.Background(), "s1")
	assert.Error(t, err)
}

func TestBalanceCache_Invalidate(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewBalanceCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, "s1", 7, decimal.NewFromInt(70)))
	require.NoError(t, cache.Invalidate(ctx, "s1"))
	assert.False(t, mr.Exists(cache.prefix+"s1"))

	_, ok, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Invalidate(ctx, "never-cached"))

	require.NoError(t, cache.Store(ctx, "s1", 3, decimal.NewFromInt(30)))
	balance, ok, err := cache.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok, "an invalidated entry accepts any version again")
	assert.Equal(t, "30", balance.String())
}
