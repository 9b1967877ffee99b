package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// storeBalanceScript writes the balance only when its version is newer than
// the cached one, so a slow writer cannot overwrite a later balance.
var storeBalanceScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'v')
if current and tonumber(current) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'b', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// BalanceCache implements usecase.BalanceCache using Redis hashes.
type BalanceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewBalanceCache creates a new BalanceCache. A zero ttl keeps entries until
// they are overwritten.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balance:",
		ttl:    ttl,
	}
}

// Load returns the cached balance and whether there was one.
func (c *BalanceCache) Load(ctx context.Context, sellerID string) (decimal.Decimal, bool, error) {
	raw, err := c.client.HGet(ctx, c.prefix+sellerID, "b").Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance for %s: %w", sellerID, err)
	}

	return balance, true, nil
}

// Invalidate deletes the seller's entry. Deleting a missing entry is not an
// error.
func (c *BalanceCache) Invalidate(ctx context.Context, sellerID string) error {
	return c.client.Del(ctx, c.prefix+sellerID).Err()
}

// Store caches balance at version unless a newer version is cached.
func (c *BalanceCache) Store(ctx context.Context, sellerID string, version int64, balance decimal.Decimal) error {
	return storeBalanceScript.Run(ctx, c.client,
		[]string{c.prefix + sellerID},
		strconv.FormatInt(version, 10),
		balance.String(),
		c.ttl.Milliseconds(),
	).Err()
}
