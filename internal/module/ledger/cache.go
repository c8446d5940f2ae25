package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	balanceKeyPrefix = "pictora:balance:"
	balanceTTL       = 30 * time.Second
)

// BalanceCache is a short-TTL read cache for balances. It is advisory
// only; debits always hit the database and invalidate the key.
type BalanceCache struct {
	client *redis.Client
}

// NewBalanceCache creates a balance cache.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

func balanceKey(uid string) string {
	return balanceKeyPrefix + uid
}

// Get returns the cached balance, or found=false on miss or error.
func (c *BalanceCache) Get(ctx context.Context, uid string) (balance int64, found bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, balanceKey(uid)).Result()
	if err != nil {
		return 0, false
	}
	balance, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

// Set stores the balance for a short window.
func (c *BalanceCache) Set(ctx context.Context, uid string, balance int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, balanceKey(uid), fmt.Sprintf("%d", balance), balanceTTL)
}

// Invalidate drops the cached balance after a write.
func (c *BalanceCache) Invalidate(ctx context.Context, uid string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, balanceKey(uid))
}
