package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tyreledger/tyreledger/internal/ledger"
)

const cacheVersionKey = "accounts:version"

// Cache keeps reconciled account lists in Redis behind a version counter.
// Invalidate bumps the version so stale keys age out via TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Invalidate bumps the cache version.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

// Reconciled loads the cached reconciled list for an account type, filling it
// from loader on miss. Redis failures degrade to a direct load.
func (c *Cache) Reconciled(ctx context.Context, accountType ledger.AccountType, loader func(context.Context) ([]Reconciled, error)) ([]Reconciled, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	ver, err := c.version(ctx)
	if err != nil {
		return loader(ctx)
	}
	key := fmt.Sprintf("accounts:reconciled:%s:%d", accountType, ver)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Reconciled
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	return value, nil
}
