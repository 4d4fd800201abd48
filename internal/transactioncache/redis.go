// Package transactioncache caches immutable transactions in Redis.
package transactioncache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/domain"
)

const keyPrefix = "transaction:"

// RedisCache is a best-effort read-through cache for transaction
// lookups. Transactions never change after creation, so cached entries
// can never go stale; the TTL only bounds memory use.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a transaction cache over the given Redis client.
func New(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached transaction, if any. Cache failures report a
// miss so the caller falls through to the repository.
func (c *RedisCache) Get(ctx context.Context, id string) (domain.Transaction, bool) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	val, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			l.Warn().Err(err).Msg("transaction cache read failed")
		}

		return t, false
	}

	if err := json.Unmarshal(val, &t); err != nil {
		l.Warn().Err(err).Msg("transaction cache entry malformed")
		return domain.Transaction{}, false
	}

	return t, true
}

// Set stores the transaction. Failures are logged and swallowed.
func (c *RedisCache) Set(ctx context.Context, transaction domain.Transaction) {
	l := zerolog.Ctx(ctx)

	val, err := json.Marshal(transaction)
	if err != nil {
		l.Warn().Err(err).Msg("transaction cache encode failed")
		return
	}

	if err := c.client.Set(ctx, keyPrefix+transaction.ID, val, c.ttl).Err(); err != nil {
		l.Warn().Err(err).Msg("transaction cache write failed")
	}
}
