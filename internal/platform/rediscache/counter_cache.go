// Package rediscache provides the Redis implementation of the counter
// cache tier. Keys carry a TTL so abandoned guest sessions age out of the
// cache; the durable tier has no expiry and remains the source of truth.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/deck-api/internal/store"
)

// keyPrefix namespaces counter keys within the Redis keyspace.
const keyPrefix = "credits:"

// tryDecrementScript performs the conditional decrement in one atomic
// round trip: -2 means the key is absent (cache miss), -1 means the
// balance was already zero, any other value is the balance after the
// decrement.
var tryDecrementScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v == false then
  return -2
end
if tonumber(v) <= 0 then
  return -1
end
return redis.call('DECR', KEYS[1])
`)

// incrementScript increments only when the key exists, preserving the
// key's TTL; -2 signals a cache miss.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -2
end
return redis.call('INCR', KEYS[1])
`)

// Connect creates a Redis client from a URL (redis://host:port/db) or a
// bare host:port address and verifies connectivity with a bounded ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// CounterCache implements the store.CounterCache interface on Redis.
type CounterCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCounterCache creates a new Redis implementation of the
// store.CounterCache interface.
// If logger is nil, a default logger will be used.
func NewCounterCache(client *redis.Client, logger *slog.Logger) *CounterCache {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CounterCache{
		client: client,
		logger: logger.With(slog.String("component", "counter_cache")),
	}
}

// Ensure CounterCache implements store.CounterCache interface
var _ store.CounterCache = (*CounterCache)(nil)

// Get implements store.CounterCache.Get
func (c *CounterCache) Get(ctx context.Context, sessionID string) (int, error) {
	credits, err := c.client.Get(ctx, keyPrefix+sessionID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, store.ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("%w: cache get: %v", store.ErrStoreUnavailable, err)
	}

	return credits, nil
}

// Put implements store.CounterCache.Put
func (c *CounterCache) Put(ctx context.Context, sessionID string, credits int, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+sessionID, credits, ttl).Err(); err != nil {
		return fmt.Errorf("%w: cache put: %v", store.ErrStoreUnavailable, err)
	}

	return nil
}

// TryDecrement implements store.CounterCache.TryDecrement using a Lua
// script so the read-check-decrement is a single atomic operation on the
// Redis side.
func (c *CounterCache) TryDecrement(ctx context.Context, sessionID string) (bool, error) {
	result, err := tryDecrementScript.Run(ctx, c.client, []string{keyPrefix + sessionID}).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: cache decrement: %v", store.ErrStoreUnavailable, err)
	}

	switch {
	case result == -2:
		return false, store.ErrCacheMiss
	case result == -1:
		return false, nil
	default:
		return true, nil
	}
}

// Increment implements store.CounterCache.Increment. Missing keys are a
// cache miss rather than an implicit create: incrementing an absent key
// would resurrect a counter without its TTL or durable backing.
func (c *CounterCache) Increment(ctx context.Context, sessionID string) error {
	result, err := incrementScript.Run(ctx, c.client, []string{keyPrefix + sessionID}).Int64()
	if err != nil {
		return fmt.Errorf("%w: cache increment: %v", store.ErrStoreUnavailable, err)
	}
	if result == -2 {
		return store.ErrCacheMiss
	}

	return nil
}
