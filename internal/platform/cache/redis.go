package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
)

// redisKeyPrefix namespaces resolution-cache keys in a shared Redis instance.
const redisKeyPrefix = "fx:rate:"

// RedisRateCache is a RateCache backed by a shared Redis instance, for
// horizontally scaled deployments where an in-process cache would let
// instances observe stale rates after an update elsewhere. TTL is enforced
// server-side; hit/miss counters are per-process.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

var _ portssvc.RateCache = (*RedisRateCache)(nil)

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// NewRedisRateCache creates a Redis-backed rate cache with the given TTL.
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{client: client, ttl: ttl}
}

// Get returns the cached rate for key if present and unexpired.
// Redis failures degrade to a miss so resolution falls through to the store.
func (c *RedisRateCache) Get(ctx context.Context, key string) (*domain.ResolvedRate, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		c.misses.Add(1)
		return nil, false
	}

	var rate domain.ResolvedRate
	if err := json.Unmarshal(payload, &rate); err != nil {
		slog.Warn("Rate cache entry corrupt, dropping", slog.String("key", key), slog.String("error", err.Error()))
		c.client.Del(ctx, redisKeyPrefix+key)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return &rate, true
}

// Set stores a resolved rate under key with the configured TTL.
func (c *RedisRateCache) Set(ctx context.Context, key string, rate domain.ResolvedRate) {
	payload, err := json.Marshal(rate)
	if err != nil {
		slog.Warn("Rate cache marshal failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached entry for key, if any.
func (c *RedisRateCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		slog.Warn("Rate cache invalidate failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Clear drops all resolution-cache entries under the key prefix.
func (c *RedisRateCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Rate cache clear failed", slog.String("error", err.Error()))
	}
}

// Stats reports the live key count and this process's hit/miss counters.
func (c *RedisRateCache) Stats(ctx context.Context) portssvc.CacheStats {
	keys := 0
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys++
	}

	return portssvc.CacheStats{
		Keys:   keys,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
