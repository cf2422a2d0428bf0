package services

import (
	"context"
	"fmt"

	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// CacheStats reports resolution-cache counters for introspection endpoints.
type CacheStats struct {
	Keys   int   `json:"keys"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// RateCache fronts the rate store for repeated resolutions of the same
// (organization, pair) key. Implementations are TTL-bounded and may be
// process-local or backed by a shared store; the resolver does not care.
// It is not a write-through cache: rate mutations call Invalidate.
type RateCache interface {
	Get(ctx context.Context, key string) (*domain.ResolvedRate, bool)
	Set(ctx context.Context, key string, rate domain.ResolvedRate)
	Invalidate(ctx context.Context, key string)
	Clear(ctx context.Context)
	Stats(ctx context.Context) CacheStats
}

// RateCacheKey builds the cache key for a pair. The key deliberately omits
// the as-of date: only as-of-now resolutions are cached, historical lookups
// bypass the cache entirely.
func RateCacheKey(organizationID, fromCurrencyCode, toCurrencyCode string) string {
	return fmt.Sprintf("%s:%s:%s", organizationID, fromCurrencyCode, toCurrencyCode)
}
