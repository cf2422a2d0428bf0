package cache

import (
	"context"
	"sync"
	"time"

	"github.com/talentforge/payroll-fx/internal/core/domain"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
)

// entry is a cached resolved rate with its insertion time.
type entry struct {
	rate     domain.ResolvedRate
	cachedAt time.Time
}

// MemoryRateCache is a thread-safe, process-local TTL cache for resolved
// rates. It is the default RateCache backend; it is not shared across
// service instances.
type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	hits    int64
	misses  int64
}

var _ portssvc.RateCache = (*MemoryRateCache)(nil)

// NewMemoryRateCache creates an in-process rate cache with the given TTL.
func NewMemoryRateCache(ttl time.Duration) *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get returns the cached rate for key if present and unexpired.
func (c *MemoryRateCache) Get(_ context.Context, key string) (*domain.ResolvedRate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Since(e.cachedAt) > c.ttl {
		if ok {
			delete(c.entries, key)
		}
		c.misses++
		return nil, false
	}

	c.hits++
	rate := e.rate
	return &rate, true
}

// Set stores a resolved rate under key. Concurrent writers race last-write-wins,
// which is acceptable since all values derive from the same store state.
func (c *MemoryRateCache) Set(_ context.Context, key string, rate domain.ResolvedRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{rate: rate, cachedAt: time.Now()}
}

// Invalidate drops the cached entry for key, if any.
func (c *MemoryRateCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear drops all entries. Hit/miss counters are preserved.
func (c *MemoryRateCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Stats reports the live key count and cumulative hit/miss counters.
func (c *MemoryRateCache) Stats(_ context.Context) portssvc.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return portssvc.CacheStats{
		Keys:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
}
