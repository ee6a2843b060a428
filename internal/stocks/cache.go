package stocks

import (
	"context"
	"sync"
	"time"

	"StockDesk/internal/model"
)

type cacheEntry struct {
	value      *model.StockDetail
	insertedAt time.Time
}

// CacheStats are cumulative hit/miss counters, exposed for health reporting.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// DetailCache bounds store traffic with one TTL-stamped entry per symbol.
// Staleness is checked lazily at access time; there is no background
// sweeper. The clock is injected so tests can drive time directly.
//
// Entries assume a single logical writer per symbol (the cooperative caller
// model); the mutex only protects the map itself.
type DetailCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	stats   CacheStats
}

// NewDetailCache creates a cache with the given TTL. A nil clock defaults to
// time.Now.
func NewDetailCache(ttl time.Duration, now func() time.Time) *DetailCache {
	if now == nil {
		now = time.Now
	}
	return &DetailCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// GetOrLoad returns the cached detail for symbol when it is still within the
// TTL, without touching the loader. Otherwise any stale entry is evicted and
// the loader runs: its result is stamped with the current time and cached on
// success, while failures are never cached so the next call retries. A load
// whose context is canceled by the time it completes is discarded rather
// than cached or returned; the caller has moved on.
func (c *DetailCache) GetOrLoad(ctx context.Context, symbol string, load func(context.Context) (*model.StockDetail, error)) (*model.StockDetail, error) {
	c.mu.Lock()
	if e, ok := c.entries[symbol]; ok {
		if c.now().Sub(e.insertedAt) <= c.ttl {
			c.stats.Hits++
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, symbol)
	}
	c.stats.Misses++
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[symbol] = cacheEntry{value: v, insertedAt: c.now()}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops the entry for symbol, forcing the next read to reload.
func (c *DetailCache) Invalidate(symbol string) {
	c.mu.Lock()
	delete(c.entries, symbol)
	c.mu.Unlock()
}

// Stats returns a snapshot of the hit/miss counters.
func (c *DetailCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
