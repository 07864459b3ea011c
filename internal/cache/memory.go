// Package cache provides RateCache implementations.
package cache

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"gstrate/internal/domain"
)

// DefaultTTL is how long a resolved rate stays fresh.
const DefaultTTL = 24 * time.Hour

// MemoryCache is an in-process RateCache. Expiry is evaluated against the
// injected clock on read; stale entries stay in the store until the next
// write for the same code replaces them.
type MemoryCache struct {
	store *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache creates a MemoryCache. A zero ttl uses DefaultTTL and a nil
// clock uses time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		// No library-level expiry and no janitor: freshness is decided by ttl and now.
		store: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		now:   now,
	}
}

func (c *MemoryCache) Get(_ context.Context, hsn string) (*domain.CacheEntry, bool) {
	v, ok := c.store.Get(hsn)
	if !ok {
		return nil, false
	}
	entry := v.(domain.CacheEntry)
	if entry.Expired(c.now(), c.ttl) {
		return nil, false
	}
	return &entry, true
}

func (c *MemoryCache) Set(_ context.Context, hsn string, entry domain.CacheEntry) {
	c.store.Set(hsn, entry, gocache.NoExpiration)
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.store.Flush()
	return nil
}

func (c *MemoryCache) Stats(_ context.Context) (*domain.CacheStats, error) {
	items := c.store.Items()
	stats := &domain.CacheStats{
		Size:    len(items),
		Entries: make([]domain.CacheStatsEntry, 0, len(items)),
	}
	for hsn, item := range items {
		entry := item.Object.(domain.CacheEntry)
		stats.Entries = append(stats.Entries, domain.CacheStatsEntry{HSN: hsn, CachedAt: entry.CachedAt})
	}
	sortStats(stats)
	return stats, nil
}

func sortStats(stats *domain.CacheStats) {
	sort.Slice(stats.Entries, func(i, j int) bool { return stats.Entries[i].HSN < stats.Entries[j].HSN })
}
