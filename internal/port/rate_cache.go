package port

import (
	"context"

	"gstrate/internal/domain"
)

// RateCache memoizes resolved rates by HSN code. Get returns only entries that
// have not expired; expired entries are left in place until overwritten.
type RateCache interface {
	Get(ctx context.Context, hsn string) (*domain.CacheEntry, bool)
	Set(ctx context.Context, hsn string, entry domain.CacheEntry)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*domain.CacheStats, error)
}
