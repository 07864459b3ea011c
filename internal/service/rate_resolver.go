package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"gstrate/internal/domain"
	"gstrate/internal/hsn"
	"gstrate/internal/metrics"
	"gstrate/internal/port"
	"gstrate/internal/provider"
	"gstrate/internal/validator"
)

// RateResolver resolves the best available GST rate for an HSN code or
// product category. Provider failures never surface; only malformed input
// is returned as a *domain.ValidationError.
type RateResolver interface {
	Resolve(ctx context.Context, code string) (*domain.HSNRateEntry, error)
	ResolveCategory(ctx context.Context, category string) (*domain.HSNRateEntry, error)
	// ResolveCode accepts either an HSN code or a category name.
	ResolveCode(ctx context.Context, hsnOrCategory string) (*domain.HSNRateEntry, error)
	CacheStats(ctx context.Context) (*domain.CacheStats, error)
	ClearCache(ctx context.Context) error
	CategoryMismatches() []hsn.CategoryMismatch
}

// RateResolverDeps holds the collaborators of a RateResolver. Providers are
// tried in order; the table is the implicit last step.
type RateResolverDeps struct {
	Table     *hsn.Table
	Cache     port.RateCache
	Providers []port.RateProvider
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

type rateResolver struct {
	table     *hsn.Table
	cache     port.RateCache
	providers []port.RateProvider
	circuits  []*circuitState
	metrics   *metrics.Metrics
	validate  *validator.Validator
	now       func() time.Time
}

// NewRateResolver creates a RateResolver. A nil table uses the compiled-in
// table and a nil clock uses time.Now.
func NewRateResolver(deps RateResolverDeps) RateResolver {
	table := deps.Table
	if table == nil {
		table = hsn.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	circuits := make([]*circuitState, len(deps.Providers))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &rateResolver{
		table:     table,
		cache:     deps.Cache,
		providers: deps.Providers,
		circuits:  circuits,
		metrics:   deps.Metrics,
		validate:  validator.New(),
		now:       now,
	}
}

func (r *rateResolver) Resolve(ctx context.Context, code string) (*domain.HSNRateEntry, error) {
	code = strings.TrimSpace(code)
	if err := r.validate.HSN(code); err != nil {
		return nil, err
	}

	if cached, ok := r.cache.Get(ctx, code); ok {
		entry := cached.Entry
		entry.Source = domain.RateSourceCache
		r.metrics.ObserveResolution(domain.RateSourceCache)
		return &entry, nil
	}

	entry := r.fromProviders(ctx, code)
	if entry == nil {
		fallback := r.table.Lookup(code)
		entry = &fallback
	}
	now := r.now()
	entry.ResolvedAt = now

	r.cache.Set(ctx, code, domain.CacheEntry{Entry: *entry, CachedAt: now})
	r.metrics.ObserveResolution(entry.Source)
	return entry, nil
}

// fromProviders returns the first successful provider answer, or nil when
// every provider failed or was skipped. Each provider is tried at most once.
func (r *rateResolver) fromProviders(ctx context.Context, code string) *domain.HSNRateEntry {
	now := r.now()
	for i, p := range r.providers {
		if resetAt, open := r.circuits[i].isOpenWithReset(now); open {
			log.Printf("service.RateResolver: skipping %s (rate limited until %s)", p.Name(), resetAt.Format(time.RFC3339))
			r.metrics.ObserveProviderSkip(p.Name())
			continue
		}

		entry, err := p.FetchRate(ctx, code)
		if err == nil && entry != nil && entry.Rate >= 0 {
			entry.HSN = code
			if entry.Source == "" {
				entry.Source = domain.ProviderSource(p.Name())
			}
			if entry.Description == "" {
				entry.Description = r.table.Lookup(code).Description
			}
			return entry
		}
		if err == nil {
			err = provider.ErrMalformedResponse
		}

		log.Printf("WARN: service.RateResolver: provider %s failed for %s: %v", p.Name(), code, err)
		r.metrics.ObserveProviderFailure(p.Name())

		var rlErr *provider.RateLimitError
		if errors.As(err, &rlErr) {
			r.circuits[i].open(now.Add(rlErr.RetryAfter))
		}
	}
	return nil
}

func (r *rateResolver) ResolveCategory(ctx context.Context, category string) (*domain.HSNRateEntry, error) {
	if err := r.validate.Category(category); err != nil {
		return nil, err
	}

	code, ok := r.table.CategoryHSN(category)
	if !ok || !validator.IsHSN(code) {
		if ok {
			log.Printf("service.RateResolver: category %q maps to malformed HSN %q, using table default", category, code)
		}
		entry := r.table.LookupByCategory(category)
		entry.ResolvedAt = r.now()
		r.metrics.ObserveResolution(entry.Source)
		return &entry, nil
	}
	return r.Resolve(ctx, code)
}

// ResolveCode treats any all-digit input as an HSN code so malformed codes
// are rejected instead of resolving as an unknown category.
func (r *rateResolver) ResolveCode(ctx context.Context, hsnOrCategory string) (*domain.HSNRateEntry, error) {
	if validator.LooksLikeHSN(strings.TrimSpace(hsnOrCategory)) {
		return r.Resolve(ctx, hsnOrCategory)
	}
	return r.ResolveCategory(ctx, hsnOrCategory)
}

func (r *rateResolver) CacheStats(ctx context.Context) (*domain.CacheStats, error) {
	return r.cache.Stats(ctx)
}

func (r *rateResolver) ClearCache(ctx context.Context) error {
	return r.cache.Clear(ctx)
}

func (r *rateResolver) CategoryMismatches() []hsn.CategoryMismatch {
	return r.table.ValidateCategories()
}
