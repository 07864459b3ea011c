package service_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstrate/internal/cache"
	"gstrate/internal/domain"
	"gstrate/internal/hsn"
	"gstrate/internal/metrics"
	"gstrate/internal/port"
	"gstrate/internal/provider"
	"gstrate/internal/service"
	"gstrate/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMockProvider(name string) *mocks.MockRateProvider {
	p := new(mocks.MockRateProvider)
	p.On("Name").Return(name)
	return p
}

func providerEntry(hsn string, rate float64) *domain.HSNRateEntry {
	return &domain.HSNRateEntry{HSN: hsn, Rate: rate, Description: "from api"}
}

func newResolver(clock *fakeClock, providers ...port.RateProvider) service.RateResolver {
	return service.NewRateResolver(service.RateResolverDeps{
		Table:     hsn.Default(),
		Cache:     cache.NewMemoryCache(24*time.Hour, clock.Now),
		Providers: providers,
		Now:       clock.Now,
	})
}

func TestRateResolver_Resolve_NoProvidersUsesTable(t *testing.T) {
	clock := newFakeClock()
	r := newResolver(clock)

	entry, err := r.Resolve(context.Background(), "8471")

	require.NoError(t, err)
	assert.Equal(t, "8471", entry.HSN)
	assert.Equal(t, 18.0, entry.Rate)
	assert.Equal(t, domain.RateSourceTable, entry.Source)
	assert.Equal(t, clock.Now(), entry.ResolvedAt)
}

func TestRateResolver_Resolve_UnknownCodeDefaults(t *testing.T) {
	r := newResolver(newFakeClock())

	entry, err := r.Resolve(context.Background(), "99887766")

	require.NoError(t, err)
	assert.Equal(t, 18.0, entry.Rate)
	assert.Equal(t, "General merchandise", entry.Description)
	assert.Equal(t, domain.RateSourceDefault, entry.Source)
}

func TestRateResolver_Resolve_InvalidHSN(t *testing.T) {
	p := newMockProvider("primary")
	r := newResolver(newFakeClock(), p)

	for _, code := range []string{"12", "abcdefgh", "123456789", ""} {
		entry, err := r.Resolve(context.Background(), code)

		assert.Nil(t, entry)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), "code %q", code)
		assert.Equal(t, "hsn", vErr.Field)
	}
	p.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything)
}

func TestRateResolver_Resolve_FirstProviderWins(t *testing.T) {
	p1 := newMockProvider("primary")
	p2 := newMockProvider("secondary")
	p1.On("FetchRate", mock.Anything, "8471").Return(providerEntry("8471", 12), nil)

	r := newResolver(newFakeClock(), p1, p2)
	entry, err := r.Resolve(context.Background(), "8471")

	require.NoError(t, err)
	assert.Equal(t, 12.0, entry.Rate)
	assert.Equal(t, domain.RateSource("provider:primary"), entry.Source)
	p2.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything)
}

func TestRateResolver_Resolve_FirstFailsSecondSucceeds(t *testing.T) {
	p1 := newMockProvider("primary")
	p2 := newMockProvider("secondary")
	p1.On("FetchRate", mock.Anything, "3004").Return(nil, provider.ErrUnavailable)
	p2.On("FetchRate", mock.Anything, "3004").Return(&domain.HSNRateEntry{Rate: 5}, nil)

	r := newResolver(newFakeClock(), p1, p2)
	entry, err := r.Resolve(context.Background(), "3004")

	require.NoError(t, err)
	assert.Equal(t, 5.0, entry.Rate)
	assert.Equal(t, "3004", entry.HSN)
	assert.Equal(t, "Medicaments", entry.Description, "blank provider description is filled from the table")
	assert.Equal(t, domain.RateSource("provider:secondary"), entry.Source)
	p1.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestRateResolver_Resolve_AllProvidersFail(t *testing.T) {
	p1 := newMockProvider("primary")
	p2 := newMockProvider("secondary")
	p1.On("FetchRate", mock.Anything, "8471").Return(nil, errors.New("dial tcp: connection refused"))
	p2.On("FetchRate", mock.Anything, "8471").Return(nil, provider.ErrMalformedResponse)

	r := newResolver(newFakeClock(), p1, p2)
	entry, err := r.Resolve(context.Background(), "8471")

	require.NoError(t, err)
	assert.Equal(t, 18.0, entry.Rate)
	assert.Equal(t, domain.RateSourceTable, entry.Source)
	p1.AssertNumberOfCalls(t, "FetchRate", 1)
	p2.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestRateResolver_Resolve_NegativeProviderRateIsFailure(t *testing.T) {
	p := newMockProvider("primary")
	p.On("FetchRate", mock.Anything, "4901").Return(providerEntry("4901", -1), nil)

	r := newResolver(newFakeClock(), p)
	entry, err := r.Resolve(context.Background(), "4901")

	require.NoError(t, err)
	assert.Equal(t, 0.0, entry.Rate)
	assert.Equal(t, domain.RateSourceTable, entry.Source)
}

func TestRateResolver_Resolve_CachedWithinTTL(t *testing.T) {
	clock := newFakeClock()
	p := newMockProvider("primary")
	p.On("FetchRate", mock.Anything, "8517").Return(providerEntry("8517", 18), nil)
	r := newResolver(clock, p)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "8517")
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	second, err := r.Resolve(ctx, "8517")
	require.NoError(t, err)

	assert.Equal(t, first.Rate, second.Rate)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, domain.RateSourceCache, second.Source)
	p.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestRateResolver_Resolve_RefreshesAfterTTL(t *testing.T) {
	clock := newFakeClock()
	p := newMockProvider("primary")
	p.On("FetchRate", mock.Anything, "8517").Return(providerEntry("8517", 18), nil).Once()
	p.On("FetchRate", mock.Anything, "8517").Return(providerEntry("8517", 12), nil).Once()
	r := newResolver(clock, p)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "8517")
	require.NoError(t, err)

	clock.Advance(24*time.Hour + time.Second)
	entry, err := r.Resolve(ctx, "8517")

	require.NoError(t, err)
	assert.Equal(t, 12.0, entry.Rate)
	assert.Equal(t, clock.Now(), entry.ResolvedAt)
	p.AssertNumberOfCalls(t, "FetchRate", 2)
}

func TestRateResolver_Resolve_CacheHitSkipsAllIO(t *testing.T) {
	clock := newFakeClock()
	mc := new(mocks.MockRateCache)
	p := newMockProvider("primary")
	cached := &domain.CacheEntry{
		Entry:    domain.HSNRateEntry{HSN: "8471", Rate: 18, Description: "Computers", Source: domain.RateSourceTable},
		CachedAt: clock.Now(),
	}
	mc.On("Get", mock.Anything, "8471").Return(cached, true)

	r := service.NewRateResolver(service.RateResolverDeps{
		Table:     hsn.Default(),
		Cache:     mc,
		Providers: []port.RateProvider{p},
		Now:       clock.Now,
	})
	entry, err := r.Resolve(context.Background(), "8471")

	require.NoError(t, err)
	assert.Equal(t, 18.0, entry.Rate)
	assert.Equal(t, domain.RateSourceCache, entry.Source)
	p.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything)
	mc.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateResolver_Resolve_WritesCacheWithFreshTimestamp(t *testing.T) {
	clock := newFakeClock()
	mc := new(mocks.MockRateCache)
	mc.On("Get", mock.Anything, "4901").Return(nil, false)
	mc.On("Set", mock.Anything, "4901", mock.MatchedBy(func(e domain.CacheEntry) bool {
		return e.CachedAt.Equal(clock.Now()) && e.Entry.Rate == 0 && e.Entry.HSN == "4901"
	})).Return()

	r := service.NewRateResolver(service.RateResolverDeps{Cache: mc, Now: clock.Now})
	_, err := r.Resolve(context.Background(), "4901")

	require.NoError(t, err)
	mc.AssertExpectations(t)
}

func TestRateResolver_Resolve_RateLimitedProviderIsSkipped(t *testing.T) {
	clock := newFakeClock()
	p1 := newMockProvider("primary")
	p2 := newMockProvider("secondary")
	p1.On("FetchRate", mock.Anything, mock.Anything).
		Return(nil, provider.NewRateLimitError("primary", provider.ErrUnavailable, 30))
	p2.On("FetchRate", mock.Anything, mock.Anything).Return(&domain.HSNRateEntry{Rate: 18}, nil)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := service.NewRateResolver(service.RateResolverDeps{
		Table:     hsn.Default(),
		Cache:     cache.NewMemoryCache(24*time.Hour, clock.Now),
		Providers: []port.RateProvider{p1, p2},
		Metrics:   m,
		Now:       clock.Now,
	})
	ctx := context.Background()

	_, err := r.Resolve(ctx, "8471")
	require.NoError(t, err)

	// While the Retry-After window is open the primary is not called.
	clock.Advance(10 * time.Second)
	_, err = r.Resolve(ctx, "8517")
	require.NoError(t, err)
	p1.AssertNumberOfCalls(t, "FetchRate", 1)

	// After it elapses the primary is tried again.
	clock.Advance(30 * time.Second)
	_, err = r.Resolve(ctx, "8528")
	require.NoError(t, err)
	p1.AssertNumberOfCalls(t, "FetchRate", 2)
	p2.AssertNumberOfCalls(t, "FetchRate", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderFailures("primary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderSkips("primary")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Resolutions("provider")))
}

func TestRateResolver_Resolve_HugeRetryAfterStillSkipsProvider(t *testing.T) {
	clock := newFakeClock()
	p1 := newMockProvider("primary")
	p1.On("FetchRate", mock.Anything, mock.Anything).
		Return(nil, provider.NewRateLimitError("primary", provider.ErrUnavailable, math.MaxInt))
	r := newResolver(clock, p1)
	ctx := context.Background()

	_, err := r.Resolve(ctx, "8471")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	entry, err := r.Resolve(ctx, "8517")
	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceTable, entry.Source)
	p1.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestRateResolver_Resolve_CanceledContextFallsBackToTable(t *testing.T) {
	p := newMockProvider("primary")
	p.On("FetchRate", mock.Anything, "8471").Return(nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry, err := newResolver(newFakeClock(), p).Resolve(ctx, "8471")

	require.NoError(t, err)
	assert.Equal(t, domain.RateSourceTable, entry.Source)
}

func TestRateResolver_ResolveCategory(t *testing.T) {
	p := newMockProvider("primary")
	p.On("FetchRate", mock.Anything, "8471").Return(nil, provider.ErrUnavailable)
	r := newResolver(newFakeClock(), p)
	ctx := context.Background()

	entry, err := r.ResolveCategory(ctx, "Laptops")
	require.NoError(t, err)
	assert.Equal(t, "8471", entry.HSN)
	assert.Equal(t, 18.0, entry.Rate)

	entry, err = r.ResolveCategory(ctx, "UnknownCategory")
	require.NoError(t, err)
	assert.Equal(t, domain.PlaceholderHSN, entry.HSN)
	assert.Equal(t, 18.0, entry.Rate)
	assert.Equal(t, domain.RateSourceDefault, entry.Source)
	p.AssertNumberOfCalls(t, "FetchRate", 1)

	_, err = r.ResolveCategory(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRateResolver_ResolveCode_Dispatch(t *testing.T) {
	r := newResolver(newFakeClock())
	ctx := context.Background()

	byCode, err := r.ResolveCode(ctx, "4901")
	require.NoError(t, err)
	assert.Equal(t, 0.0, byCode.Rate)

	byCategory, err := r.ResolveCode(ctx, "Books")
	require.NoError(t, err)
	assert.Equal(t, "4901", byCategory.HSN)
	assert.Equal(t, 0.0, byCategory.Rate)
}

func TestRateResolver_ResolveCode_MalformedDigitsRejected(t *testing.T) {
	p := newMockProvider("primary")
	r := newResolver(newFakeClock(), p)

	for _, code := range []string{"12", "123", "123456789", " 12 "} {
		entry, err := r.ResolveCode(context.Background(), code)

		assert.Nil(t, entry, "code %q", code)
		require.ErrorIs(t, err, domain.ErrValidation, "code %q", code)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "hsn", vErr.Field)
	}
	p.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything)
}

func TestRateResolver_CacheStatsAndClear(t *testing.T) {
	clock := newFakeClock()
	r := newResolver(clock)
	ctx := context.Background()

	_, _ = r.Resolve(ctx, "8471")
	_, _ = r.Resolve(ctx, "4901")

	stats, err := r.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Size)

	require.NoError(t, r.ClearCache(ctx))
	stats, err = r.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Size)
}

func TestRateResolver_CategoryMismatches(t *testing.T) {
	table := hsn.NewTable(
		[]port.HSNEntry{{Code: "8471", Description: "Computers", GSTRate: 18}},
		[]port.CategoryMapping{{Category: "Drones", HSNCode: "8806"}},
	)
	r := service.NewRateResolver(service.RateResolverDeps{
		Table: table,
		Cache: cache.NewMemoryCache(0, nil),
	})

	assert.Equal(t, []hsn.CategoryMismatch{{Category: "Drones", HSNCode: "8806"}}, r.CategoryMismatches())
}
