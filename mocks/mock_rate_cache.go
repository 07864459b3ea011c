package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/domain"
)

// MockRateCache is a mock implementation of port.RateCache.
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(ctx context.Context, hsn string) (*domain.CacheEntry, bool) {
	args := m.Called(ctx, hsn)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.CacheEntry), args.Bool(1)
}

func (m *MockRateCache) Set(ctx context.Context, hsn string, entry domain.CacheEntry) {
	m.Called(ctx, hsn, entry)
}

func (m *MockRateCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRateCache) Stats(ctx context.Context) (*domain.CacheStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheStats), args.Error(1)
}
