package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/domain"
	"gstrate/internal/hsn"
)

// MockRateResolver is a mock implementation of service.RateResolver.
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, code string) (*domain.HSNRateEntry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HSNRateEntry), args.Error(1)
}

func (m *MockRateResolver) ResolveCategory(ctx context.Context, category string) (*domain.HSNRateEntry, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HSNRateEntry), args.Error(1)
}

func (m *MockRateResolver) ResolveCode(ctx context.Context, hsnOrCategory string) (*domain.HSNRateEntry, error) {
	args := m.Called(ctx, hsnOrCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HSNRateEntry), args.Error(1)
}

func (m *MockRateResolver) CacheStats(ctx context.Context) (*domain.CacheStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CacheStats), args.Error(1)
}

func (m *MockRateResolver) ClearCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRateResolver) CategoryMismatches() []hsn.CategoryMismatch {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]hsn.CategoryMismatch)
}
