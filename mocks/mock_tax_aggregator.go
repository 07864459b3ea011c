package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/domain"
)

// MockTaxAggregator is a mock implementation of service.TaxAggregator.
type MockTaxAggregator struct {
	mock.Mock
}

func (m *MockTaxAggregator) Aggregate(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdown, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxBreakdown), args.Error(1)
}

func (m *MockTaxAggregator) CalculateOrderGST(ctx context.Context, lines []domain.OrderLine) (float64, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTaxAggregator) GetGSTBreakdown(ctx context.Context, lines []domain.OrderLine) (*domain.TaxBreakdownView, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxBreakdownView), args.Error(1)
}

func (m *MockTaxAggregator) PriceOrder(ctx context.Context, lines []domain.OrderLine, supply domain.SupplyType) (*domain.OrderPricing, error) {
	args := m.Called(ctx, lines, supply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderPricing), args.Error(1)
}
