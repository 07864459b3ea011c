package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/domain"
)

// MockRateProvider is a mock implementation of port.RateProvider.
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRateProvider) FetchRate(ctx context.Context, hsn string) (*domain.HSNRateEntry, error) {
	args := m.Called(ctx, hsn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HSNRateEntry), args.Error(1)
}
