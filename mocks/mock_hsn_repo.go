package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/port"
)

// MockHSNRepository is a mock implementation of port.HSNRepository.
type MockHSNRepository struct {
	mock.Mock
}

func (m *MockHSNRepository) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.HSNEntry), args.Error(1)
}

// MockCategoryRepository is a mock implementation of port.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) LoadAll(ctx context.Context) ([]port.CategoryMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.CategoryMapping), args.Error(1)
}
