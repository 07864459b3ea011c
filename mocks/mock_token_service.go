package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"gstrate/internal/auth"
)

// MockTokenService is a mock implementation of auth.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueToken(subject, role string, ttl time.Duration) (string, error) {
	args := m.Called(subject, role, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*auth.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}
