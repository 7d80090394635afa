package search

import (
	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	mock.Mock
}

// Match provides a mock function with given fields: order, query.
func (m *MockProvider) Match(order domain.Order, query string) bool {
	ret := m.Called(order, query)
	return ret.Bool(0)
}

// Name provides a mock function with no fields.
func (m *MockProvider) Name() string {
	ret := m.Called()
	return ret.String(0)
}
