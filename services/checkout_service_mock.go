package services

import (
	"fmt"
	"sync"
)

// MockCheckoutService is a mock implementation of CheckoutInterface for testing
type MockCheckoutService struct {
	sessions []MockCheckoutCall
	fail     bool
	mu       sync.RWMutex
}

// MockCheckoutCall records the arguments of one CreateSession call
type MockCheckoutCall struct {
	Items         []CheckoutItem
	CustomerEmail string
}

// NewMockCheckoutService creates a new mock checkout service
func NewMockCheckoutService() *MockCheckoutService {
	return &MockCheckoutService{}
}

// Fail makes every subsequent CreateSession return an error
func (m *MockCheckoutService) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = true
}

// CreateSession records the call and returns a canned session
func (m *MockCheckoutService) CreateSession(items []CheckoutItem, customerEmail string) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return nil, fmt.Errorf("mock checkout failure")
	}

	m.sessions = append(m.sessions, MockCheckoutCall{Items: items, CustomerEmail: customerEmail})
	return &CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", len(m.sessions)),
		URL: "https://checkout.stripe.com/c/pay/cs_test",
	}, nil
}

// Calls returns the recorded CreateSession calls
func (m *MockCheckoutService) Calls() []MockCheckoutCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCheckoutCall, len(m.sessions))
	copy(calls, m.sessions)
	return calls
}
