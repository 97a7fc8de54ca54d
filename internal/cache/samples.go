package cache

import "github.com/demopay/capture-widget/internal/domain"

// DefaultSampleID is the session returned when a lookup cannot be resolved
// from either partition. The demo must stay navigable without a live backend.
const DefaultSampleID = "test-session-1"

// SampleSessions returns the built-in sample sessions. They are always
// resolvable, never persisted, and survive Clear. Callers get fresh copies.
func SampleSessions() map[string]*domain.Session {
	return map[string]*domain.Session{
		"test-session-1": {
			SessionID:    "test-session-1",
			Amount:       5000,
			Currency:     "USD",
			MerchantName: "Test Merchant",
			OrderID:      "ORD-TEST-001",
			Description:  "Test Payment Transaction - $50.00",
			Customer: domain.Customer{
				Name:  "Test User",
				Email: "test@example.com",
			},
		},
		"test-session-2": {
			SessionID:    "test-session-2",
			Amount:       2500,
			Currency:     "USD",
			MerchantName: "Test Merchant",
			OrderID:      "ORD-TEST-002",
			Description:  "Test Payment Transaction - $25.00",
			Customer: domain.Customer{
				Name:  "John Doe",
				Email: "john.doe@example.com",
			},
		},
		"test-session-3": {
			SessionID:    "test-session-3",
			Amount:       10000,
			Currency:     "USD",
			MerchantName: "Test Merchant",
			OrderID:      "ORD-TEST-003",
			Description:  "Test Payment Transaction - $100.00",
			Customer: domain.Customer{
				Name:  "Jane Smith",
				Email: "jane.smith@example.com",
			},
		},
	}
}
