package domain_test

import (
	"testing"

	"github.com/demopay/capture-widget/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	customer := domain.Customer{Name: "Jane Doe", Email: "jane.doe@example.com"}

	t.Run("creates session successfully", func(t *testing.T) {
		sess, err := domain.NewSession("sess-1", 5000, "USD", "Test Merchant", "ORD-1", customer)

		require.NoError(t, err)
		assert.Equal(t, "sess-1", sess.SessionID)
		assert.Equal(t, int64(5000), sess.Amount)
		assert.Equal(t, "USD", sess.Currency)
		assert.Equal(t, "Test Merchant", sess.MerchantName)
		assert.Equal(t, "ORD-1", sess.OrderID)
		assert.Equal(t, customer, sess.Customer)
	})

	t.Run("rejects empty session ID", func(t *testing.T) {
		_, err := domain.NewSession("", 5000, "USD", "Test Merchant", "ORD-1", customer)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "session ID is required")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := domain.NewSession("sess-1", 0, "USD", "Test Merchant", "ORD-1", customer)
		assert.Error(t, err)

		_, err = domain.NewSession("sess-1", -100, "USD", "Test Merchant", "ORD-1", customer)
		assert.Error(t, err)
	})

	t.Run("rejects malformed currency codes", func(t *testing.T) {
		for _, currency := range []string{"", "US", "USDD", "usd", "U5D"} {
			_, err := domain.NewSession("sess-1", 5000, currency, "Test Merchant", "ORD-1", customer)
			assert.Error(t, err, "currency %q", currency)
		}
	})
}
