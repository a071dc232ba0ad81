package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeller(t *testing.T) {
	tests := []struct {
		name           string
		commissionRate float64
		basicSalary    float64
		expectError    bool
	}{
		{
			name:           "Valid seller",
			commissionRate: 25,
			basicSalary:    30000,
			expectError:    false,
		},
		{
			name:           "Zero rate is allowed",
			commissionRate: 0,
			basicSalary:    30000,
			expectError:    false,
		},
		{
			name:           "Negative rate rejected",
			commissionRate: -1,
			basicSalary:    30000,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seller, err := NewSeller("Kasun Perera", "0771234567", tt.commissionRate, tt.basicSalary)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidCommissionRate)
				assert.Nil(t, seller)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, seller.SellerID, "SLR-")
			assert.Equal(t, tt.commissionRate, seller.CommissionRate)
			assert.Zero(t, seller.Commission)
			assert.Equal(t, tt.basicSalary, seller.Total)
			require.Len(t, seller.DomainEvents(), 1)
			assert.Equal(t, "seller.created", seller.DomainEvents()[0].EventType())
		})
	}
}

func TestSellerCommissionFor(t *testing.T) {
	seller, err := NewSeller("Kasun Perera", "", 25, 30000)
	require.NoError(t, err)

	assert.Equal(t, 0.0, seller.CommissionFor(0))
	assert.Equal(t, 25.0, seller.CommissionFor(1))
	assert.Equal(t, 125.0, seller.CommissionFor(5))
}

func TestSellerUpdateDetails(t *testing.T) {
	seller, err := NewSeller("Kasun Perera", "", 25, 30000)
	require.NoError(t, err)
	seller.Commission = 500

	require.NoError(t, seller.UpdateDetails("Kasun Perera", "0770000000", 40, 32000))

	assert.Equal(t, 40.0, seller.CommissionRate)
	// The running balance survives a rate change; only future accruals
	// use the new rate
	assert.Equal(t, 500.0, seller.Commission)
	assert.Equal(t, 32500.0, seller.Total)

	assert.ErrorIs(t, seller.UpdateDetails("Kasun Perera", "", -5, 32000), ErrInvalidCommissionRate)
}

func TestSellerRecomputeTotal(t *testing.T) {
	seller, err := NewSeller("Kasun Perera", "", 25, 30000)
	require.NoError(t, err)

	seller.Commission = 750
	seller.RecomputeTotal()

	assert.Equal(t, 30750.0, seller.Total)
}
