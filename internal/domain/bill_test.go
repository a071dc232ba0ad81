package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBillItems() []BillItem {
	return []BillItem{
		{ProductID: "PRD-1", Name: "Kettle", PriceTier: PriceTierRetail, UnitPrice: 100, Quantity: 3},
	}
}

// TestNewBill tests bill creation and the remaining balance formula
func TestNewBill(t *testing.T) {
	tests := []struct {
		name              string
		sellerID          string
		items             []BillItem
		discount          float64
		amountPaid        float64
		previousRemaining float64
		expectedTotal     float64
		expectedRemaining float64
		expectError       bool
	}{
		{
			name:              "Remaining carries forward previous balance",
			sellerID:          "SLR-001",
			items:             validBillItems(),
			amountPaid:        100,
			previousRemaining: 50,
			expectedTotal:     300,
			expectedRemaining: 250,
		},
		{
			name:              "Overpayment floors remaining at zero",
			sellerID:          "SLR-001",
			items:             validBillItems(),
			amountPaid:        500,
			previousRemaining: 0,
			expectedTotal:     300,
			expectedRemaining: 0,
		},
		{
			name:              "Discount reduces the total",
			sellerID:          "SLR-001",
			items:             validBillItems(),
			discount:          30,
			amountPaid:        0,
			expectedTotal:     270,
			expectedRemaining: 270,
		},
		{
			name:        "Missing seller rejected",
			sellerID:    "",
			items:       validBillItems(),
			expectError: true,
		},
		{
			name:        "Empty items rejected",
			sellerID:    "SLR-001",
			items:       []BillItem{},
			expectError: true,
		},
		{
			name:     "Zero quantity rejected",
			sellerID: "SLR-001",
			items: []BillItem{
				{ProductID: "PRD-1", UnitPrice: 100, Quantity: 0},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := BillCustomer{Name: "Ayesha"}
			bill, err := NewBill("EM-0001", tt.sellerID, customer, tt.items, tt.discount, tt.amountPaid, tt.previousRemaining)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, bill)
			} else {
				require.NoError(t, err)
				require.NotNil(t, bill)
				assert.NotEmpty(t, bill.BillID)
				assert.Equal(t, "EM-0001", bill.BillNumber)
				assert.Equal(t, tt.expectedTotal, bill.Total)
				assert.Equal(t, tt.expectedRemaining, bill.RemainingAmount)
				assert.Equal(t, BillStatusCompleted, bill.Status)
				assert.NotEmpty(t, bill.CorrelationID)
				assert.Len(t, bill.DomainEvents(), 1)
			}
		})
	}
}

// TestBillAddPayment tests appending payments
func TestBillAddPayment(t *testing.T) {
	bill, err := NewBill("EM-0002", "SLR-001", BillCustomer{Name: "Ayesha"}, validBillItems(), 0, 100, 0)
	require.NoError(t, err)
	require.Equal(t, 200.0, bill.RemainingAmount)
	bill.ClearDomainEvents()

	err = bill.AddPayment(50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, bill.AmountPaid)
	assert.Equal(t, 150.0, bill.RemainingAmount)
	assert.Len(t, bill.Payments, 2)
	assert.Len(t, bill.DomainEvents(), 1)

	// Overpayment floors at zero
	err = bill.AddPayment(500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill.RemainingAmount)

	// Non-positive amounts rejected
	assert.Equal(t, ErrInvalidPayment, bill.AddPayment(0))
	assert.Equal(t, ErrInvalidPayment, bill.AddPayment(-10))

	// Cancelled bills take no payments
	bill.Status = BillStatusCancelled
	assert.Equal(t, ErrBillCancelled, bill.AddPayment(10))
}

// TestBillCancel tests cancellation and the stock restore decision
func TestBillCancel(t *testing.T) {
	tests := []struct {
		name            string
		status          BillStatus
		expectedRestore bool
		expectError     bool
	}{
		{
			name:            "Cancelling a completed bill restores stock",
			status:          BillStatusCompleted,
			expectedRestore: true,
		},
		{
			name:            "Cancelling a pending bill restores nothing",
			status:          BillStatusPending,
			expectedRestore: false,
		},
		{
			name:        "Cancelling twice fails",
			status:      BillStatusCancelled,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, err := NewBill("EM-0003", "SLR-001", BillCustomer{Name: "Ayesha"}, validBillItems(), 0, 0, 0)
			require.NoError(t, err)
			bill.Status = tt.status

			restore, err := bill.Cancel()

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRestore, restore)
				assert.Equal(t, BillStatusCancelled, bill.Status)
			}
		})
	}
}

// TestBillReplaceItems tests item replacement and total recomputation
func TestBillReplaceItems(t *testing.T) {
	bill, err := NewBill("EM-0004", "SLR-001", BillCustomer{Name: "Ayesha"}, validBillItems(), 0, 300, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, bill.RemainingAmount)

	// Raise quantity from 3 to 5: total grows by 200, all of it unpaid
	err = bill.ReplaceItems([]BillItem{
		{ProductID: "PRD-1", Name: "Kettle", PriceTier: PriceTierRetail, UnitPrice: 100, Quantity: 5},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 500.0, bill.Total)
	assert.Equal(t, 200.0, bill.RemainingAmount)

	// Empty replacement rejected
	assert.Equal(t, ErrNoBillItems, bill.ReplaceItems(nil, 0))
}

// TestBillQuantityAndPlans tests the commission base and stock plans
func TestBillQuantityAndPlans(t *testing.T) {
	items := []BillItem{
		{ProductID: "PRD-1", UnitPrice: 100, Quantity: 3},
		{ProductID: "PRD-2", UnitPrice: 50, Quantity: 2},
	}
	bill, err := NewBill("EM-0005", "SLR-001", BillCustomer{Name: "Ayesha"}, items, 0, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 5, bill.TotalQuantity())

	consumption := bill.ConsumptionPlan()
	require.Len(t, consumption, 2)
	assert.Equal(t, StockDelta{ProductID: "PRD-1", Delta: 3}, consumption[0])
	assert.Equal(t, StockDelta{ProductID: "PRD-2", Delta: 2}, consumption[1])

	restoration := bill.RestorationPlan()
	require.Len(t, restoration, 2)
	assert.Equal(t, StockDelta{ProductID: "PRD-1", Delta: -3}, restoration[0])
	assert.Equal(t, StockDelta{ProductID: "PRD-2", Delta: -2}, restoration[1])
}

// TestBillStatusIsValid tests bill status validation
func TestBillStatusIsValid(t *testing.T) {
	assert.True(t, BillStatusPending.IsValid())
	assert.True(t, BillStatusCompleted.IsValid())
	assert.True(t, BillStatusCancelled.IsValid())
	assert.False(t, BillStatus("draft").IsValid())
}
