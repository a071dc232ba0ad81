package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizeProductLines tests deduplication and validation
func TestNormalizeProductLines(t *testing.T) {
	tests := []struct {
		name        string
		lines       []ProductLine
		expected    []ProductLine
		expectError bool
	}{
		{
			name: "Distinct lines pass through",
			lines: []ProductLine{
				{ProductID: "PRD-1", Name: "Kettle", Quantity: 2},
				{ProductID: "PRD-2", Name: "Pan", Quantity: 1},
			},
			expected: []ProductLine{
				{ProductID: "PRD-1", Name: "Kettle", Quantity: 2},
				{ProductID: "PRD-2", Name: "Pan", Quantity: 1},
			},
		},
		{
			name: "Repeated product ids are summed",
			lines: []ProductLine{
				{ProductID: "PRD-1", Name: "Kettle", Quantity: 2},
				{ProductID: "PRD-2", Name: "Pan", Quantity: 1},
				{ProductID: "PRD-1", Name: "Kettle", Quantity: 3},
			},
			expected: []ProductLine{
				{ProductID: "PRD-1", Name: "Kettle", Quantity: 5},
				{ProductID: "PRD-2", Name: "Pan", Quantity: 1},
			},
		},
		{
			name:        "Empty list rejected",
			lines:       []ProductLine{},
			expectError: true,
		},
		{
			name: "Zero quantity rejected",
			lines: []ProductLine{
				{ProductID: "PRD-1", Quantity: 0},
			},
			expectError: true,
		},
		{
			name: "Missing product id rejected",
			lines: []ProductLine{
				{ProductID: "", Quantity: 1},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeProductLines(tt.lines)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestNewCustomer tests customer creation
func TestNewCustomer(t *testing.T) {
	lines := []ProductLine{{ProductID: "PRD-1", Name: "Kettle", Quantity: 2}}

	customer, err := NewCustomer("Ayesha", "0300-1234567", "Lahore", CustomerTypeOnline, lines, "SLR-001", 100)
	require.NoError(t, err)

	assert.NotEmpty(t, customer.CustomerID)
	assert.NotEmpty(t, customer.CorrelationID)
	assert.Equal(t, CustomerTypeOnline, customer.Type)
	assert.Equal(t, "SLR-001", customer.SellerID)
	assert.True(t, customer.IsCommissionable())
	assert.Equal(t, 2, customer.TotalQuantity())
	assert.Len(t, customer.DomainEvents(), 1)

	// Invalid type
	_, err = NewCustomer("Ayesha", "", "", CustomerType("walk-in"), lines, "", 0)
	assert.Equal(t, ErrInvalidCustomerType, err)
}

// TestCustomerEffectiveProductLines tests the legacy field adapter
func TestCustomerEffectiveProductLines(t *testing.T) {
	// List form wins
	customer := &Customer{
		ProductsInfo: []ProductLine{{ProductID: "PRD-1", Quantity: 3}},
		Product:      "PRD-legacy",
	}
	lines := customer.EffectiveProductLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "PRD-1", lines[0].ProductID)

	// Legacy singular synthesizes a one-unit line
	customer = &Customer{Product: "PRD-legacy", ProductInfo: "Old Kettle"}
	lines = customer.EffectiveProductLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "PRD-legacy", lines[0].ProductID)
	assert.Equal(t, "Old Kettle", lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)

	// Nothing at all
	customer = &Customer{}
	assert.Nil(t, customer.EffectiveProductLines())
}

// TestCustomerSetProductLines tests that writes migrate to the list form
func TestCustomerSetProductLines(t *testing.T) {
	customer := &Customer{Product: "PRD-legacy", ProductInfo: "Old Kettle"}

	err := customer.SetProductLines([]ProductLine{{ProductID: "PRD-1", Quantity: 2}})
	require.NoError(t, err)

	assert.Empty(t, customer.Product)
	assert.Empty(t, customer.ProductInfo)
	require.Len(t, customer.ProductsInfo, 1)
	assert.Equal(t, "PRD-1", customer.ProductsInfo[0].ProductID)
}

// TestDiffProductLines tests signed delta computation
func TestDiffProductLines(t *testing.T) {
	tests := []struct {
		name     string
		old      []ProductLine
		updated  []ProductLine
		expected StockPlan
	}{
		{
			name:     "Unchanged set produces empty plan",
			old:      []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			updated:  []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			expected: StockPlan{},
		},
		{
			name:    "Quantity increase consumes the difference",
			old:     []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			updated: []ProductLine{{ProductID: "PRD-1", Quantity: 5}},
			expected: StockPlan{
				{ProductID: "PRD-1", Delta: 3},
			},
		},
		{
			name:    "Quantity decrease restores the difference",
			old:     []ProductLine{{ProductID: "PRD-1", Quantity: 5}},
			updated: []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			expected: StockPlan{
				{ProductID: "PRD-1", Delta: -3},
			},
		},
		{
			name: "Product substitution consumes new and restores old",
			old:  []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			updated: []ProductLine{
				{ProductID: "PRD-2", Quantity: 4},
			},
			expected: StockPlan{
				{ProductID: "PRD-2", Delta: 4},
				{ProductID: "PRD-1", Delta: -2},
			},
		},
		{
			name:    "New product with empty old set",
			old:     nil,
			updated: []ProductLine{{ProductID: "PRD-1", Quantity: 2}},
			expected: StockPlan{
				{ProductID: "PRD-1", Delta: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := DiffProductLines(tt.old, tt.updated)
			assert.Equal(t, tt.expected, plan)
		})
	}
}

// TestCustomerTypeIsValid tests customer type validation
func TestCustomerTypeIsValid(t *testing.T) {
	assert.True(t, CustomerTypeOnline.IsValid())
	assert.True(t, CustomerTypeOffline.IsValid())
	assert.False(t, CustomerType("walk-in").IsValid())
}
