package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseBatch(t *testing.T) {
	tests := []struct {
		name      string
		supplier  string
		items     []PurchaseBatchItem
		wantErr   bool
		wantTotal float64
	}{
		{
			name:     "Valid delivery",
			supplier: "Lanka Electricals",
			items: []PurchaseBatchItem{
				{ProductID: "PRD-1", Quantity: 6, UnitPrice: 80},
				{ProductID: "PRD-2", Quantity: 2, UnitPrice: 50},
			},
			wantTotal: 580,
		},
		{
			name:     "Free sample line",
			supplier: "Lanka Electricals",
			items: []PurchaseBatchItem{
				{ProductID: "PRD-1", Quantity: 3, UnitPrice: 0},
			},
			wantTotal: 0,
		},
		{
			name:     "Missing supplier",
			supplier: "",
			items:    []PurchaseBatchItem{{ProductID: "PRD-1", Quantity: 1, UnitPrice: 10}},
			wantErr:  true,
		},
		{
			name:     "No items",
			supplier: "Lanka Electricals",
			wantErr:  true,
		},
		{
			name:     "Zero quantity item",
			supplier: "Lanka Electricals",
			items:    []PurchaseBatchItem{{ProductID: "PRD-1", Quantity: 0, UnitPrice: 10}},
			wantErr:  true,
		},
		{
			name:     "Negative unit price",
			supplier: "Lanka Electricals",
			items:    []PurchaseBatchItem{{ProductID: "PRD-1", Quantity: 1, UnitPrice: -5}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewPurchaseBatch(tt.supplier, "", "", time.Time{}, tt.items)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, batch)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, batch.BatchID, "PB-")
			assert.Equal(t, tt.wantTotal, batch.TotalAmount)
			assert.False(t, batch.PurchaseDate.IsZero())
		})
	}
}

func TestPurchaseBatchIntakePlanOnlyRestores(t *testing.T) {
	batch, err := NewPurchaseBatch("Lanka Electricals", "", "", time.Time{}, []PurchaseBatchItem{
		{ProductID: "PRD-1", Quantity: 6, UnitPrice: 80},
		{ProductID: "PRD-2", Quantity: 2, UnitPrice: 50},
	})
	require.NoError(t, err)

	plan := batch.IntakePlan()

	assert.Empty(t, plan.Consuming())
	require.Len(t, plan.Restoring(), 2)
	assert.Equal(t, StockDelta{ProductID: "PRD-1", Delta: -6}, plan.Restoring()[0])
}
