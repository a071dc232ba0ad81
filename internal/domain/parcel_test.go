package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewParcel tests parcel creation
func TestNewParcel(t *testing.T) {
	lines := []ProductLine{{ProductID: "PRD-1", Name: "Kettle", Quantity: 2}}

	parcel, err := NewParcel("TRK-100200", "Ayesha", "0300-1234567", "Lahore", lines, 1500, time.Time{})
	require.NoError(t, err)

	assert.NotEmpty(t, parcel.ParcelID)
	assert.Equal(t, ParcelStatusProcessing, parcel.Status)
	assert.Equal(t, PaymentStatusUnpaid, parcel.PaymentStatus)
	assert.Equal(t, 1500.0, parcel.CODAmount)
	assert.False(t, parcel.ParcelDate.IsZero())
	assert.Len(t, parcel.DomainEvents(), 1)

	// Empty product lines rejected
	_, err = NewParcel("TRK-100201", "", "", "", nil, 0, time.Time{})
	assert.Error(t, err)
}

// TestParcelTransitionStatus tests the return-once stock restore decision
func TestParcelTransitionStatus(t *testing.T) {
	tests := []struct {
		name            string
		fromStatus      ParcelStatus
		toStatus        ParcelStatus
		expectedRestore bool
		expectError     bool
	}{
		{
			name:            "Processing to delivered restores nothing",
			fromStatus:      ParcelStatusProcessing,
			toStatus:        ParcelStatusDelivered,
			expectedRestore: false,
		},
		{
			name:            "Processing to return restores stock",
			fromStatus:      ParcelStatusProcessing,
			toStatus:        ParcelStatusReturn,
			expectedRestore: true,
		},
		{
			name:            "Delivered to return restores stock",
			fromStatus:      ParcelStatusDelivered,
			toStatus:        ParcelStatusReturn,
			expectedRestore: true,
		},
		{
			name:            "Return to return restores nothing",
			fromStatus:      ParcelStatusReturn,
			toStatus:        ParcelStatusReturn,
			expectedRestore: false,
		},
		{
			name:        "Invalid status rejected",
			fromStatus:  ParcelStatusProcessing,
			toStatus:    ParcelStatus("lost"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []ProductLine{{ProductID: "PRD-1", Quantity: 1}}
			parcel, err := NewParcel("TRK-100300", "", "", "", lines, 0, time.Time{})
			require.NoError(t, err)
			parcel.Status = tt.fromStatus
			parcel.ClearDomainEvents()

			restore, err := parcel.TransitionStatus(tt.toStatus)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedRestore, restore)
				assert.Equal(t, tt.toStatus, parcel.Status)
			}
		})
	}
}

// TestParcelEffectiveProductLines tests the legacy field adapter
func TestParcelEffectiveProductLines(t *testing.T) {
	parcel := &Parcel{Product: "PRD-legacy", ProductInfo: "Old Kettle"}

	lines := parcel.EffectiveProductLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "PRD-legacy", lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)

	// Migrating to the list form clears the legacy fields
	err := parcel.SetProductLines([]ProductLine{{ProductID: "PRD-1", Quantity: 2}})
	require.NoError(t, err)
	assert.Empty(t, parcel.Product)
	require.Len(t, parcel.EffectiveProductLines(), 1)
	assert.Equal(t, "PRD-1", parcel.EffectiveProductLines()[0].ProductID)
}

// TestParcelPlans tests consumption and restoration plans
func TestParcelPlans(t *testing.T) {
	lines := []ProductLine{
		{ProductID: "PRD-1", Quantity: 2},
		{ProductID: "PRD-2", Quantity: 1},
	}
	parcel, err := NewParcel("TRK-100400", "", "", "", lines, 0, time.Time{})
	require.NoError(t, err)

	consumption := parcel.ConsumptionPlan()
	require.Len(t, consumption, 2)
	assert.Equal(t, StockDelta{ProductID: "PRD-1", Delta: 2}, consumption[0])

	restoration := parcel.RestorationPlan()
	require.Len(t, restoration, 2)
	assert.Equal(t, StockDelta{ProductID: "PRD-1", Delta: -2}, restoration[0])
}

// TestParcelSetPaymentStatus tests COD payment status updates
func TestParcelSetPaymentStatus(t *testing.T) {
	lines := []ProductLine{{ProductID: "PRD-1", Quantity: 1}}
	parcel, err := NewParcel("TRK-100500", "", "", "", lines, 500, time.Time{})
	require.NoError(t, err)

	require.NoError(t, parcel.SetPaymentStatus(PaymentStatusPaid))
	assert.Equal(t, PaymentStatusPaid, parcel.PaymentStatus)

	assert.Equal(t, ErrInvalidPaymentStatus, parcel.SetPaymentStatus(PaymentStatus("partial")))
}

// TestParcelStatusIsValid tests parcel status validation
func TestParcelStatusIsValid(t *testing.T) {
	assert.True(t, ParcelStatusProcessing.IsValid())
	assert.True(t, ParcelStatusDelivered.IsValid())
	assert.True(t, ParcelStatusReturn.IsValid())
	assert.False(t, ParcelStatus("lost").IsValid())
}
