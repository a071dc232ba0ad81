package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeTypeIsValid(t *testing.T) {
	assert.True(t, IncomeTypeCash.IsValid())
	assert.True(t, IncomeTypeInAccount.IsValid())
	assert.False(t, IncomeType("cheque").IsValid())
	assert.False(t, IncomeType("").IsValid())
}

func TestNewIncome(t *testing.T) {
	tests := []struct {
		name           string
		incomeType     IncomeType
		expectedAmount float64
		amount         float64
		wantErr        error
	}{
		{
			name:           "Valid cash entry",
			incomeType:     IncomeTypeCash,
			expectedAmount: 360,
			amount:         160,
		},
		{
			name:       "Follow-up payment with zero expected",
			incomeType: IncomeTypeInAccount,
			amount:     50,
		},
		{
			name:       "Invalid type",
			incomeType: IncomeType("cheque"),
			amount:     100,
			wantErr:    ErrInvalidIncomeType,
		},
		{
			name:       "Negative amount",
			incomeType: IncomeTypeCash,
			amount:     -10,
			wantErr:    ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, err := NewIncome(tt.incomeType, "bill EM-0001", tt.expectedAmount, tt.amount, "BIL-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, income)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, income.IncomeID, "INC-")
			assert.Equal(t, tt.incomeType, income.Type)
			assert.Equal(t, tt.expectedAmount, income.ExpectedAmount)
			assert.Equal(t, tt.amount, income.Amount)
			assert.Equal(t, "BIL-1", income.BillID)
		})
	}
}
