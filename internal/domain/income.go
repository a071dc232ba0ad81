package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the income log
var (
	ErrIncomeNotFound    = errors.New("income record not found")
	ErrInvalidIncomeType = errors.New("invalid income type")
	ErrInvalidAmount     = errors.New("amount cannot be negative")
)

// IncomeType distinguishes cash receipts from receivables
type IncomeType string

const (
	IncomeTypeCash      IncomeType = "cash"
	IncomeTypeInAccount IncomeType = "in_account"
)

// IsValid checks if the income type is valid
func (t IncomeType) IsValid() bool {
	switch t {
	case IncomeTypeCash, IncomeTypeInAccount:
		return true
	}
	return false
}

// Income is one entry in the financial log. Bill flows write entries with
// ExpectedAmount set to the billed total on creation and zero on follow-up
// payments.
type Income struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IncomeID string             `bson:"incomeId" json:"incomeId"`

	Type   IncomeType `bson:"type" json:"type"`
	Source string     `bson:"source" json:"source"`

	ExpectedAmount float64 `bson:"expectedAmount" json:"expectedAmount"`
	Amount         float64 `bson:"amount" json:"amount"`

	// Set when the entry was logged by a bill flow
	BillID string `bson:"billId,omitempty" json:"billId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewIncome creates a new income log entry
func NewIncome(incomeType IncomeType, source string, expectedAmount, amount float64, billID string) (*Income, error) {
	if !incomeType.IsValid() {
		return nil, ErrInvalidIncomeType
	}
	if expectedAmount < 0 || amount < 0 {
		return nil, ErrInvalidAmount
	}

	return &Income{
		ID:             primitive.NewObjectID(),
		IncomeID:       fmt.Sprintf("INC-%s", uuid.New().String()[:8]),
		Type:           incomeType,
		Source:         source,
		ExpectedAmount: expectedAmount,
		Amount:         amount,
		BillID:         billID,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
