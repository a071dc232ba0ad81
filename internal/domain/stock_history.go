package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockMovementType labels the direction of a stock movement
type StockMovementType string

// Stock movement directions
const (
	StockMovementIn  StockMovementType = "stock_in"
	StockMovementOut StockMovementType = "stock_out"
)

// StockHistory is an append-only trail entry recording a product's stock
// moving from one level to another
type StockHistory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string             `bson:"productId" json:"productId"`

	Type          StockMovementType `bson:"type" json:"type"`
	Quantity      int               `bson:"quantity" json:"quantity"`
	PreviousStock int               `bson:"previousStock" json:"previousStock"`
	NewStock      int               `bson:"newStock" json:"newStock"`

	Reason string `bson:"reason" json:"reason"`
	Notes  string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewStockHistory records a movement from previous to current stock. The
// direction and quantity are derived from the difference.
func NewStockHistory(productID string, previous, current int, reason, notes string) *StockHistory {
	movementType := StockMovementIn
	quantity := current - previous
	if quantity < 0 {
		movementType = StockMovementOut
		quantity = -quantity
	}

	return &StockHistory{
		ID:            primitive.NewObjectID(),
		ProductID:     productID,
		Type:          movementType,
		Quantity:      quantity,
		PreviousStock: previous,
		NewStock:      current,
		Reason:        reason,
		Notes:         notes,
		CreatedAt:     time.Now().UTC(),
	}
}
