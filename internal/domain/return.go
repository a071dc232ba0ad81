package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for return processing
var (
	ErrReturnNotFound = errors.New("return record not found")
)

// Return is an append-only record of returned units. Creating one
// unconditionally restores the product's stock; returns themselves are not
// deletable.
type Return struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReturnID string             `bson:"returnId" json:"returnId"`

	ProductID   string  `bson:"productId" json:"productId"`
	ProductName string  `bson:"productName" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice"`

	TrackingID string `bson:"trackingId,omitempty" json:"trackingId,omitempty"`
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewReturn creates a new return record
func NewReturn(productID, productName string, quantity int, unitPrice float64, trackingID, notes string) (*Return, error) {
	if productID == "" {
		return nil, errors.New("return requires a product")
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Return{
		ID:          primitive.NewObjectID(),
		ReturnID:    fmt.Sprintf("RTN-%s", uuid.New().String()[:8]),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TrackingID:  trackingID,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
