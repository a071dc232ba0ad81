package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for purchase batch intake
var (
	ErrPurchaseBatchNotFound = errors.New("purchase batch not found")
)

// PurchaseBatchItem is one product line of a supplier delivery
type PurchaseBatchItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name,omitempty" json:"name,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
}

// PurchaseBatch is an append-only record of a supplier delivery. Creating one
// adds every item quantity to the product's stock.
type PurchaseBatch struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID string             `bson:"batchId" json:"batchId"`

	BatchNumber  string    `bson:"batchNumber,omitempty" json:"batchNumber,omitempty"`
	SupplierName string    `bson:"supplierName" json:"supplierName"`
	PurchaseDate time.Time `bson:"purchaseDate" json:"purchaseDate"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`

	Items       []PurchaseBatchItem `bson:"items" json:"items"`
	TotalAmount float64             `bson:"totalAmount" json:"totalAmount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewPurchaseBatch validates the delivery and computes its total amount. An
// unset purchase date defaults to now.
func NewPurchaseBatch(supplierName, batchNumber, notes string, purchaseDate time.Time, items []PurchaseBatchItem) (*PurchaseBatch, error) {
	if supplierName == "" {
		return nil, errors.New("purchase batch requires a supplier name")
	}
	if len(items) == 0 {
		return nil, errors.New("purchase batch requires at least one item")
	}

	total := 0.0
	for _, item := range items {
		if item.ProductID == "" {
			return nil, errors.New("purchase batch item is missing a product id")
		}
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return nil, errors.New("purchase batch item unit price cannot be negative")
		}
		total += float64(item.Quantity) * item.UnitPrice
	}

	if purchaseDate.IsZero() {
		purchaseDate = time.Now().UTC()
	}

	return &PurchaseBatch{
		ID:           primitive.NewObjectID(),
		BatchID:      fmt.Sprintf("PB-%s", uuid.New().String()[:8]),
		BatchNumber:  batchNumber,
		SupplierName: supplierName,
		PurchaseDate: purchaseDate,
		Notes:        notes,
		Items:        items,
		TotalAmount:  total,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// IntakePlan returns the stock plan that adds the delivered quantities
func (b *PurchaseBatch) IntakePlan() StockPlan {
	plan := make(StockPlan, 0, len(b.Items))
	for _, item := range b.Items {
		plan = append(plan, StockDelta{ProductID: item.ProductID, Delta: -item.Quantity})
	}
	return plan
}
