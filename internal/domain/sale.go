package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the sale ledger
var (
	ErrSaleNotFound = errors.New("sale not found")
)

// Sale is one audit-trail line representing a commissionable transaction:
// a manual sale, a bill line item, or a customer-product association. Rows
// are deleted and recreated, never updated, when the source entity's
// commissionable attributes change.
type Sale struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SaleID string             `bson:"saleId" json:"saleId"`

	ProductID  string `bson:"productId" json:"productId"`
	SellerID   string `bson:"sellerId,omitempty" json:"sellerId,omitempty"`
	CustomerID string `bson:"customerId,omitempty" json:"customerId,omitempty"`

	// Denormalized names for display
	ProductName  string `bson:"productName" json:"productName"`
	ProductModel string `bson:"productModel,omitempty" json:"productModel,omitempty"`
	SellerName   string `bson:"sellerName,omitempty" json:"sellerName,omitempty"`
	CustomerName string `bson:"customerName,omitempty" json:"customerName,omitempty"`

	Quantity   int     `bson:"quantity" json:"quantity"`
	UnitPrice  float64 `bson:"unitPrice" json:"unitPrice"`
	Total      float64 `bson:"total" json:"total"`
	Commission float64 `bson:"commission" json:"commission"`

	// Pointer so the flag can be absent on rows written before it existed.
	// Reversal treats absent as true for backward compatibility.
	IsCustomerCommissionSale *bool `bson:"isCustomerCommissionSale,omitempty" json:"isCustomerCommissionSale,omitempty"`

	// Links auto-generated rows back to the originating customer or bill
	// mutation so reversal is a direct lookup
	CorrelationID string `bson:"correlationId,omitempty" json:"correlationId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewSale creates a manual sale record
func NewSale(productID, productName, productModel, sellerID, sellerName string, quantity int, unitPrice, commission float64) (*Sale, error) {
	if productID == "" {
		return nil, errors.New("sale requires a product")
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Sale{
		ID:           primitive.NewObjectID(),
		SaleID:       fmt.Sprintf("SAL-%s", uuid.New().String()[:8]),
		ProductID:    productID,
		ProductName:  productName,
		ProductModel: productModel,
		SellerID:     sellerID,
		SellerName:   sellerName,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Total:        unitPrice * float64(quantity),
		Commission:   commission,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NewCommissionSale creates an auto-generated commission accrual row tagged
// with the originating mutation's correlation id
func NewCommissionSale(productID, productName, productModel, sellerID, sellerName, customerID, customerName string, quantity int, unitPrice, commission float64, correlationID string) *Sale {
	flag := true
	return &Sale{
		ID:                       primitive.NewObjectID(),
		SaleID:                   fmt.Sprintf("SAL-%s", uuid.New().String()[:8]),
		ProductID:                productID,
		ProductName:              productName,
		ProductModel:             productModel,
		SellerID:                 sellerID,
		SellerName:               sellerName,
		CustomerID:               customerID,
		CustomerName:             customerName,
		Quantity:                 quantity,
		UnitPrice:                unitPrice,
		Total:                    unitPrice * float64(quantity),
		Commission:               commission,
		IsCustomerCommissionSale: &flag,
		CorrelationID:            correlationID,
		CreatedAt:                time.Now().UTC(),
	}
}

// IsCommissionRow reports whether the row counts as a commission accrual.
// Rows written before the flag existed carry no flag and count as accruals.
func (s *Sale) IsCommissionRow() bool {
	return s.IsCustomerCommissionSale == nil || *s.IsCustomerCommissionSale
}

// SaleMatch selects commission rows for reversal. When CorrelationID is set
// it is the sole criterion; otherwise the legacy attribute match applies:
// seller + customer + product-id set, the commission flag true or absent,
// and an optional unit price guard against reversing unrelated manual sales.
type SaleMatch struct {
	CorrelationID string

	SellerID   string
	CustomerID string
	ProductIDs []string
	UnitPrice  *float64
}

// IsDirect reports whether the match is a correlation id lookup
func (m SaleMatch) IsDirect() bool {
	return m.CorrelationID != ""
}
