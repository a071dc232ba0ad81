package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the product stock ledger
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateModel    = errors.New("product model already exists")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidStockDelta = errors.New("stock delta must be non-zero")
)

// InsufficientStockError reports a stock adjustment that would drive the
// available quantity below zero. The phrasing matters: the HTTP error mapper
// keys off "insufficient stock".
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// PriceTier identifies which of a product's price points a sale uses
type PriceTier string

const (
	PriceTierOriginal  PriceTier = "original"
	PriceTierWholesale PriceTier = "wholesale"
	PriceTierRetail    PriceTier = "retail"
	PriceTierWebsite   PriceTier = "website"
)

// IsValid checks if the price tier is valid
func (t PriceTier) IsValid() bool {
	switch t {
	case PriceTierOriginal, PriceTierWholesale, PriceTierRetail, PriceTierWebsite:
		return true
	}
	return false
}

// PriceSet holds the per-tier prices of a product. Products migrated from the
// single-price schema carry the same value in every tier.
type PriceSet struct {
	Original  float64 `bson:"original" json:"original"`
	Wholesale float64 `bson:"wholesale" json:"wholesale"`
	Retail    float64 `bson:"retail" json:"retail"`
	Website   float64 `bson:"website" json:"website"`
}

// ForTier returns the price for the given tier, falling back to retail
func (p PriceSet) ForTier(tier PriceTier) float64 {
	switch tier {
	case PriceTierOriginal:
		return p.Original
	case PriceTierWholesale:
		return p.Wholesale
	case PriceTierWebsite:
		return p.Website
	default:
		return p.Retail
	}
}

// Product is the aggregate root for the stock ledger. Stock is the single
// source of truth for sellable units; every other entity applies signed
// deltas to it and must reverse deltas it previously applied before
// re-applying new ones.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string             `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Model     string             `bson:"model" json:"model"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`

	Prices PriceSet `bson:"prices" json:"prices"`

	// Legacy single-price field, kept populated for records created before
	// tiered pricing existed
	Price float64 `bson:"price,omitempty" json:"price,omitempty"`

	Stock int `bson:"stock" json:"stock"`

	// Legacy per-unit commission; newer records use the seller-level rate
	CommissionPerUnit float64 `bson:"commissionPerUnit,omitempty" json:"commissionPerUnit,omitempty"`

	LowStockThreshold int `bson:"lowStockThreshold" json:"lowStockThreshold"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewProduct creates a new Product aggregate
func NewProduct(name, model, category string, prices PriceSet, stock int) (*Product, error) {
	if stock < 0 {
		return nil, errors.New("initial stock cannot be negative")
	}

	now := time.Now().UTC()
	productID := fmt.Sprintf("PRD-%s", uuid.New().String()[:8])

	product := &Product{
		ID:                primitive.NewObjectID(),
		ProductID:         productID,
		Name:              name,
		Model:             model,
		Category:          category,
		Prices:            prices,
		Stock:             stock,
		LowStockThreshold: 5,
		CreatedAt:         now,
		UpdatedAt:         now,
		domainEvents:      make([]DomainEvent, 0),
	}

	product.addDomainEvent(&ProductCreatedEvent{
		ProductID: productID,
		Name:      name,
		Model:     model,
		Stock:     stock,
		CreatedAt: now,
	})

	return product, nil
}

// UpdateDetails updates the descriptive fields of the product
func (p *Product) UpdateDetails(name, model, category string, prices PriceSet) {
	p.Name = name
	p.Model = model
	p.Category = category
	p.Prices = prices
	p.UpdatedAt = time.Now().UTC()
}

// IsLowStock reports whether the available quantity is at or below the
// low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// UnitPrice returns the effective single unit price, preferring the legacy
// field when set
func (p *Product) UnitPrice() float64 {
	if p.Price > 0 {
		return p.Price
	}
	return p.Prices.Retail
}

func (p *Product) addDomainEvent(event DomainEvent) {
	p.domainEvents = append(p.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (p *Product) DomainEvents() []DomainEvent {
	return p.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (p *Product) ClearDomainEvents() {
	p.domainEvents = make([]DomainEvent, 0)
}

// StockDelta is one signed adjustment in a stock plan. Positive Delta
// consumes stock, negative Delta restores it.
type StockDelta struct {
	ProductID string
	Delta     int
}

// Inverse returns the compensating delta
func (d StockDelta) Inverse() StockDelta {
	return StockDelta{ProductID: d.ProductID, Delta: -d.Delta}
}

// StockPlan is an ordered list of signed per-product deltas applied together,
// with compensating rollback on partial failure.
type StockPlan []StockDelta

// Consuming returns the deltas that reduce stock
func (p StockPlan) Consuming() []StockDelta {
	out := make([]StockDelta, 0, len(p))
	for _, d := range p {
		if d.Delta > 0 {
			out = append(out, d)
		}
	}
	return out
}

// Restoring returns the deltas that add stock back
func (p StockPlan) Restoring() []StockDelta {
	out := make([]StockDelta, 0, len(p))
	for _, d := range p {
		if d.Delta < 0 {
			out = append(out, d)
		}
	}
	return out
}

// IsEmpty reports whether the plan contains no effective change
func (p StockPlan) IsEmpty() bool {
	for _, d := range p {
		if d.Delta != 0 {
			return false
		}
	}
	return true
}
