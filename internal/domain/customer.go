package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for customer management
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInvalidCustomerType = errors.New("invalid customer type")
	ErrNoProductLines      = errors.New("at least one product line is required")
)

// CustomerType distinguishes online from walk-in customers
type CustomerType string

const (
	CustomerTypeOnline  CustomerType = "online"
	CustomerTypeOffline CustomerType = "offline"
)

// IsValid checks if the customer type is valid
func (t CustomerType) IsValid() bool {
	switch t {
	case CustomerTypeOnline, CustomerTypeOffline:
		return true
	}
	return false
}

// ProductLine is one product association with a quantity. Name and Model are
// denormalized from the Product document at write time for display.
type ProductLine struct {
	ProductID string `bson:"productId" json:"productId"`
	Name      string `bson:"name" json:"name"`
	Model     string `bson:"model,omitempty" json:"model,omitempty"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// NormalizeProductLines deduplicates lines by product id, summing quantities
// for repeated ids. Order of first appearance is preserved. Lines with a
// non-positive quantity or empty product id are rejected.
func NormalizeProductLines(lines []ProductLine) ([]ProductLine, error) {
	if len(lines) == 0 {
		return nil, ErrNoProductLines
	}

	index := make(map[string]int, len(lines))
	out := make([]ProductLine, 0, len(lines))

	for _, line := range lines {
		if line.ProductID == "" {
			return nil, errors.New("product line is missing a product id")
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		if i, seen := index[line.ProductID]; seen {
			out[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}

	return out, nil
}

// Customer is the aggregate root for customer management. Its product lines
// drive stock consumption and, when a seller is attached, commission accrual.
type Customer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID string             `bson:"customerId" json:"customerId"`
	Name       string             `bson:"name" json:"name"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	Type       CustomerType       `bson:"type" json:"type"`

	ProductsInfo []ProductLine `bson:"productsInfo" json:"productsInfo"`

	// Legacy singular fields from before ProductsInfo existed. Reads adapt
	// them through EffectiveProductLines; writes always populate the list.
	Product     string `bson:"product,omitempty" json:"product,omitempty"`
	ProductInfo string `bson:"productInfo,omitempty" json:"productInfo,omitempty"`

	SellerID string `bson:"sellerId,omitempty" json:"sellerId,omitempty"`

	// Unit price used as the commission base
	Price float64 `bson:"price,omitempty" json:"price,omitempty"`

	// Links commission-bearing Sale records back to this customer so
	// reversal is a direct lookup rather than an attribute match
	CorrelationID string `bson:"correlationId,omitempty" json:"correlationId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewCustomer creates a new Customer aggregate with normalized product lines
func NewCustomer(name, phone, address string, customerType CustomerType, lines []ProductLine, sellerID string, price float64) (*Customer, error) {
	if !customerType.IsValid() {
		return nil, ErrInvalidCustomerType
	}

	normalized, err := NormalizeProductLines(lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customerID := fmt.Sprintf("CUS-%s", uuid.New().String()[:8])

	customer := &Customer{
		ID:            primitive.NewObjectID(),
		CustomerID:    customerID,
		Name:          name,
		Phone:         phone,
		Address:       address,
		Type:          customerType,
		ProductsInfo:  normalized,
		SellerID:      sellerID,
		Price:         price,
		CorrelationID: uuid.New().String(),
		CreatedAt:     now,
		UpdatedAt:     now,
		domainEvents:  make([]DomainEvent, 0),
	}

	customer.addDomainEvent(&CustomerCreatedEvent{
		CustomerID: customerID,
		Name:       name,
		Type:       string(customerType),
		SellerID:   sellerID,
		CreatedAt:  now,
	})

	return customer, nil
}

// EffectiveProductLines returns the product lines, synthesizing a one-element
// list from the legacy singular fields when the list form is empty. Legacy
// records carried no quantity, so one unit is assumed.
func (c *Customer) EffectiveProductLines() []ProductLine {
	if len(c.ProductsInfo) > 0 {
		return c.ProductsInfo
	}
	if c.Product != "" {
		return []ProductLine{{
			ProductID: c.Product,
			Name:      c.ProductInfo,
			Quantity:  1,
		}}
	}
	return nil
}

// SetProductLines replaces the product lines, clearing the legacy fields
func (c *Customer) SetProductLines(lines []ProductLine) error {
	normalized, err := NormalizeProductLines(lines)
	if err != nil {
		return err
	}

	c.ProductsInfo = normalized
	c.Product = ""
	c.ProductInfo = ""
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RefreshCorrelationID issues a new correlation id for the next commission
// accrual. Called after the previous accrual has been reversed so old and new
// Sale rows can never be confused.
func (c *Customer) RefreshCorrelationID() {
	c.CorrelationID = uuid.New().String()
}

// IsCommissionable reports whether this customer should carry accrued
// commission Sale records
func (c *Customer) IsCommissionable() bool {
	return c.SellerID != "" && len(c.EffectiveProductLines()) > 0
}

// TotalQuantity returns the summed quantity across all product lines
func (c *Customer) TotalQuantity() int {
	total := 0
	for _, line := range c.EffectiveProductLines() {
		total += line.Quantity
	}
	return total
}

func (c *Customer) addDomainEvent(event DomainEvent) {
	c.domainEvents = append(c.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (c *Customer) DomainEvents() []DomainEvent {
	return c.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (c *Customer) ClearDomainEvents() {
	c.domainEvents = make([]DomainEvent, 0)
}

// DiffProductLines computes signed per-product stock deltas between an old
// and a new line set (new minus old). Products absent from one side count as
// zero. The result lists consuming deltas before restoring ones so a caller
// can hand it straight to the stock plan applier.
func DiffProductLines(old, updated []ProductLine) StockPlan {
	oldQty := make(map[string]int, len(old))
	for _, line := range old {
		oldQty[line.ProductID] += line.Quantity
	}

	plan := make(StockPlan, 0, len(updated)+len(old))
	seen := make(map[string]bool, len(updated))

	for _, line := range updated {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		delta := line.Quantity - oldQty[line.ProductID]
		if delta != 0 {
			plan = append(plan, StockDelta{ProductID: line.ProductID, Delta: delta})
		}
	}

	for _, line := range old {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			plan = append(plan, StockDelta{ProductID: line.ProductID, Delta: -line.Quantity})
		}
	}

	return plan
}
