package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for the commission ledger
var (
	ErrSellerNotFound        = errors.New("seller not found")
	ErrInvalidCommissionRate = errors.New("commission rate cannot be negative")
)

// Seller is the aggregate root for the commission ledger. Commission is the
// running balance, TotalCommission the lifetime accrual, and Total is always
// recomputed as BasicSalary + Commission on save.
type Seller struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SellerID string             `bson:"sellerId" json:"sellerId"`
	Name     string             `bson:"name" json:"name"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// Currency per unit sold
	CommissionRate float64 `bson:"commissionRate" json:"commissionRate"`

	BasicSalary     float64 `bson:"basicSalary" json:"basicSalary"`
	Commission      float64 `bson:"commission" json:"commission"`
	TotalCommission float64 `bson:"totalCommission" json:"totalCommission"`
	Total           float64 `bson:"total" json:"total"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewSeller creates a new Seller aggregate
func NewSeller(name, phone string, commissionRate, basicSalary float64) (*Seller, error) {
	if commissionRate < 0 {
		return nil, ErrInvalidCommissionRate
	}

	now := time.Now().UTC()
	sellerID := fmt.Sprintf("SLR-%s", uuid.New().String()[:8])

	seller := &Seller{
		ID:             primitive.NewObjectID(),
		SellerID:       sellerID,
		Name:           name,
		Phone:          phone,
		CommissionRate: commissionRate,
		BasicSalary:    basicSalary,
		Total:          basicSalary,
		CreatedAt:      now,
		UpdatedAt:      now,
		domainEvents:   make([]DomainEvent, 0),
	}

	seller.addDomainEvent(&SellerCreatedEvent{
		SellerID:       sellerID,
		Name:           name,
		CommissionRate: commissionRate,
		CreatedAt:      now,
	})

	return seller, nil
}

// UpdateDetails updates the descriptive and pay fields
func (s *Seller) UpdateDetails(name, phone string, commissionRate, basicSalary float64) error {
	if commissionRate < 0 {
		return ErrInvalidCommissionRate
	}

	s.Name = name
	s.Phone = phone
	s.CommissionRate = commissionRate
	s.BasicSalary = basicSalary
	s.RecomputeTotal()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// CommissionFor returns the commission earned for the given unit count
func (s *Seller) CommissionFor(quantity int) float64 {
	return s.CommissionRate * float64(quantity)
}

// RecomputeTotal recalculates the derived Total field
func (s *Seller) RecomputeTotal() {
	s.Total = s.BasicSalary + s.Commission
}

func (s *Seller) addDomainEvent(event DomainEvent) {
	s.domainEvents = append(s.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (s *Seller) DomainEvents() []DomainEvent {
	return s.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (s *Seller) ClearDomainEvents() {
	s.domainEvents = make([]DomainEvent, 0)
}
