package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for parcel management
var (
	ErrParcelNotFound          = errors.New("parcel not found")
	ErrDuplicateTrackingNumber = errors.New("tracking number already exists")
	ErrInvalidParcelStatus     = errors.New("invalid parcel status")
	ErrInvalidPaymentStatus    = errors.New("invalid payment status")
)

// ParcelStatus represents the courier lifecycle state of a parcel
type ParcelStatus string

const (
	ParcelStatusProcessing ParcelStatus = "processing"
	ParcelStatusDelivered  ParcelStatus = "delivered"
	ParcelStatusReturn     ParcelStatus = "return"
)

// IsValid checks if the status is valid
func (s ParcelStatus) IsValid() bool {
	switch s {
	case ParcelStatusProcessing, ParcelStatusDelivered, ParcelStatusReturn:
		return true
	}
	return false
}

// PaymentStatus represents whether the parcel's COD has been collected
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusUnpaid:
		return true
	}
	return false
}

// Parcel is the aggregate root for courier dispatch. Its product lines
// consume stock on creation; transitioning into the return status restores
// them exactly once, and deletion always restores whatever the parcel holds.
type Parcel struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ParcelID string             `bson:"parcelId" json:"parcelId"`

	ProductsInfo []ProductLine `bson:"productsInfo" json:"productsInfo"`

	// Legacy singular fields, adapted through EffectiveProductLines
	Product     string `bson:"product,omitempty" json:"product,omitempty"`
	ProductInfo string `bson:"productInfo,omitempty" json:"productInfo,omitempty"`

	TrackingNumber string        `bson:"trackingNumber" json:"trackingNumber"`
	Recipient      string        `bson:"recipient,omitempty" json:"recipient,omitempty"`
	Phone          string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string        `bson:"address,omitempty" json:"address,omitempty"`
	Status         ParcelStatus  `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	CODAmount      float64       `bson:"codAmount" json:"codAmount"`
	ParcelDate     time.Time     `bson:"parcelDate" json:"parcelDate"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewParcel creates a new Parcel aggregate with normalized product lines
func NewParcel(trackingNumber, recipient, phone, address string, lines []ProductLine, codAmount float64, parcelDate time.Time) (*Parcel, error) {
	normalized, err := NormalizeProductLines(lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	parcelID := fmt.Sprintf("PCL-%s", uuid.New().String()[:8])

	if parcelDate.IsZero() {
		parcelDate = now
	}

	parcel := &Parcel{
		ID:             primitive.NewObjectID(),
		ParcelID:       parcelID,
		ProductsInfo:   normalized,
		TrackingNumber: trackingNumber,
		Recipient:      recipient,
		Phone:          phone,
		Address:        address,
		Status:         ParcelStatusProcessing,
		PaymentStatus:  PaymentStatusUnpaid,
		CODAmount:      codAmount,
		ParcelDate:     parcelDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		domainEvents:   make([]DomainEvent, 0),
	}

	parcel.addDomainEvent(&ParcelCreatedEvent{
		ParcelID:       parcelID,
		TrackingNumber: trackingNumber,
		CreatedAt:      now,
	})

	return parcel, nil
}

// EffectiveProductLines returns the product lines, synthesizing a
// one-element list from the legacy singular fields when the list is empty
func (p *Parcel) EffectiveProductLines() []ProductLine {
	if len(p.ProductsInfo) > 0 {
		return p.ProductsInfo
	}
	if p.Product != "" {
		return []ProductLine{{
			ProductID: p.Product,
			Name:      p.ProductInfo,
			Quantity:  1,
		}}
	}
	return nil
}

// SetProductLines replaces the product lines, clearing the legacy fields
func (p *Parcel) SetProductLines(lines []ProductLine) error {
	normalized, err := NormalizeProductLines(lines)
	if err != nil {
		return err
	}

	p.ProductsInfo = normalized
	p.Product = ""
	p.ProductInfo = ""
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// TransitionStatus moves the parcel to a new status and reports whether
// stock must be restored. Restoration happens only on entering the return
// status from another status; setting return again later restores nothing.
func (p *Parcel) TransitionStatus(status ParcelStatus) (restoreStock bool, err error) {
	if !status.IsValid() {
		return false, ErrInvalidParcelStatus
	}

	restoreStock = status == ParcelStatusReturn && p.Status != ParcelStatusReturn
	p.Status = status
	p.UpdatedAt = time.Now().UTC()

	if restoreStock {
		p.addDomainEvent(&ParcelReturnedEvent{
			ParcelID:       p.ParcelID,
			TrackingNumber: p.TrackingNumber,
			ReturnedAt:     p.UpdatedAt,
		})
	}

	return restoreStock, nil
}

// SetPaymentStatus updates the COD collection status
func (p *Parcel) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return ErrInvalidPaymentStatus
	}
	p.PaymentStatus = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ConsumptionPlan returns the stock plan that consumes this parcel's lines
func (p *Parcel) ConsumptionPlan() StockPlan {
	lines := p.EffectiveProductLines()
	plan := make(StockPlan, 0, len(lines))
	for _, line := range lines {
		plan = append(plan, StockDelta{ProductID: line.ProductID, Delta: line.Quantity})
	}
	return plan
}

// RestorationPlan returns the stock plan that adds this parcel's lines back
func (p *Parcel) RestorationPlan() StockPlan {
	lines := p.EffectiveProductLines()
	plan := make(StockPlan, 0, len(lines))
	for _, line := range lines {
		plan = append(plan, StockDelta{ProductID: line.ProductID, Delta: -line.Quantity})
	}
	return plan
}

func (p *Parcel) addDomainEvent(event DomainEvent) {
	p.domainEvents = append(p.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (p *Parcel) DomainEvents() []DomainEvent {
	return p.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (p *Parcel) ClearDomainEvents() {
	p.domainEvents = make([]DomainEvent, 0)
}
