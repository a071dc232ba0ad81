package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors for bill management
var (
	ErrBillNotFound      = errors.New("bill not found")
	ErrBillSellerMissing = errors.New("bill requires a seller")
	ErrNoBillItems       = errors.New("bill requires at least one line item")
	ErrInvalidBillStatus = errors.New("invalid bill status")
	ErrInvalidPayment    = errors.New("payment amount must be greater than zero")
	ErrBillCancelled     = errors.New("bill has been cancelled")
)

// BillStatus represents the lifecycle state of a bill
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusCompleted BillStatus = "completed"
	BillStatusCancelled BillStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusCompleted, BillStatusCancelled:
		return true
	}
	return false
}

// BillItem is one invoice line
type BillItem struct {
	ProductID   string    `bson:"productId" json:"productId"`
	Name        string    `bson:"name" json:"name"`
	Model       string    `bson:"model,omitempty" json:"model,omitempty"`
	PriceTier   PriceTier `bson:"priceTier" json:"priceTier"`
	UnitPrice   float64   `bson:"unitPrice" json:"unitPrice"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	TotalAmount float64   `bson:"totalAmount" json:"totalAmount"`
}

// BillCustomer is the customer snapshot embedded in a bill. Denormalized at
// creation time, never a live reference.
type BillCustomer struct {
	CustomerID string `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
}

// BillPayment records one payment appended to a bill
type BillPayment struct {
	Amount float64   `bson:"amount" json:"amount"`
	PaidAt time.Time `bson:"paidAt" json:"paidAt"`
}

// Bill is the aggregate root for invoices. Creating a bill consumes stock,
// accrues seller commission and spawns Sale and Income records; the remaining
// balance carries the customer's previous unpaid remainder forward.
type Bill struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BillID     string             `bson:"billId" json:"billId"`
	BillNumber string             `bson:"billNumber" json:"billNumber"`
	SellerID   string             `bson:"sellerId" json:"sellerId"`

	Customer BillCustomer `bson:"customer" json:"customer"`
	Items    []BillItem   `bson:"items" json:"items"`

	SubTotal float64 `bson:"subTotal" json:"subTotal"`
	Discount float64 `bson:"discount" json:"discount"`
	Total    float64 `bson:"total" json:"total"`

	AmountPaid      float64       `bson:"amountPaid" json:"amountPaid"`
	RemainingAmount float64       `bson:"remainingAmount" json:"remainingAmount"`
	Payments        []BillPayment `bson:"payments" json:"payments"`

	Status BillStatus `bson:"status" json:"status"`

	// Links Sale records spawned by this bill back to it
	CorrelationID string `bson:"correlationId,omitempty" json:"correlationId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewBill creates a new Bill aggregate. previousRemaining is the customer's
// unpaid remainder from earlier bills; the new remaining balance is
// max(0, previousRemaining + total - amountPaid).
func NewBill(billNumber, sellerID string, customer BillCustomer, items []BillItem, discount, amountPaid, previousRemaining float64) (*Bill, error) {
	if sellerID == "" {
		return nil, ErrBillSellerMissing
	}
	if len(items) == 0 {
		return nil, ErrNoBillItems
	}

	subTotal := 0.0
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		items[i].TotalAmount = items[i].UnitPrice * float64(items[i].Quantity)
		subTotal += items[i].TotalAmount
	}
	total := subTotal - discount

	now := time.Now().UTC()
	billID := fmt.Sprintf("BIL-%s", uuid.New().String()[:8])

	bill := &Bill{
		ID:              primitive.NewObjectID(),
		BillID:          billID,
		BillNumber:      billNumber,
		SellerID:        sellerID,
		Customer:        customer,
		Items:           items,
		SubTotal:        subTotal,
		Discount:        discount,
		Total:           total,
		AmountPaid:      amountPaid,
		RemainingAmount: remainingBalance(previousRemaining, total, amountPaid),
		Payments:        make([]BillPayment, 0),
		Status:          BillStatusCompleted,
		CorrelationID:   uuid.New().String(),
		CreatedAt:       now,
		UpdatedAt:       now,
		domainEvents:    make([]DomainEvent, 0),
	}

	if amountPaid > 0 {
		bill.Payments = append(bill.Payments, BillPayment{Amount: amountPaid, PaidAt: now})
	}

	bill.addDomainEvent(&BillCreatedEvent{
		BillID:     billID,
		BillNumber: billNumber,
		SellerID:   sellerID,
		Total:      total,
		CreatedAt:  now,
	})

	return bill, nil
}

// remainingBalance floors the running balance at zero; overpayment never
// produces a negative remainder.
func remainingBalance(previousRemaining, total, amountPaid float64) float64 {
	remaining := previousRemaining + total - amountPaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AddPayment appends a payment, adjusting the paid and remaining amounts
func (b *Bill) AddPayment(amount float64) error {
	if amount <= 0 {
		return ErrInvalidPayment
	}
	if b.Status == BillStatusCancelled {
		return ErrBillCancelled
	}

	now := time.Now().UTC()
	b.AmountPaid += amount
	b.RemainingAmount -= amount
	if b.RemainingAmount < 0 {
		b.RemainingAmount = 0
	}
	b.Payments = append(b.Payments, BillPayment{Amount: amount, PaidAt: now})
	b.UpdatedAt = now

	b.addDomainEvent(&BillPaymentAddedEvent{
		BillID:          b.BillID,
		Amount:          amount,
		RemainingAmount: b.RemainingAmount,
		PaidAt:          now,
	})

	return nil
}

// Cancel marks the bill cancelled and reports whether stock must be
// restored. Only completed bills have consumed stock; cancelling a pending
// bill restores nothing.
func (b *Bill) Cancel() (restoreStock bool, err error) {
	if b.Status == BillStatusCancelled {
		return false, ErrBillCancelled
	}

	restoreStock = b.Status == BillStatusCompleted
	b.Status = BillStatusCancelled
	b.UpdatedAt = time.Now().UTC()

	b.addDomainEvent(&BillCancelledEvent{
		BillID:        b.BillID,
		StockRestored: restoreStock,
		CancelledAt:   b.UpdatedAt,
	})

	return restoreStock, nil
}

// SetStatus updates the lifecycle status with no side effects
func (b *Bill) SetStatus(status BillStatus) error {
	if !status.IsValid() {
		return ErrInvalidBillStatus
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplaceItems swaps the line items and recomputes the derived amounts. The
// remaining balance is adjusted by the change in total so earlier payments
// stay accounted for.
func (b *Bill) ReplaceItems(items []BillItem, discount float64) error {
	if len(items) == 0 {
		return ErrNoBillItems
	}

	subTotal := 0.0
	for i := range items {
		if items[i].Quantity <= 0 {
			return ErrInvalidQuantity
		}
		items[i].TotalAmount = items[i].UnitPrice * float64(items[i].Quantity)
		subTotal += items[i].TotalAmount
	}
	newTotal := subTotal - discount

	b.RemainingAmount = remainingBalance(b.RemainingAmount, newTotal-b.Total, 0)
	b.Items = items
	b.SubTotal = subTotal
	b.Discount = discount
	b.Total = newTotal
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// TotalQuantity returns the summed quantity across all line items. Seller
// commission accrues per unit, so this is the commission base.
func (b *Bill) TotalQuantity() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// ConsumptionPlan returns the stock plan that consumes this bill's items
func (b *Bill) ConsumptionPlan() StockPlan {
	plan := make(StockPlan, 0, len(b.Items))
	for _, item := range b.Items {
		plan = append(plan, StockDelta{ProductID: item.ProductID, Delta: item.Quantity})
	}
	return plan
}

// RestorationPlan returns the stock plan that adds this bill's items back
func (b *Bill) RestorationPlan() StockPlan {
	plan := make(StockPlan, 0, len(b.Items))
	for _, item := range b.Items {
		plan = append(plan, StockDelta{ProductID: item.ProductID, Delta: -item.Quantity})
	}
	return plan
}

// ItemLines converts the bill items to product lines for delta reconciliation
func (b *Bill) ItemLines() []ProductLine {
	lines := make([]ProductLine, 0, len(b.Items))
	for _, item := range b.Items {
		lines = append(lines, ProductLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Model:     item.Model,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func (b *Bill) addDomainEvent(event DomainEvent) {
	b.domainEvents = append(b.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (b *Bill) DomainEvents() []DomainEvent {
	return b.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (b *Bill) ClearDomainEvents() {
	b.domainEvents = make([]DomainEvent, 0)
}
