package domain

import "time"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// ProductCreatedEvent is emitted when a new product is created
type ProductCreatedEvent struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *ProductCreatedEvent) EventType() string     { return "product.created" }
func (e *ProductCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// StockAdjustedEvent is emitted when a product's stock changes
type StockAdjustedEvent struct {
	ProductID  string    `json:"productId"`
	Delta      int       `json:"delta"`
	NewStock   int       `json:"newStock"`
	Source     string    `json:"source"`
	AdjustedAt time.Time `json:"adjustedAt"`
}

func (e *StockAdjustedEvent) EventType() string     { return "product.stock_adjusted" }
func (e *StockAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }

// SellerCreatedEvent is emitted when a new seller is created
type SellerCreatedEvent struct {
	SellerID       string    `json:"sellerId"`
	Name           string    `json:"name"`
	CommissionRate float64   `json:"commissionRate"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e *SellerCreatedEvent) EventType() string     { return "seller.created" }
func (e *SellerCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// CommissionAdjustedEvent is emitted when a seller's commission balance changes
type CommissionAdjustedEvent struct {
	SellerID   string    `json:"sellerId"`
	Delta      float64   `json:"delta"`
	Source     string    `json:"source"`
	AdjustedAt time.Time `json:"adjustedAt"`
}

func (e *CommissionAdjustedEvent) EventType() string     { return "seller.commission_adjusted" }
func (e *CommissionAdjustedEvent) OccurredAt() time.Time { return e.AdjustedAt }

// CustomerCreatedEvent is emitted when a new customer is created
type CustomerCreatedEvent struct {
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	SellerID   string    `json:"sellerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *CustomerCreatedEvent) EventType() string     { return "customer.created" }
func (e *CustomerCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// CustomerDeletedEvent is emitted when a customer is deleted and its side
// effects reversed
type CustomerDeletedEvent struct {
	CustomerID string    `json:"customerId"`
	DeletedAt  time.Time `json:"deletedAt"`
}

func (e *CustomerDeletedEvent) EventType() string     { return "customer.deleted" }
func (e *CustomerDeletedEvent) OccurredAt() time.Time { return e.DeletedAt }

// BillCreatedEvent is emitted when a bill is created
type BillCreatedEvent struct {
	BillID     string    `json:"billId"`
	BillNumber string    `json:"billNumber"`
	SellerID   string    `json:"sellerId"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *BillCreatedEvent) EventType() string     { return "bill.created" }
func (e *BillCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// BillPaymentAddedEvent is emitted when a payment is appended to a bill
type BillPaymentAddedEvent struct {
	BillID          string    `json:"billId"`
	Amount          float64   `json:"amount"`
	RemainingAmount float64   `json:"remainingAmount"`
	PaidAt          time.Time `json:"paidAt"`
}

func (e *BillPaymentAddedEvent) EventType() string     { return "bill.payment_added" }
func (e *BillPaymentAddedEvent) OccurredAt() time.Time { return e.PaidAt }

// BillCancelledEvent is emitted when a bill is cancelled
type BillCancelledEvent struct {
	BillID        string    `json:"billId"`
	StockRestored bool      `json:"stockRestored"`
	CancelledAt   time.Time `json:"cancelledAt"`
}

func (e *BillCancelledEvent) EventType() string     { return "bill.cancelled" }
func (e *BillCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }

// ParcelCreatedEvent is emitted when a parcel is created
type ParcelCreatedEvent struct {
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e *ParcelCreatedEvent) EventType() string     { return "parcel.created" }
func (e *ParcelCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// ParcelReturnedEvent is emitted when a parcel transitions into the return
// status and its stock is restored
type ParcelReturnedEvent struct {
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	ReturnedAt     time.Time `json:"returnedAt"`
}

func (e *ParcelReturnedEvent) EventType() string     { return "parcel.returned" }
func (e *ParcelReturnedEvent) OccurredAt() time.Time { return e.ReturnedAt }

// ReturnCreatedEvent is emitted when a product return is recorded
type ReturnCreatedEvent struct {
	ReturnID  string    `json:"returnId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *ReturnCreatedEvent) EventType() string     { return "return.created" }
func (e *ReturnCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }
