package domain

import (
	"context"
	"time"
)

// ProductRepository defines the interface for product persistence and the
// stock ledger contract
type ProductRepository interface {
	// Save persists a product (upsert)
	Save(ctx context.Context, product *Product) error

	// FindByID retrieves a product by its ProductID
	FindByID(ctx context.Context, productID string) (*Product, error)

	// FindByModel retrieves a product by its unique model
	FindByModel(ctx context.Context, model string) (*Product, error)

	// FindAll retrieves products matching the filter
	FindAll(ctx context.Context, filter ProductFilter, pagination Pagination) ([]*Product, error)

	// AdjustStock conditionally applies stock += delta: the write
	// succeeds only if the resulting stock stays >= 0. Returns the
	// updated product, or an InsufficientStockError when the guard
	// rejects the change.
	AdjustStock(ctx context.Context, productID string, delta int) (*Product, error)

	// Delete removes a product
	Delete(ctx context.Context, productID string) error

	// Count returns the number of products matching the filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)
}

// ProductFilter represents filter options for querying products
type ProductFilter struct {
	Category *string
	Model    *string
	LowStock bool
}

// StockHistoryRepository defines the interface for the stock movement trail
type StockHistoryRepository interface {
	// Insert appends a stock movement entry
	Insert(ctx context.Context, entry *StockHistory) error

	// FindByProduct retrieves a product's movements, newest first
	FindByProduct(ctx context.Context, productID string) ([]*StockHistory, error)

	// DeleteByProduct removes all movements for a product
	DeleteByProduct(ctx context.Context, productID string) error
}

// SellerRepository defines the interface for seller persistence and the
// commission ledger contract
type SellerRepository interface {
	// Save persists a seller (upsert)
	Save(ctx context.Context, seller *Seller) error

	// FindByID retrieves a seller by its SellerID
	FindByID(ctx context.Context, sellerID string) (*Seller, error)

	// FindAll retrieves all sellers
	FindAll(ctx context.Context, pagination Pagination) ([]*Seller, error)

	// AdjustCommission atomically applies commission += delta, floored at
	// zero, recomputing totalCommission and total in the same write.
	// Returns the updated seller.
	AdjustCommission(ctx context.Context, sellerID string, delta float64) (*Seller, error)

	// Delete removes a seller
	Delete(ctx context.Context, sellerID string) error

	// Count returns the number of sellers
	Count(ctx context.Context) (int64, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Save persists a customer (upsert)
	Save(ctx context.Context, customer *Customer) error

	// FindByID retrieves a customer by its CustomerID
	FindByID(ctx context.Context, customerID string) (*Customer, error)

	// FindAll retrieves customers matching the filter
	FindAll(ctx context.Context, filter CustomerFilter, pagination Pagination) ([]*Customer, error)

	// Delete removes a customer
	Delete(ctx context.Context, customerID string) error

	// Count returns the number of customers matching the filter
	Count(ctx context.Context, filter CustomerFilter) (int64, error)
}

// CustomerFilter represents filter options for querying customers
type CustomerFilter struct {
	Type     *CustomerType
	SellerID *string
}

// BillRepository defines the interface for bill persistence
type BillRepository interface {
	// Save persists a bill (upsert)
	Save(ctx context.Context, bill *Bill) error

	// FindByID retrieves a bill by its BillID
	FindByID(ctx context.Context, billID string) (*Bill, error)

	// FindAll retrieves bills matching the filter
	FindAll(ctx context.Context, filter BillFilter, pagination Pagination) ([]*Bill, error)

	// NextBillNumber reserves the next number in the bill sequence via an
	// atomic counter
	NextBillNumber(ctx context.Context) (string, error)

	// LatestRemainingForCustomer returns the remaining balance of the
	// customer's most recent bill, or zero when none exists
	LatestRemainingForCustomer(ctx context.Context, customerName string) (float64, error)

	// Count returns the number of bills matching the filter
	Count(ctx context.Context, filter BillFilter) (int64, error)

	// CustomerStats aggregates purchase totals across all of the
	// customer's bills
	CustomerStats(ctx context.Context, customerName string) (*CustomerBillStats, error)

	// StatsSince aggregates completed bills created at or after the cutoff
	StatsSince(ctx context.Context, since time.Time) (*BillingWindowStats, error)
}

// BillFilter represents filter options for querying bills
type BillFilter struct {
	SellerID     *string
	Status       *BillStatus
	CustomerName *string
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       *string
}

// CustomerBillStats summarizes a customer's purchase history
type CustomerBillStats struct {
	TotalPurchases    int64
	TotalAmount       float64
	AverageOrderValue float64
	TotalPaid         float64
}

// BillingWindowStats summarizes completed bills inside a reporting window
type BillingWindowStats struct {
	TotalBills        int64
	TotalRevenue      float64
	AverageOrderValue float64
}

// ParcelRepository defines the interface for parcel persistence
type ParcelRepository interface {
	// Save persists a parcel (upsert)
	Save(ctx context.Context, parcel *Parcel) error

	// FindByID retrieves a parcel by its ParcelID
	FindByID(ctx context.Context, parcelID string) (*Parcel, error)

	// FindByTrackingNumber retrieves a parcel by its tracking number
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Parcel, error)

	// FindAll retrieves parcels matching the filter
	FindAll(ctx context.Context, filter ParcelFilter, pagination Pagination) ([]*Parcel, error)

	// Delete removes a parcel
	Delete(ctx context.Context, parcelID string) error

	// Count returns the number of parcels matching the filter
	Count(ctx context.Context, filter ParcelFilter) (int64, error)
}

// ParcelFilter represents filter options for querying parcels
type ParcelFilter struct {
	Status        *ParcelStatus
	PaymentStatus *PaymentStatus
}

// SaleRepository defines the interface for the sale ledger
type SaleRepository interface {
	// Insert appends sale records
	Insert(ctx context.Context, sales []*Sale) error

	// FindByID retrieves a sale by its SaleID
	FindByID(ctx context.Context, saleID string) (*Sale, error)

	// FindMatching retrieves commission rows selected by the match
	FindMatching(ctx context.Context, match SaleMatch) ([]*Sale, error)

	// DeleteMatching removes commission rows selected by the match and
	// returns the number removed
	DeleteMatching(ctx context.Context, match SaleMatch) (int64, error)

	// FindAll retrieves sales matching the filter
	FindAll(ctx context.Context, filter SaleFilter, pagination Pagination) ([]*Sale, error)

	// FindLatest retrieves the most recent sale matching the filter, or
	// nil when none exists
	FindLatest(ctx context.Context, filter SaleFilter) (*Sale, error)

	// SellerStats aggregates sale totals for one seller
	SellerStats(ctx context.Context, sellerID string) (*SellerSaleStats, error)

	// Delete removes a single sale record
	Delete(ctx context.Context, saleID string) error

	// Count returns the number of sales matching the filter
	Count(ctx context.Context, filter SaleFilter) (int64, error)
}

// SaleFilter represents filter options for querying sales
type SaleFilter struct {
	SellerID   *string
	CustomerID *string
	ProductID  *string
}

// SellerSaleStats summarizes a seller's recorded sales
type SellerSaleStats struct {
	TotalSales        int64
	TotalRevenue      float64
	TotalCommission   float64
	TotalProductsSold int64
}

// ReturnRepository defines the interface for return persistence
type ReturnRepository interface {
	// Save persists a return record
	Save(ctx context.Context, ret *Return) error

	// FindByID retrieves a return by its ReturnID
	FindByID(ctx context.Context, returnID string) (*Return, error)

	// FindAll retrieves return records matching the filter
	FindAll(ctx context.Context, filter ReturnFilter, pagination Pagination) ([]*Return, error)

	// Count returns the number of return records matching the filter
	Count(ctx context.Context, filter ReturnFilter) (int64, error)
}

// ReturnFilter represents filters for querying return records
type ReturnFilter struct {
	Search *string
}

// PurchaseBatchRepository defines the interface for purchase batch persistence
type PurchaseBatchRepository interface {
	// Save persists a purchase batch
	Save(ctx context.Context, batch *PurchaseBatch) error

	// FindByID retrieves a purchase batch by its BatchID
	FindByID(ctx context.Context, batchID string) (*PurchaseBatch, error)

	// FindAll retrieves purchase batches matching the filter
	FindAll(ctx context.Context, filter PurchaseBatchFilter, pagination Pagination) ([]*PurchaseBatch, error)

	// Count returns the number of purchase batches matching the filter
	Count(ctx context.Context, filter PurchaseBatchFilter) (int64, error)
}

// PurchaseBatchFilter represents filter options for querying purchase batches
type PurchaseBatchFilter struct {
	SupplierName *string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// IncomeRepository defines the interface for the income log
type IncomeRepository interface {
	// Save persists an income entry
	Save(ctx context.Context, income *Income) error

	// FindAll retrieves income entries
	FindAll(ctx context.Context, filter IncomeFilter, pagination Pagination) ([]*Income, error)

	// Count returns the number of income entries matching the filter
	Count(ctx context.Context, filter IncomeFilter) (int64, error)
}

// IncomeFilter represents filter options for querying income entries
type IncomeFilter struct {
	Type   *IncomeType
	BillID *string
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}
