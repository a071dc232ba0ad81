package application

import (
	"time"
)

// ProductLineInput is one product/quantity pair in a request body
type ProductLineInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateProductCommand represents the command to create a product
type CreateProductCommand struct {
	Name           string  `json:"name" binding:"required"`
	Model          string  `json:"model" binding:"required"`
	Category       string  `json:"category"`
	OriginalPrice  float64 `json:"originalPrice" binding:"gte=0"`
	WholesalePrice float64 `json:"wholesalePrice" binding:"gte=0"`
	RetailPrice    float64 `json:"retailPrice" binding:"gte=0"`
	WebsitePrice   float64 `json:"websitePrice" binding:"gte=0"`
	Stock          int     `json:"stock" binding:"gte=0"`
}

// UpdateProductCommand represents the command to update a product's details
type UpdateProductCommand struct {
	ProductID      string  `json:"productId"` // Set from URL path by handler
	Name           string  `json:"name" binding:"required"`
	Model          string  `json:"model" binding:"required"`
	Category       string  `json:"category"`
	OriginalPrice  float64 `json:"originalPrice" binding:"gte=0"`
	WholesalePrice float64 `json:"wholesalePrice" binding:"gte=0"`
	RetailPrice    float64 `json:"retailPrice" binding:"gte=0"`
	WebsitePrice   float64 `json:"websitePrice" binding:"gte=0"`
}

// AdjustStockCommand represents a direct signed stock adjustment
type AdjustStockCommand struct {
	ProductID string `json:"productId"` // Set from URL path by handler
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

// CreateSellerCommand represents the command to create a seller
type CreateSellerCommand struct {
	Name           string  `json:"name" binding:"required"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commissionRate" binding:"gte=0"`
	BasicSalary    float64 `json:"basicSalary" binding:"gte=0"`
}

// UpdateSellerCommand represents the command to update a seller
type UpdateSellerCommand struct {
	SellerID       string  `json:"sellerId"` // Set from URL path by handler
	Name           string  `json:"name" binding:"required"`
	Phone          string  `json:"phone"`
	CommissionRate float64 `json:"commissionRate" binding:"gte=0"`
	BasicSalary    float64 `json:"basicSalary" binding:"gte=0"`
}

// CreateCustomerCommand represents the command to create a customer
type CreateCustomerCommand struct {
	Name     string             `json:"name" binding:"required"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
	Type     string             `json:"type" binding:"required,customer_type"`
	Products []ProductLineInput `json:"productsInfo" binding:"required,min=1,dive"`
	SellerID string             `json:"sellerId"`
	Price    float64            `json:"price" binding:"gte=0"`
}

// UpdateCustomerCommand represents the command to update a customer. Products
// being nil means the product set is untouched; stock and commission logic is
// skipped.
type UpdateCustomerCommand struct {
	CustomerID string              `json:"customerId"` // Set from URL path by handler
	Name       string              `json:"name" binding:"required"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	Type       string              `json:"type" binding:"required,customer_type"`
	Products   []ProductLineInput  `json:"productsInfo" binding:"omitempty,min=1,dive"`
	SellerID   *string             `json:"sellerId"`
	Price      *float64            `json:"price" binding:"omitempty,gte=0"`
}

// BillItemInput is one invoice line in a request body
type BillItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	PriceTier string  `json:"priceTier" binding:"omitempty,oneof=original wholesale retail website"`
	UnitPrice float64 `json:"unitPrice" binding:"omitempty,gte=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

// BillCustomerInput is the customer snapshot in a bill request
type BillCustomerInput struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// CreateBillCommand represents the command to create a bill
type CreateBillCommand struct {
	SellerID   string            `json:"sellerId" binding:"required"`
	Customer   BillCustomerInput `json:"customer" binding:"required"`
	Items      []BillItemInput   `json:"items" binding:"required,min=1,dive"`
	Discount   float64           `json:"discount" binding:"gte=0"`
	AmountPaid float64           `json:"amountPaid" binding:"gte=0"`
	IncomeType string            `json:"incomeType" binding:"omitempty,income_type"`
}

// UpdateBillCommand represents the command to replace a bill's line items
type UpdateBillCommand struct {
	BillID   string          `json:"billId"` // Set from URL path by handler
	Items    []BillItemInput `json:"items" binding:"required,min=1,dive"`
	Discount float64         `json:"discount" binding:"gte=0"`
}

// AddBillPaymentCommand represents the command to append a bill payment
type AddBillPaymentCommand struct {
	BillID     string  `json:"billId"` // Set from URL path by handler
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	IncomeType string  `json:"incomeType" binding:"omitempty,income_type"`
}

// UpdateBillStatusCommand represents the command to set a bill's status
type UpdateBillStatusCommand struct {
	BillID string `json:"billId"` // Set from URL path by handler
	Status string `json:"status" binding:"required,oneof=pending completed cancelled"`
}

// CreateParcelCommand represents the command to create a parcel
type CreateParcelCommand struct {
	TrackingNumber string             `json:"trackingNumber" binding:"required,tracking_number"`
	Recipient      string             `json:"recipient"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Products       []ProductLineInput `json:"productsInfo" binding:"required,min=1,dive"`
	CODAmount      float64            `json:"codAmount" binding:"gte=0"`
	ParcelDate     *time.Time         `json:"parcelDate"`
}

// UpdateParcelCommand represents the command to update a parcel. Products
// being nil leaves the product set and stock untouched.
type UpdateParcelCommand struct {
	ParcelID       string             `json:"parcelId"` // Set from URL path by handler
	TrackingNumber string             `json:"trackingNumber" binding:"omitempty,tracking_number"`
	Recipient      string             `json:"recipient"`
	Phone          string             `json:"phone"`
	Address        string             `json:"address"`
	Products       []ProductLineInput `json:"productsInfo" binding:"omitempty,min=1,dive"`
	CODAmount      *float64           `json:"codAmount" binding:"omitempty,gte=0"`
	PaymentStatus  string             `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid"`
}

// UpdateParcelStatusCommand represents the command to transition a parcel's
// courier status
type UpdateParcelStatusCommand struct {
	ParcelID string `json:"parcelId"` // Set from URL path by handler
	Status   string `json:"status" binding:"required,oneof=processing delivered return"`
}

// CreateReturnCommand represents the command to record a product return
type CreateReturnCommand struct {
	ProductID  string  `json:"productId" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice  float64 `json:"unitPrice" binding:"gte=0"`
	TrackingID string  `json:"trackingId"`
	Notes      string  `json:"notes"`
}

// CreateSaleCommand represents the command to record a manual sale
type CreateSaleCommand struct {
	ProductID string  `json:"productId" binding:"required"`
	SellerID  string  `json:"sellerId"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" binding:"gte=0"`
}

// PurchaseBatchItemInput is one item line of a supplier delivery
type PurchaseBatchItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" binding:"gte=0"`
}

// CreatePurchaseBatchCommand represents the command to record a supplier
// delivery and add its quantities to stock
type CreatePurchaseBatchCommand struct {
	SupplierName string                   `json:"supplierName" binding:"required"`
	BatchNumber  string                   `json:"batchNumber"`
	PurchaseDate *time.Time               `json:"purchaseDate"`
	Notes        string                   `json:"notes"`
	Items        []PurchaseBatchItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateIncomeCommand represents the command to log an income entry
type CreateIncomeCommand struct {
	Type           string  `json:"type" binding:"required,income_type"`
	Source         string  `json:"source" binding:"required"`
	ExpectedAmount float64 `json:"expectedAmount" binding:"gte=0"`
	Amount         float64 `json:"amount" binding:"gte=0"`
}

// Query types

// GetProductQuery represents a query to get a product by ID
type GetProductQuery struct {
	ProductID string
}

// ListProductsQuery represents a query to list products with filters
type ListProductsQuery struct {
	Category *string
	LowStock bool
	Page     int64
	PageSize int64
}

// ListCustomersQuery represents a query to list customers with filters
type ListCustomersQuery struct {
	Type     *string
	SellerID *string
	Page     int64
	PageSize int64
}

// ListBillsQuery represents a query to list bills with filters
type ListBillsQuery struct {
	SellerID     *string
	Status       *string
	CustomerName *string
	StartDate    *time.Time
	EndDate      *time.Time
	Search       *string
	Page         int64
	PageSize     int64
}

// ListParcelsQuery represents a query to list parcels with filters
type ListParcelsQuery struct {
	Status        *string
	PaymentStatus *string
	Page          int64
	PageSize      int64
}

// ListSalesQuery represents a query to list sale records with filters
type ListSalesQuery struct {
	SellerID   *string
	CustomerID *string
	ProductID  *string
	Page       int64
	PageSize   int64
}

// ListPurchaseBatchesQuery represents a query to list purchase batches
type ListPurchaseBatchesQuery struct {
	SupplierName *string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int64
	PageSize     int64
}

// ListIncomesQuery represents a query to list income entries
type ListIncomesQuery struct {
	Type     *string
	BillID   *string
	Page     int64
	PageSize int64
}
