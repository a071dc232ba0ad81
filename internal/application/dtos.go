package application

import (
	"time"

	"github.com/emporium/backoffice/internal/domain"
)

// SideEffect records one secondary accounting step that failed after the
// primary write succeeded. The primary operation still reports success;
// callers and tests can assert on the degraded list instead of log output.
type SideEffect struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// ProductDTO represents a product in API responses
type ProductDTO struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Model     string      `json:"model"`
	Category  string      `json:"category,omitempty"`
	Prices    PriceSetDTO `json:"prices"`
	Stock     int         `json:"stock"`
	LowStock  bool        `json:"lowStock"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// StockHistoryDTO represents a stock movement entry in API responses
type StockHistoryDTO struct {
	ProductID     string    `json:"productId"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previousStock"`
	NewStock      int       `json:"newStock"`
	Reason        string    `json:"reason"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PriceSetDTO represents a product's price tiers in API responses
type PriceSetDTO struct {
	Original  float64 `json:"original"`
	Wholesale float64 `json:"wholesale"`
	Retail    float64 `json:"retail"`
	Website   float64 `json:"website"`
}

// SellerDTO represents a seller in API responses
type SellerDTO struct {
	SellerID        string    `json:"sellerId"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	CommissionRate  float64   `json:"commissionRate"`
	BasicSalary     float64   `json:"basicSalary"`
	Commission      float64   `json:"commission"`
	TotalCommission float64   `json:"totalCommission"`
	Total           float64   `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProductLineDTO represents one product/quantity pair in API responses
type ProductLineDTO struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Model     string `json:"model,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CustomerDTO represents a customer in API responses
type CustomerDTO struct {
	CustomerID string           `json:"customerId"`
	Name       string           `json:"name"`
	Phone      string           `json:"phone,omitempty"`
	Address    string           `json:"address,omitempty"`
	Type       string           `json:"type"`
	Products   []ProductLineDTO `json:"productsInfo"`
	SellerID   string           `json:"sellerId,omitempty"`
	Price      float64          `json:"price,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	Degraded []SideEffect `json:"degraded,omitempty"`
}

// BillItemDTO represents one invoice line in API responses
type BillItemDTO struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Model       string  `json:"model,omitempty"`
	PriceTier   string  `json:"priceTier"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"totalAmount"`
}

// BillDTO represents a bill in API responses
type BillDTO struct {
	BillID          string          `json:"billId"`
	BillNumber      string          `json:"billNumber"`
	SellerID        string          `json:"sellerId"`
	Customer        BillCustomerDTO `json:"customer"`
	Items           []BillItemDTO   `json:"items"`
	SubTotal        float64         `json:"subTotal"`
	Discount        float64         `json:"discount"`
	Total           float64         `json:"total"`
	AmountPaid      float64         `json:"amountPaid"`
	RemainingAmount float64         `json:"remainingAmount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Degraded []SideEffect `json:"degraded,omitempty"`
}

// BillCustomerDTO represents the embedded customer snapshot in API responses
type BillCustomerDTO struct {
	CustomerID string `json:"customerId,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

// ParcelDTO represents a parcel in API responses
type ParcelDTO struct {
	ParcelID       string           `json:"parcelId"`
	TrackingNumber string           `json:"trackingNumber"`
	Recipient      string           `json:"recipient,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Address        string           `json:"address,omitempty"`
	Products       []ProductLineDTO `json:"productsInfo"`
	Status         string           `json:"status"`
	PaymentStatus  string           `json:"paymentStatus"`
	CODAmount      float64          `json:"codAmount"`
	ParcelDate     time.Time        `json:"parcelDate"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// SaleDTO represents a sale record in API responses
type SaleDTO struct {
	SaleID       string    `json:"saleId"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	SellerID     string    `json:"sellerId,omitempty"`
	SellerName   string    `json:"sellerName,omitempty"`
	CustomerID   string    `json:"customerId,omitempty"`
	CustomerName string    `json:"customerName,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unitPrice"`
	Total        float64   `json:"total"`
	Commission   float64   `json:"commission"`
	CreatedAt    time.Time `json:"createdAt"`

	Degraded []SideEffect `json:"degraded,omitempty"`
}

// ReturnDTO represents a return record in API responses
type ReturnDTO struct {
	ReturnID    string    `json:"returnId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TrackingID  string    `json:"trackingId,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PurchaseBatchItemDTO represents one item of a supplier delivery
type PurchaseBatchItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// PurchaseBatchDTO represents a purchase batch in API responses
type PurchaseBatchDTO struct {
	BatchID      string                 `json:"batchId"`
	BatchNumber  string                 `json:"batchNumber,omitempty"`
	SupplierName string                 `json:"supplierName"`
	PurchaseDate time.Time              `json:"purchaseDate"`
	Notes        string                 `json:"notes,omitempty"`
	Items        []PurchaseBatchItemDTO `json:"items"`
	TotalAmount  float64                `json:"totalAmount"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// IncomeDTO represents an income entry in API responses
type IncomeDTO struct {
	IncomeID       string    `json:"incomeId"`
	Type           string    `json:"type"`
	Source         string    `json:"source"`
	ExpectedAmount float64   `json:"expectedAmount"`
	Amount         float64   `json:"amount"`
	BillID         string    `json:"billId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CommissionBackfillDTO summarizes a backfill or preview run per seller
type CommissionBackfillDTO struct {
	CustomersScanned int                        `json:"customersScanned"`
	CustomersRepair  int                        `json:"customersRepaired"`
	Sellers          []SellerBackfillSummaryDTO `json:"sellers"`
	DryRun           bool                       `json:"dryRun"`

	Degraded []SideEffect `json:"degraded,omitempty"`
}

// SellerBackfillSummaryDTO is the per-seller aggregation of a backfill run
type SellerBackfillSummaryDTO struct {
	SellerID   string  `json:"sellerId"`
	Customers  int     `json:"customers"`
	Units      int     `json:"units"`
	Commission float64 `json:"commission"`
}

// CustomerHistoryDTO pairs a customer's bill listing with purchase totals
type CustomerHistoryDTO struct {
	Bills ListResponse[BillDTO]   `json:"bills"`
	Stats CustomerHistoryStatsDTO `json:"stats"`
}

// CustomerHistoryStatsDTO summarizes a customer's purchase history. The
// remaining total comes from the latest bill, not a sum, because each bill
// carries the running balance forward.
type CustomerHistoryStatsDTO struct {
	TotalPurchases    int64   `json:"totalPurchases"`
	TotalAmount       float64 `json:"totalAmount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	TotalPaid         float64 `json:"totalPaid"`
	TotalRemaining    float64 `json:"totalRemaining"`
}

// BillingStatsDTO reports completed-bill totals per reporting window
type BillingStatsDTO struct {
	Daily   BillingWindowDTO `json:"daily"`
	Monthly BillingWindowDTO `json:"monthly"`
	Yearly  BillingWindowDTO `json:"yearly"`
}

// BillingWindowDTO is one reporting window's totals
type BillingWindowDTO struct {
	TotalBills        int64   `json:"totalBills"`
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// LastPriceDTO reports the unit price a customer last paid for a product
type LastPriceDTO struct {
	Found     bool      `json:"found"`
	UnitPrice float64   `json:"unitPrice,omitempty"`
	Date      time.Time `json:"date,omitzero"`
}

// SellerCommissionSummaryDTO combines the seller's ledger balances with
// totals aggregated from the sale history
type SellerCommissionSummaryDTO struct {
	SellerID          string  `json:"sellerId"`
	Name              string  `json:"name"`
	CommissionRate    float64 `json:"commissionRate"`
	BasicSalary       float64 `json:"basicSalary"`
	Commission        float64 `json:"commission"`
	TotalCommission   float64 `json:"totalCommission"`
	Total             float64 `json:"total"`
	TotalSales        int64   `json:"totalSales"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProductsSold int64   `json:"totalProductsSold"`
}

// ListResponse is the generic paginated list envelope
type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	PageSize   int64 `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

// ToProductDTO converts a domain Product to a ProductDTO
func ToProductDTO(product *domain.Product) *ProductDTO {
	return &ProductDTO{
		ProductID: product.ProductID,
		Name:      product.Name,
		Model:     product.Model,
		Category:  product.Category,
		Prices: PriceSetDTO{
			Original:  product.Prices.Original,
			Wholesale: product.Prices.Wholesale,
			Retail:    product.Prices.Retail,
			Website:   product.Prices.Website,
		},
		Stock:     product.Stock,
		LowStock:  product.IsLowStock(),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// ToStockHistoryDTO converts a domain StockHistory to a StockHistoryDTO
func ToStockHistoryDTO(entry *domain.StockHistory) *StockHistoryDTO {
	return &StockHistoryDTO{
		ProductID:     entry.ProductID,
		Type:          string(entry.Type),
		Quantity:      entry.Quantity,
		PreviousStock: entry.PreviousStock,
		NewStock:      entry.NewStock,
		Reason:        entry.Reason,
		Notes:         entry.Notes,
		CreatedAt:     entry.CreatedAt,
	}
}

// ToSellerDTO converts a domain Seller to a SellerDTO
func ToSellerDTO(seller *domain.Seller) *SellerDTO {
	return &SellerDTO{
		SellerID:        seller.SellerID,
		Name:            seller.Name,
		Phone:           seller.Phone,
		CommissionRate:  seller.CommissionRate,
		BasicSalary:     seller.BasicSalary,
		Commission:      seller.Commission,
		TotalCommission: seller.TotalCommission,
		Total:           seller.Total,
		CreatedAt:       seller.CreatedAt,
		UpdatedAt:       seller.UpdatedAt,
	}
}

// ToProductLineDTOs converts domain product lines to DTOs
func ToProductLineDTOs(lines []domain.ProductLine) []ProductLineDTO {
	dtos := make([]ProductLineDTO, len(lines))
	for i, line := range lines {
		dtos[i] = ProductLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Model:     line.Model,
			Quantity:  line.Quantity,
		}
	}
	return dtos
}

// ToCustomerDTO converts a domain Customer to a CustomerDTO
func ToCustomerDTO(customer *domain.Customer, degraded []SideEffect) *CustomerDTO {
	return &CustomerDTO{
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
		Phone:      customer.Phone,
		Address:    customer.Address,
		Type:       string(customer.Type),
		Products:   ToProductLineDTOs(customer.EffectiveProductLines()),
		SellerID:   customer.SellerID,
		Price:      customer.Price,
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
		Degraded:   degraded,
	}
}

// ToBillDTO converts a domain Bill to a BillDTO
func ToBillDTO(bill *domain.Bill, degraded []SideEffect) *BillDTO {
	items := make([]BillItemDTO, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = BillItemDTO{
			ProductID:   item.ProductID,
			Name:        item.Name,
			Model:       item.Model,
			PriceTier:   string(item.PriceTier),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			TotalAmount: item.TotalAmount,
		}
	}

	return &BillDTO{
		BillID:     bill.BillID,
		BillNumber: bill.BillNumber,
		SellerID:   bill.SellerID,
		Customer: BillCustomerDTO{
			CustomerID: bill.Customer.CustomerID,
			Name:       bill.Customer.Name,
			Phone:      bill.Customer.Phone,
			Address:    bill.Customer.Address,
		},
		Items:           items,
		SubTotal:        bill.SubTotal,
		Discount:        bill.Discount,
		Total:           bill.Total,
		AmountPaid:      bill.AmountPaid,
		RemainingAmount: bill.RemainingAmount,
		Status:          string(bill.Status),
		CreatedAt:       bill.CreatedAt,
		UpdatedAt:       bill.UpdatedAt,
		Degraded:        degraded,
	}
}

// ToParcelDTO converts a domain Parcel to a ParcelDTO
func ToParcelDTO(parcel *domain.Parcel) *ParcelDTO {
	return &ParcelDTO{
		ParcelID:       parcel.ParcelID,
		TrackingNumber: parcel.TrackingNumber,
		Recipient:      parcel.Recipient,
		Phone:          parcel.Phone,
		Address:        parcel.Address,
		Products:       ToProductLineDTOs(parcel.EffectiveProductLines()),
		Status:         string(parcel.Status),
		PaymentStatus:  string(parcel.PaymentStatus),
		CODAmount:      parcel.CODAmount,
		ParcelDate:     parcel.ParcelDate,
		CreatedAt:      parcel.CreatedAt,
		UpdatedAt:      parcel.UpdatedAt,
	}
}

// ToSaleDTO converts a domain Sale to a SaleDTO
func ToSaleDTO(sale *domain.Sale, degraded []SideEffect) *SaleDTO {
	return &SaleDTO{
		SaleID:       sale.SaleID,
		ProductID:    sale.ProductID,
		ProductName:  sale.ProductName,
		SellerID:     sale.SellerID,
		SellerName:   sale.SellerName,
		CustomerID:   sale.CustomerID,
		CustomerName: sale.CustomerName,
		Quantity:     sale.Quantity,
		UnitPrice:    sale.UnitPrice,
		Total:        sale.Total,
		Commission:   sale.Commission,
		CreatedAt:    sale.CreatedAt,
		Degraded:     degraded,
	}
}

// ToReturnDTO converts a domain Return to a ReturnDTO
func ToReturnDTO(ret *domain.Return) *ReturnDTO {
	return &ReturnDTO{
		ReturnID:    ret.ReturnID,
		ProductID:   ret.ProductID,
		ProductName: ret.ProductName,
		Quantity:    ret.Quantity,
		UnitPrice:   ret.UnitPrice,
		TrackingID:  ret.TrackingID,
		Notes:       ret.Notes,
		CreatedAt:   ret.CreatedAt,
	}
}

// ToPurchaseBatchDTO converts a domain PurchaseBatch to a PurchaseBatchDTO
func ToPurchaseBatchDTO(batch *domain.PurchaseBatch) *PurchaseBatchDTO {
	items := make([]PurchaseBatchItemDTO, len(batch.Items))
	for i, item := range batch.Items {
		items[i] = PurchaseBatchItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return &PurchaseBatchDTO{
		BatchID:      batch.BatchID,
		BatchNumber:  batch.BatchNumber,
		SupplierName: batch.SupplierName,
		PurchaseDate: batch.PurchaseDate,
		Notes:        batch.Notes,
		Items:        items,
		TotalAmount:  batch.TotalAmount,
		CreatedAt:    batch.CreatedAt,
	}
}

// ToIncomeDTO converts a domain Income to an IncomeDTO
func ToIncomeDTO(income *domain.Income) *IncomeDTO {
	return &IncomeDTO{
		IncomeID:       income.IncomeID,
		Type:           string(income.Type),
		Source:         income.Source,
		ExpectedAmount: income.ExpectedAmount,
		Amount:         income.Amount,
		BillID:         income.BillID,
		CreatedAt:      income.CreatedAt,
	}
}

func clampPagination(page, pageSize int64) domain.Pagination {
	pagination := domain.Pagination{Page: page, PageSize: pageSize}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize < 1 || pagination.PageSize > 100 {
		pagination.PageSize = 20
	}
	return pagination
}

func totalPages(total, pageSize int64) int64 {
	return (total + pageSize - 1) / pageSize
}
