package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emporium/backoffice/internal/domain"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mu       sync.Mutex
	products map[string]*domain.Product

	SaveFunc        func(ctx context.Context, product *domain.Product) error
	FindByIDFunc    func(ctx context.Context, productID string) (*domain.Product, error)
	FindByModelFunc func(ctx context.Context, model string) (*domain.Product, error)
	FindAllFunc     func(ctx context.Context, filter domain.ProductFilter, pagination domain.Pagination) ([]*domain.Product, error)
	AdjustStockFunc func(ctx context.Context, productID string, delta int) (*domain.Product, error)
	DeleteFunc      func(ctx context.Context, productID string) error
	CountFunc       func(ctx context.Context, filter domain.ProductFilter) (int64, error)
}

// NewMockProductRepository creates a new mock repository
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*domain.Product)}
}

// AddProduct adds a product to the mock repository
func (m *MockProductRepository) AddProduct(product *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ProductID] = product
}

// Save implements domain.ProductRepository
func (m *MockProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ProductID] = product
	return nil
}

// FindByID implements domain.ProductRepository
func (m *MockProductRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID], nil
}

// FindByModel implements domain.ProductRepository
func (m *MockProductRepository) FindByModel(ctx context.Context, model string) (*domain.Product, error) {
	if m.FindByModelFunc != nil {
		return m.FindByModelFunc(ctx, model)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, product := range m.products {
		if product.Model == model {
			return product, nil
		}
	}
	return nil, nil
}

// FindAll implements domain.ProductRepository
func (m *MockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter, pagination domain.Pagination) ([]*domain.Product, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Product, 0, len(m.products))
	for _, product := range m.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result, nil
}

// AdjustStock implements domain.ProductRepository with the same non-negative
// guard semantics as the real store
func (m *MockProductRepository) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, productID, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: -delta,
			Available: product.Stock,
		}
	}
	product.Stock += delta
	return product, nil
}

// Delete implements domain.ProductRepository
func (m *MockProductRepository) Delete(ctx context.Context, productID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[productID]; !ok {
		return errors.New("product not found")
	}
	delete(m.products, productID)
	return nil
}

// Count implements domain.ProductRepository
func (m *MockProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

// StockOf returns the current stock level for assertions
func (m *MockProductRepository) StockOf(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[productID]; ok {
		return product.Stock
	}
	return 0
}

// MockStockHistoryRepository is a mock implementation of domain.StockHistoryRepository
type MockStockHistoryRepository struct {
	mu      sync.Mutex
	entries []*domain.StockHistory

	InsertFunc func(ctx context.Context, entry *domain.StockHistory) error
}

// NewMockStockHistoryRepository creates a new mock repository
func NewMockStockHistoryRepository() *MockStockHistoryRepository {
	return &MockStockHistoryRepository{}
}

// Insert implements domain.StockHistoryRepository
func (m *MockStockHistoryRepository) Insert(ctx context.Context, entry *domain.StockHistory) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// FindByProduct implements domain.StockHistoryRepository
func (m *MockStockHistoryRepository) FindByProduct(ctx context.Context, productID string) ([]*domain.StockHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.StockHistory
	for _, entry := range m.entries {
		if entry.ProductID == productID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// DeleteByProduct implements domain.StockHistoryRepository
func (m *MockStockHistoryRepository) DeleteByProduct(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, entry := range m.entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	return nil
}

// MockSellerRepository is a mock implementation of domain.SellerRepository
type MockSellerRepository struct {
	mu      sync.Mutex
	sellers map[string]*domain.Seller

	SaveFunc             func(ctx context.Context, seller *domain.Seller) error
	FindByIDFunc         func(ctx context.Context, sellerID string) (*domain.Seller, error)
	FindAllFunc          func(ctx context.Context, pagination domain.Pagination) ([]*domain.Seller, error)
	AdjustCommissionFunc func(ctx context.Context, sellerID string, delta float64) (*domain.Seller, error)
	DeleteFunc           func(ctx context.Context, sellerID string) error
	CountFunc            func(ctx context.Context) (int64, error)
}

// NewMockSellerRepository creates a new mock repository
func NewMockSellerRepository() *MockSellerRepository {
	return &MockSellerRepository{sellers: make(map[string]*domain.Seller)}
}

// AddSeller adds a seller to the mock repository
func (m *MockSellerRepository) AddSeller(seller *domain.Seller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sellers[seller.SellerID] = seller
}

// Save implements domain.SellerRepository
func (m *MockSellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, seller)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sellers[seller.SellerID] = seller
	return nil
}

// FindByID implements domain.SellerRepository
func (m *MockSellerRepository) FindByID(ctx context.Context, sellerID string) (*domain.Seller, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sellerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sellers[sellerID], nil
}

// FindAll implements domain.SellerRepository
func (m *MockSellerRepository) FindAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Seller, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Seller, 0, len(m.sellers))
	for _, seller := range m.sellers {
		result = append(result, seller)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SellerID < result[j].SellerID })
	return result, nil
}

// AdjustCommission implements domain.SellerRepository with the same zero
// floor semantics as the real store
func (m *MockSellerRepository) AdjustCommission(ctx context.Context, sellerID string, delta float64) (*domain.Seller, error) {
	if m.AdjustCommissionFunc != nil {
		return m.AdjustCommissionFunc(ctx, sellerID, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seller, ok := m.sellers[sellerID]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	next := seller.Commission + delta
	if next < 0 {
		next = 0
	}
	applied := next - seller.Commission
	seller.Commission = next
	if applied > 0 {
		seller.TotalCommission += applied
	}
	seller.RecomputeTotal()
	return seller, nil
}

// Delete implements domain.SellerRepository
func (m *MockSellerRepository) Delete(ctx context.Context, sellerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sellerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sellers[sellerID]; !ok {
		return errors.New("seller not found")
	}
	delete(m.sellers, sellerID)
	return nil
}

// Count implements domain.SellerRepository
func (m *MockSellerRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sellers)), nil
}

// CommissionOf returns the current commission balance for assertions
func (m *MockSellerRepository) CommissionOf(sellerID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seller, ok := m.sellers[sellerID]; ok {
		return seller.Commission
	}
	return 0
}

// MockCustomerRepository is a mock implementation of domain.CustomerRepository
type MockCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer

	SaveFunc     func(ctx context.Context, customer *domain.Customer) error
	FindByIDFunc func(ctx context.Context, customerID string) (*domain.Customer, error)
	FindAllFunc  func(ctx context.Context, filter domain.CustomerFilter, pagination domain.Pagination) ([]*domain.Customer, error)
	DeleteFunc   func(ctx context.Context, customerID string) error
	CountFunc    func(ctx context.Context, filter domain.CustomerFilter) (int64, error)
}

// NewMockCustomerRepository creates a new mock repository
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

// AddCustomer adds a customer to the mock repository
func (m *MockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.CustomerID] = customer
}

// Save implements domain.CustomerRepository
func (m *MockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.CustomerID] = customer
	return nil
}

// FindByID implements domain.CustomerRepository
func (m *MockCustomerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, customerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.customers[customerID], nil
}

// FindAll implements domain.CustomerRepository
func (m *MockCustomerRepository) FindAll(ctx context.Context, filter domain.CustomerFilter, pagination domain.Pagination) ([]*domain.Customer, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		if filter.Type != nil && customer.Type != *filter.Type {
			continue
		}
		if filter.SellerID != nil && customer.SellerID != *filter.SellerID {
			continue
		}
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CustomerID < result[j].CustomerID })
	start := pagination.Skip()
	if start >= int64(len(result)) {
		return nil, nil
	}
	end := start + pagination.Limit()
	if end > int64(len(result)) {
		end = int64(len(result))
	}
	return result[start:end], nil
}

// Delete implements domain.CustomerRepository
func (m *MockCustomerRepository) Delete(ctx context.Context, customerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, customerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customerID]; !ok {
		return errors.New("customer not found")
	}
	delete(m.customers, customerID)
	return nil
}

// Count implements domain.CustomerRepository
func (m *MockCustomerRepository) Count(ctx context.Context, filter domain.CustomerFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.customers)), nil
}

// MockBillRepository is a mock implementation of domain.BillRepository
type MockBillRepository struct {
	mu      sync.Mutex
	bills   map[string]*domain.Bill
	counter int64

	SaveFunc                       func(ctx context.Context, bill *domain.Bill) error
	FindByIDFunc                   func(ctx context.Context, billID string) (*domain.Bill, error)
	FindAllFunc                    func(ctx context.Context, filter domain.BillFilter, pagination domain.Pagination) ([]*domain.Bill, error)
	NextBillNumberFunc             func(ctx context.Context) (string, error)
	LatestRemainingForCustomerFunc func(ctx context.Context, customerName string) (float64, error)
	CountFunc                      func(ctx context.Context, filter domain.BillFilter) (int64, error)
	CustomerStatsFunc              func(ctx context.Context, customerName string) (*domain.CustomerBillStats, error)
	StatsSinceFunc                 func(ctx context.Context, since time.Time) (*domain.BillingWindowStats, error)
}

// NewMockBillRepository creates a new mock repository
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{bills: make(map[string]*domain.Bill)}
}

// AddBill adds a bill to the mock repository
func (m *MockBillRepository) AddBill(bill *domain.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.BillID] = bill
}

// Save implements domain.BillRepository
func (m *MockBillRepository) Save(ctx context.Context, bill *domain.Bill) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, bill)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.BillID] = bill
	return nil
}

// FindByID implements domain.BillRepository
func (m *MockBillRepository) FindByID(ctx context.Context, billID string) (*domain.Bill, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, billID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bills[billID], nil
}

// FindAll implements domain.BillRepository
func (m *MockBillRepository) FindAll(ctx context.Context, filter domain.BillFilter, pagination domain.Pagination) ([]*domain.Bill, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Bill, 0, len(m.bills))
	for _, bill := range m.bills {
		if filter.SellerID != nil && bill.SellerID != *filter.SellerID {
			continue
		}
		if filter.Status != nil && bill.Status != *filter.Status {
			continue
		}
		if filter.CustomerName != nil && bill.Customer.Name != *filter.CustomerName {
			continue
		}
		result = append(result, bill)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BillID < result[j].BillID })
	return result, nil
}

// NextBillNumber implements domain.BillRepository
func (m *MockBillRepository) NextBillNumber(ctx context.Context) (string, error) {
	if m.NextBillNumberFunc != nil {
		return m.NextBillNumberFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("EM-%04d", m.counter), nil
}

// LatestRemainingForCustomer implements domain.BillRepository
func (m *MockBillRepository) LatestRemainingForCustomer(ctx context.Context, customerName string) (float64, error) {
	if m.LatestRemainingForCustomerFunc != nil {
		return m.LatestRemainingForCustomerFunc(ctx, customerName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.Bill
	for _, bill := range m.bills {
		if bill.Customer.Name != customerName {
			continue
		}
		if latest == nil || bill.CreatedAt.After(latest.CreatedAt) {
			latest = bill
		}
	}
	if latest == nil {
		return 0, nil
	}
	return latest.RemainingAmount, nil
}

// Count implements domain.BillRepository
func (m *MockBillRepository) Count(ctx context.Context, filter domain.BillFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bills)), nil
}

// CustomerStats implements domain.BillRepository
func (m *MockBillRepository) CustomerStats(ctx context.Context, customerName string) (*domain.CustomerBillStats, error) {
	if m.CustomerStatsFunc != nil {
		return m.CustomerStatsFunc(ctx, customerName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.CustomerBillStats{}
	for _, bill := range m.bills {
		if bill.Customer.Name != customerName {
			continue
		}
		stats.TotalPurchases++
		stats.TotalAmount += bill.Total
		stats.TotalPaid += bill.AmountPaid
	}
	if stats.TotalPurchases > 0 {
		stats.AverageOrderValue = stats.TotalAmount / float64(stats.TotalPurchases)
	}
	return stats, nil
}

// StatsSince implements domain.BillRepository
func (m *MockBillRepository) StatsSince(ctx context.Context, since time.Time) (*domain.BillingWindowStats, error) {
	if m.StatsSinceFunc != nil {
		return m.StatsSinceFunc(ctx, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.BillingWindowStats{}
	for _, bill := range m.bills {
		if bill.Status != domain.BillStatusCompleted || bill.CreatedAt.Before(since) {
			continue
		}
		stats.TotalBills++
		stats.TotalRevenue += bill.Total
	}
	if stats.TotalBills > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalBills)
	}
	return stats, nil
}

// MockParcelRepository is a mock implementation of domain.ParcelRepository
type MockParcelRepository struct {
	mu      sync.Mutex
	parcels map[string]*domain.Parcel

	SaveFunc                 func(ctx context.Context, parcel *domain.Parcel) error
	FindByIDFunc             func(ctx context.Context, parcelID string) (*domain.Parcel, error)
	FindByTrackingNumberFunc func(ctx context.Context, trackingNumber string) (*domain.Parcel, error)
	FindAllFunc              func(ctx context.Context, filter domain.ParcelFilter, pagination domain.Pagination) ([]*domain.Parcel, error)
	DeleteFunc               func(ctx context.Context, parcelID string) error
	CountFunc                func(ctx context.Context, filter domain.ParcelFilter) (int64, error)
}

// NewMockParcelRepository creates a new mock repository
func NewMockParcelRepository() *MockParcelRepository {
	return &MockParcelRepository{parcels: make(map[string]*domain.Parcel)}
}

// AddParcel adds a parcel to the mock repository
func (m *MockParcelRepository) AddParcel(parcel *domain.Parcel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels[parcel.ParcelID] = parcel
}

// Save implements domain.ParcelRepository
func (m *MockParcelRepository) Save(ctx context.Context, parcel *domain.Parcel) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, parcel)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parcels[parcel.ParcelID] = parcel
	return nil
}

// FindByID implements domain.ParcelRepository
func (m *MockParcelRepository) FindByID(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, parcelID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parcels[parcelID], nil
}

// FindByTrackingNumber implements domain.ParcelRepository
func (m *MockParcelRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Parcel, error) {
	if m.FindByTrackingNumberFunc != nil {
		return m.FindByTrackingNumberFunc(ctx, trackingNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, parcel := range m.parcels {
		if parcel.TrackingNumber == trackingNumber {
			return parcel, nil
		}
	}
	return nil, nil
}

// FindAll implements domain.ParcelRepository
func (m *MockParcelRepository) FindAll(ctx context.Context, filter domain.ParcelFilter, pagination domain.Pagination) ([]*domain.Parcel, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Parcel, 0, len(m.parcels))
	for _, parcel := range m.parcels {
		if filter.Status != nil && parcel.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && parcel.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		result = append(result, parcel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ParcelID < result[j].ParcelID })
	return result, nil
}

// Count implements domain.ParcelRepository
func (m *MockParcelRepository) Count(ctx context.Context, filter domain.ParcelFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, parcel := range m.parcels {
		if filter.Status != nil && parcel.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && parcel.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		total++
	}
	return total, nil
}

// Delete implements domain.ParcelRepository
func (m *MockParcelRepository) Delete(ctx context.Context, parcelID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, parcelID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.parcels[parcelID]; !ok {
		return errors.New("parcel not found")
	}
	delete(m.parcels, parcelID)
	return nil
}

// MockSaleRepository is a mock implementation of domain.SaleRepository
type MockSaleRepository struct {
	mu    sync.Mutex
	sales []*domain.Sale

	InsertFunc         func(ctx context.Context, sales []*domain.Sale) error
	FindByIDFunc       func(ctx context.Context, saleID string) (*domain.Sale, error)
	FindMatchingFunc   func(ctx context.Context, match domain.SaleMatch) ([]*domain.Sale, error)
	DeleteMatchingFunc func(ctx context.Context, match domain.SaleMatch) (int64, error)
	FindAllFunc        func(ctx context.Context, filter domain.SaleFilter, pagination domain.Pagination) ([]*domain.Sale, error)
	FindLatestFunc     func(ctx context.Context, filter domain.SaleFilter) (*domain.Sale, error)
	SellerStatsFunc    func(ctx context.Context, sellerID string) (*domain.SellerSaleStats, error)
	DeleteFunc         func(ctx context.Context, saleID string) error
	CountFunc          func(ctx context.Context, filter domain.SaleFilter) (int64, error)
}

// NewMockSaleRepository creates a new mock repository
func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{}
}

// AddSale adds a sale to the mock repository
func (m *MockSaleRepository) AddSale(sale *domain.Sale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sale)
}

// Sales returns a snapshot of all stored sale records for assertions
func (m *MockSaleRepository) Sales() []*domain.Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Sale, len(m.sales))
	copy(out, m.sales)
	return out
}

// Insert implements domain.SaleRepository
func (m *MockSaleRepository) Insert(ctx context.Context, sales []*domain.Sale) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, sales)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = append(m.sales, sales...)
	return nil
}

// FindByID implements domain.SaleRepository
func (m *MockSaleRepository) FindByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, saleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sale := range m.sales {
		if sale.SaleID == saleID {
			return sale, nil
		}
	}
	return nil, nil
}

// FindMatching implements domain.SaleRepository with the same selection
// semantics as the real store
func (m *MockSaleRepository) FindMatching(ctx context.Context, match domain.SaleMatch) ([]*domain.Sale, error) {
	if m.FindMatchingFunc != nil {
		return m.FindMatchingFunc(ctx, match)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Sale
	for _, sale := range m.sales {
		if saleMatches(sale, match) {
			result = append(result, sale)
		}
	}
	return result, nil
}

// DeleteMatching implements domain.SaleRepository
func (m *MockSaleRepository) DeleteMatching(ctx context.Context, match domain.SaleMatch) (int64, error) {
	if m.DeleteMatchingFunc != nil {
		return m.DeleteMatchingFunc(ctx, match)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.Sale
	var removed int64
	for _, sale := range m.sales {
		if saleMatches(sale, match) {
			removed++
			continue
		}
		kept = append(kept, sale)
	}
	m.sales = kept
	return removed, nil
}

// FindAll implements domain.SaleRepository
func (m *MockSaleRepository) FindAll(ctx context.Context, filter domain.SaleFilter, pagination domain.Pagination) ([]*domain.Sale, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Sale
	for _, sale := range m.sales {
		if filter.SellerID != nil && sale.SellerID != *filter.SellerID {
			continue
		}
		if filter.CustomerID != nil && sale.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProductID != nil && sale.ProductID != *filter.ProductID {
			continue
		}
		result = append(result, sale)
	}
	return result, nil
}

// FindLatest implements domain.SaleRepository
func (m *MockSaleRepository) FindLatest(ctx context.Context, filter domain.SaleFilter) (*domain.Sale, error) {
	if m.FindLatestFunc != nil {
		return m.FindLatestFunc(ctx, filter)
	}
	sales, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return nil, err
	}
	var latest *domain.Sale
	for _, sale := range sales {
		if latest == nil || sale.CreatedAt.After(latest.CreatedAt) {
			latest = sale
		}
	}
	return latest, nil
}

// SellerStats implements domain.SaleRepository
func (m *MockSaleRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerSaleStats, error) {
	if m.SellerStatsFunc != nil {
		return m.SellerStatsFunc(ctx, sellerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.SellerSaleStats{}
	for _, sale := range m.sales {
		if sale.SellerID != sellerID {
			continue
		}
		stats.TotalSales++
		stats.TotalRevenue += sale.Total
		stats.TotalCommission += sale.Commission
		stats.TotalProductsSold += int64(sale.Quantity)
	}
	return stats, nil
}

// Count implements domain.SaleRepository
func (m *MockSaleRepository) Count(ctx context.Context, filter domain.SaleFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	sales, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(sales)), nil
}

// Delete implements domain.SaleRepository
func (m *MockSaleRepository) Delete(ctx context.Context, saleID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, saleID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sale := range m.sales {
		if sale.SaleID == saleID {
			m.sales = append(m.sales[:i], m.sales[i+1:]...)
			return nil
		}
	}
	return errors.New("sale not found")
}

func saleMatches(sale *domain.Sale, match domain.SaleMatch) bool {
	if match.IsDirect() {
		return sale.CorrelationID == match.CorrelationID
	}
	if sale.SellerID != match.SellerID || sale.CustomerID != match.CustomerID {
		return false
	}
	if !sale.IsCommissionRow() {
		return false
	}
	if match.UnitPrice != nil && sale.UnitPrice != *match.UnitPrice {
		return false
	}
	for _, productID := range match.ProductIDs {
		if sale.ProductID == productID {
			return true
		}
	}
	return false
}

// MockReturnRepository is a mock implementation of domain.ReturnRepository
type MockReturnRepository struct {
	mu      sync.Mutex
	returns map[string]*domain.Return

	SaveFunc     func(ctx context.Context, ret *domain.Return) error
	FindByIDFunc func(ctx context.Context, returnID string) (*domain.Return, error)
	FindAllFunc  func(ctx context.Context, filter domain.ReturnFilter, pagination domain.Pagination) ([]*domain.Return, error)
	CountFunc    func(ctx context.Context, filter domain.ReturnFilter) (int64, error)
}

// NewMockReturnRepository creates a new mock repository
func NewMockReturnRepository() *MockReturnRepository {
	return &MockReturnRepository{returns: make(map[string]*domain.Return)}
}

// Save implements domain.ReturnRepository
func (m *MockReturnRepository) Save(ctx context.Context, ret *domain.Return) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, ret)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.returns[ret.ReturnID] = ret
	return nil
}

// FindByID implements domain.ReturnRepository
func (m *MockReturnRepository) FindByID(ctx context.Context, returnID string) (*domain.Return, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, returnID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.returns[returnID], nil
}

// FindAll implements domain.ReturnRepository
func (m *MockReturnRepository) FindAll(ctx context.Context, filter domain.ReturnFilter, pagination domain.Pagination) ([]*domain.Return, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Return, 0, len(m.returns))
	for _, ret := range m.returns {
		if filter.Search != nil && !strings.Contains(strings.ToLower(ret.TrackingID), strings.ToLower(*filter.Search)) {
			continue
		}
		result = append(result, ret)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReturnID < result[j].ReturnID })
	return result, nil
}

// Count implements domain.ReturnRepository
func (m *MockReturnRepository) Count(ctx context.Context, filter domain.ReturnFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	returns, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(returns)), nil
}

// MockPurchaseBatchRepository is a mock implementation of domain.PurchaseBatchRepository
type MockPurchaseBatchRepository struct {
	mu      sync.Mutex
	batches map[string]*domain.PurchaseBatch

	SaveFunc     func(ctx context.Context, batch *domain.PurchaseBatch) error
	FindByIDFunc func(ctx context.Context, batchID string) (*domain.PurchaseBatch, error)
	FindAllFunc  func(ctx context.Context, filter domain.PurchaseBatchFilter, pagination domain.Pagination) ([]*domain.PurchaseBatch, error)
	CountFunc    func(ctx context.Context, filter domain.PurchaseBatchFilter) (int64, error)
}

// NewMockPurchaseBatchRepository creates a new mock repository
func NewMockPurchaseBatchRepository() *MockPurchaseBatchRepository {
	return &MockPurchaseBatchRepository{batches: make(map[string]*domain.PurchaseBatch)}
}

// Save implements domain.PurchaseBatchRepository
func (m *MockPurchaseBatchRepository) Save(ctx context.Context, batch *domain.PurchaseBatch) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, batch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batch.BatchID] = batch
	return nil
}

// FindByID implements domain.PurchaseBatchRepository
func (m *MockPurchaseBatchRepository) FindByID(ctx context.Context, batchID string) (*domain.PurchaseBatch, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, batchID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches[batchID], nil
}

// FindAll implements domain.PurchaseBatchRepository
func (m *MockPurchaseBatchRepository) FindAll(ctx context.Context, filter domain.PurchaseBatchFilter, pagination domain.Pagination) ([]*domain.PurchaseBatch, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.PurchaseBatch, 0, len(m.batches))
	for _, batch := range m.batches {
		if !purchaseBatchMatches(batch, filter) {
			continue
		}
		result = append(result, batch)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BatchID < result[j].BatchID })
	return result, nil
}

// Count implements domain.PurchaseBatchRepository
func (m *MockPurchaseBatchRepository) Count(ctx context.Context, filter domain.PurchaseBatchFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, batch := range m.batches {
		if purchaseBatchMatches(batch, filter) {
			total++
		}
	}
	return total, nil
}

func purchaseBatchMatches(batch *domain.PurchaseBatch, filter domain.PurchaseBatchFilter) bool {
	if filter.SupplierName != nil && !strings.Contains(strings.ToLower(batch.SupplierName), strings.ToLower(*filter.SupplierName)) {
		return false
	}
	if filter.DateFrom != nil && batch.PurchaseDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && batch.PurchaseDate.After(*filter.DateTo) {
		return false
	}
	return true
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	mu      sync.Mutex
	incomes []*domain.Income

	SaveFunc    func(ctx context.Context, income *domain.Income) error
	FindAllFunc func(ctx context.Context, filter domain.IncomeFilter, pagination domain.Pagination) ([]*domain.Income, error)
	CountFunc   func(ctx context.Context, filter domain.IncomeFilter) (int64, error)
}

// NewMockIncomeRepository creates a new mock repository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{}
}

// Incomes returns a snapshot of all stored income entries for assertions
func (m *MockIncomeRepository) Incomes() []*domain.Income {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Income, len(m.incomes))
	copy(out, m.incomes)
	return out
}

// Save implements domain.IncomeRepository
func (m *MockIncomeRepository) Save(ctx context.Context, income *domain.Income) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, income)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incomes = append(m.incomes, income)
	return nil
}

// FindAll implements domain.IncomeRepository
func (m *MockIncomeRepository) FindAll(ctx context.Context, filter domain.IncomeFilter, pagination domain.Pagination) ([]*domain.Income, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Income
	for _, income := range m.incomes {
		if filter.Type != nil && income.Type != *filter.Type {
			continue
		}
		if filter.BillID != nil && income.BillID != *filter.BillID {
			continue
		}
		result = append(result, income)
	}
	return result, nil
}

// Count implements domain.IncomeRepository
func (m *MockIncomeRepository) Count(ctx context.Context, filter domain.IncomeFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	incomes, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(incomes)), nil
}

// MockEventPublisher is a mock implementation of domain.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent

	PublishFunc    func(ctx context.Context, event domain.DomainEvent) error
	PublishAllFunc func(ctx context.Context, events []domain.DomainEvent) error
}

// NewMockEventPublisher creates a new mock publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish implements domain.EventPublisher
func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// PublishAll implements domain.EventPublisher
func (m *MockEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if m.PublishAllFunc != nil {
		return m.PublishAllFunc(ctx, events)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Events returns a snapshot of all published events for assertions
func (m *MockEventPublisher) Events() []domain.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}
