package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emporium/backoffice/internal/domain"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/metrics"
	"github.com/emporium/backoffice/pkg/middleware"
)

func newTestLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig("test"))
}

func newTestBusinessMetrics() *middleware.BusinessMetrics {
	return middleware.NewBusinessMetrics(metrics.New(metrics.DefaultConfig("test")))
}

// In-package mocks for the repository interfaces. Defaults act as simple
// in-memory stores with the same guard semantics as the real stores; tests
// override individual XxxFunc fields to inject failures.

type mockProductRepository struct {
	products map[string]*domain.Product

	SaveFunc        func(ctx context.Context, product *domain.Product) error
	FindByIDFunc    func(ctx context.Context, productID string) (*domain.Product, error)
	AdjustStockFunc func(ctx context.Context, productID string, delta int) (*domain.Product, error)
	DeleteFunc      func(ctx context.Context, productID string) error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepository) AddProduct(product *domain.Product) {
	m.products[product.ProductID] = product
}

func (m *mockProductRepository) Save(ctx context.Context, product *domain.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, product)
	}
	m.products[product.ProductID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, productID)
	}
	return m.products[productID], nil
}

func (m *mockProductRepository) FindByModel(ctx context.Context, model string) (*domain.Product, error) {
	for _, product := range m.products {
		if product.Model == model {
			return product, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter, pagination domain.Pagination) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range m.products {
		result = append(result, product)
	}
	return result, nil
}

func (m *mockProductRepository) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, productID, delta)
	}
	product, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		return nil, &domain.InsufficientStockError{ProductID: productID, Requested: -delta, Available: product.Stock}
	}
	product.Stock += delta
	return product, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, productID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, productID)
	}
	delete(m.products, productID)
	return nil
}

func (m *mockProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	return int64(len(m.products)), nil
}

type mockStockHistoryRepository struct {
	entries []*domain.StockHistory

	InsertFunc func(ctx context.Context, entry *domain.StockHistory) error
}

func newMockStockHistoryRepository() *mockStockHistoryRepository {
	return &mockStockHistoryRepository{}
}

func (m *mockStockHistoryRepository) Insert(ctx context.Context, entry *domain.StockHistory) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockStockHistoryRepository) FindByProduct(ctx context.Context, productID string) ([]*domain.StockHistory, error) {
	var result []*domain.StockHistory
	for _, entry := range m.entries {
		if entry.ProductID == productID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *mockStockHistoryRepository) DeleteByProduct(ctx context.Context, productID string) error {
	kept := m.entries[:0]
	for _, entry := range m.entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	m.entries = kept
	return nil
}

type mockSellerRepository struct {
	sellers map[string]*domain.Seller

	SaveFunc             func(ctx context.Context, seller *domain.Seller) error
	FindByIDFunc         func(ctx context.Context, sellerID string) (*domain.Seller, error)
	AdjustCommissionFunc func(ctx context.Context, sellerID string, delta float64) (*domain.Seller, error)
	DeleteFunc           func(ctx context.Context, sellerID string) error
}

func newMockSellerRepository() *mockSellerRepository {
	return &mockSellerRepository{sellers: make(map[string]*domain.Seller)}
}

func (m *mockSellerRepository) AddSeller(seller *domain.Seller) {
	m.sellers[seller.SellerID] = seller
}

func (m *mockSellerRepository) Save(ctx context.Context, seller *domain.Seller) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, seller)
	}
	m.sellers[seller.SellerID] = seller
	return nil
}

func (m *mockSellerRepository) FindByID(ctx context.Context, sellerID string) (*domain.Seller, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sellerID)
	}
	return m.sellers[sellerID], nil
}

func (m *mockSellerRepository) FindAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Seller, error) {
	var result []*domain.Seller
	for _, seller := range m.sellers {
		result = append(result, seller)
	}
	return result, nil
}

func (m *mockSellerRepository) AdjustCommission(ctx context.Context, sellerID string, delta float64) (*domain.Seller, error) {
	if m.AdjustCommissionFunc != nil {
		return m.AdjustCommissionFunc(ctx, sellerID, delta)
	}
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

func (m *mockSellerRepository) Delete(ctx context.Context, sellerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sellerID)
	}
	delete(m.sellers, sellerID)
	return nil
}

func (m *mockSellerRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.sellers)), nil
}

type mockCustomerRepository struct {
	customers map[string]*domain.Customer

	SaveFunc     func(ctx context.Context, customer *domain.Customer) error
	FindByIDFunc func(ctx context.Context, customerID string) (*domain.Customer, error)
	FindAllFunc  func(ctx context.Context, filter domain.CustomerFilter, pagination domain.Pagination) ([]*domain.Customer, error)
	DeleteFunc   func(ctx context.Context, customerID string) error
}

func newMockCustomerRepository() *mockCustomerRepository {
	return &mockCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (m *mockCustomerRepository) AddCustomer(customer *domain.Customer) {
	m.customers[customer.CustomerID] = customer
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, customer)
	}
	m.customers[customer.CustomerID] = customer
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, customerID)
	}
	return m.customers[customerID], nil
}

func (m *mockCustomerRepository) FindAll(ctx context.Context, filter domain.CustomerFilter, pagination domain.Pagination) ([]*domain.Customer, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter, pagination)
	}
	if pagination.Page > 1 {
		return nil, nil
	}
	var result []*domain.Customer
	for _, customer := range m.customers {
		if filter.Type != nil && customer.Type != *filter.Type {
			continue
		}
		if filter.SellerID != nil && customer.SellerID != *filter.SellerID {
			continue
		}
		result = append(result, customer)
	}
	return result, nil
}

func (m *mockCustomerRepository) Delete(ctx context.Context, customerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, customerID)
	}
	if _, ok := m.customers[customerID]; !ok {
		return errors.New("customer not found")
	}
	delete(m.customers, customerID)
	return nil
}

func (m *mockCustomerRepository) Count(ctx context.Context, filter domain.CustomerFilter) (int64, error) {
	return int64(len(m.customers)), nil
}

type mockBillRepository struct {
	bills   map[string]*domain.Bill
	counter int64

	SaveFunc                       func(ctx context.Context, bill *domain.Bill) error
	NextBillNumberFunc             func(ctx context.Context) (string, error)
	LatestRemainingForCustomerFunc func(ctx context.Context, customerName string) (float64, error)
}

func newMockBillRepository() *mockBillRepository {
	return &mockBillRepository{bills: make(map[string]*domain.Bill)}
}

func (m *mockBillRepository) AddBill(bill *domain.Bill) {
	m.bills[bill.BillID] = bill
}

func (m *mockBillRepository) Save(ctx context.Context, bill *domain.Bill) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, bill)
	}
	m.bills[bill.BillID] = bill
	return nil
}

func (m *mockBillRepository) FindByID(ctx context.Context, billID string) (*domain.Bill, error) {
	return m.bills[billID], nil
}

func (m *mockBillRepository) FindAll(ctx context.Context, filter domain.BillFilter, pagination domain.Pagination) ([]*domain.Bill, error) {
	var result []*domain.Bill
	for _, bill := range m.bills {
		if filter.Status != nil && bill.Status != *filter.Status {
			continue
		}
		result = append(result, bill)
	}
	return result, nil
}

func (m *mockBillRepository) NextBillNumber(ctx context.Context) (string, error) {
	if m.NextBillNumberFunc != nil {
		return m.NextBillNumberFunc(ctx)
	}
	m.counter++
	return fmt.Sprintf("EM-%04d", m.counter), nil
}

func (m *mockBillRepository) LatestRemainingForCustomer(ctx context.Context, customerName string) (float64, error) {
	if m.LatestRemainingForCustomerFunc != nil {
		return m.LatestRemainingForCustomerFunc(ctx, customerName)
	}
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

func (m *mockBillRepository) Count(ctx context.Context, filter domain.BillFilter) (int64, error) {
	return int64(len(m.bills)), nil
}

func (m *mockBillRepository) CustomerStats(ctx context.Context, customerName string) (*domain.CustomerBillStats, error) {
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

func (m *mockBillRepository) StatsSince(ctx context.Context, since time.Time) (*domain.BillingWindowStats, error) {
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

type mockParcelRepository struct {
	parcels map[string]*domain.Parcel

	SaveFunc   func(ctx context.Context, parcel *domain.Parcel) error
	DeleteFunc func(ctx context.Context, parcelID string) error
}

func newMockParcelRepository() *mockParcelRepository {
	return &mockParcelRepository{parcels: make(map[string]*domain.Parcel)}
}

func (m *mockParcelRepository) AddParcel(parcel *domain.Parcel) {
	m.parcels[parcel.ParcelID] = parcel
}

func (m *mockParcelRepository) Save(ctx context.Context, parcel *domain.Parcel) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, parcel)
	}
	m.parcels[parcel.ParcelID] = parcel
	return nil
}

func (m *mockParcelRepository) FindByID(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	return m.parcels[parcelID], nil
}

func (m *mockParcelRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Parcel, error) {
	for _, parcel := range m.parcels {
		if parcel.TrackingNumber == trackingNumber {
			return parcel, nil
		}
	}
	return nil, nil
}

func (m *mockParcelRepository) FindAll(ctx context.Context, filter domain.ParcelFilter, pagination domain.Pagination) ([]*domain.Parcel, error) {
	var result []*domain.Parcel
	for _, parcel := range m.parcels {
		if filter.Status != nil && parcel.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && parcel.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		result = append(result, parcel)
	}
	return result, nil
}

func (m *mockParcelRepository) Count(ctx context.Context, filter domain.ParcelFilter) (int64, error) {
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

func (m *mockParcelRepository) Delete(ctx context.Context, parcelID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, parcelID)
	}
	delete(m.parcels, parcelID)
	return nil
}

type mockSaleRepository struct {
	sales []*domain.Sale

	InsertFunc         func(ctx context.Context, sales []*domain.Sale) error
	FindMatchingFunc   func(ctx context.Context, match domain.SaleMatch) ([]*domain.Sale, error)
	DeleteMatchingFunc func(ctx context.Context, match domain.SaleMatch) (int64, error)
}

func newMockSaleRepository() *mockSaleRepository {
	return &mockSaleRepository{}
}

func (m *mockSaleRepository) Insert(ctx context.Context, sales []*domain.Sale) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, sales)
	}
	m.sales = append(m.sales, sales...)
	return nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	for _, sale := range m.sales {
		if sale.SaleID == saleID {
			return sale, nil
		}
	}
	return nil, nil
}

func (m *mockSaleRepository) FindMatching(ctx context.Context, match domain.SaleMatch) ([]*domain.Sale, error) {
	if m.FindMatchingFunc != nil {
		return m.FindMatchingFunc(ctx, match)
	}
	var result []*domain.Sale
	for _, sale := range m.sales {
		if mockSaleMatches(sale, match) {
			result = append(result, sale)
		}
	}
	return result, nil
}

func (m *mockSaleRepository) DeleteMatching(ctx context.Context, match domain.SaleMatch) (int64, error) {
	if m.DeleteMatchingFunc != nil {
		return m.DeleteMatchingFunc(ctx, match)
	}
	var kept []*domain.Sale
	var removed int64
	for _, sale := range m.sales {
		if mockSaleMatches(sale, match) {
			removed++
			continue
		}
		kept = append(kept, sale)
	}
	m.sales = kept
	return removed, nil
}

func (m *mockSaleRepository) FindAll(ctx context.Context, filter domain.SaleFilter, pagination domain.Pagination) ([]*domain.Sale, error) {
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

func (m *mockSaleRepository) FindLatest(ctx context.Context, filter domain.SaleFilter) (*domain.Sale, error) {
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

func (m *mockSaleRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerSaleStats, error) {
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

func (m *mockSaleRepository) Count(ctx context.Context, filter domain.SaleFilter) (int64, error) {
	sales, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(sales)), nil
}

func (m *mockSaleRepository) Delete(ctx context.Context, saleID string) error {
	for i, sale := range m.sales {
		if sale.SaleID == saleID {
			m.sales = append(m.sales[:i], m.sales[i+1:]...)
			return nil
		}
	}
	return errors.New("sale not found")
}

func mockSaleMatches(sale *domain.Sale, match domain.SaleMatch) bool {
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

type mockReturnRepository struct {
	returns map[string]*domain.Return

	SaveFunc func(ctx context.Context, ret *domain.Return) error
}

func newMockReturnRepository() *mockReturnRepository {
	return &mockReturnRepository{returns: make(map[string]*domain.Return)}
}

func (m *mockReturnRepository) Save(ctx context.Context, ret *domain.Return) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, ret)
	}
	m.returns[ret.ReturnID] = ret
	return nil
}

func (m *mockReturnRepository) FindByID(ctx context.Context, returnID string) (*domain.Return, error) {
	return m.returns[returnID], nil
}

func (m *mockReturnRepository) FindAll(ctx context.Context, filter domain.ReturnFilter, pagination domain.Pagination) ([]*domain.Return, error) {
	var result []*domain.Return
	for _, ret := range m.returns {
		if filter.Search != nil && !strings.Contains(strings.ToLower(ret.TrackingID), strings.ToLower(*filter.Search)) {
			continue
		}
		result = append(result, ret)
	}
	return result, nil
}

type mockPurchaseBatchRepository struct {
	batches map[string]*domain.PurchaseBatch

	SaveFunc func(ctx context.Context, batch *domain.PurchaseBatch) error
}

func newMockPurchaseBatchRepository() *mockPurchaseBatchRepository {
	return &mockPurchaseBatchRepository{batches: make(map[string]*domain.PurchaseBatch)}
}

func (m *mockPurchaseBatchRepository) Save(ctx context.Context, batch *domain.PurchaseBatch) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, batch)
	}
	m.batches[batch.BatchID] = batch
	return nil
}

func (m *mockPurchaseBatchRepository) FindByID(ctx context.Context, batchID string) (*domain.PurchaseBatch, error) {
	return m.batches[batchID], nil
}

func (m *mockPurchaseBatchRepository) FindAll(ctx context.Context, filter domain.PurchaseBatchFilter, pagination domain.Pagination) ([]*domain.PurchaseBatch, error) {
	var result []*domain.PurchaseBatch
	for _, batch := range m.batches {
		if !mockPurchaseBatchMatches(batch, filter) {
			continue
		}
		result = append(result, batch)
	}
	return result, nil
}

func (m *mockPurchaseBatchRepository) Count(ctx context.Context, filter domain.PurchaseBatchFilter) (int64, error) {
	var total int64
	for _, batch := range m.batches {
		if mockPurchaseBatchMatches(batch, filter) {
			total++
		}
	}
	return total, nil
}

func mockPurchaseBatchMatches(batch *domain.PurchaseBatch, filter domain.PurchaseBatchFilter) bool {
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

func (m *mockReturnRepository) Count(ctx context.Context, filter domain.ReturnFilter) (int64, error) {
	returns, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(returns)), nil
}

type mockIncomeRepository struct {
	incomes []*domain.Income

	SaveFunc func(ctx context.Context, income *domain.Income) error
}

func newMockIncomeRepository() *mockIncomeRepository {
	return &mockIncomeRepository{}
}

func (m *mockIncomeRepository) Save(ctx context.Context, income *domain.Income) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, income)
	}
	m.incomes = append(m.incomes, income)
	return nil
}

func (m *mockIncomeRepository) FindAll(ctx context.Context, filter domain.IncomeFilter, pagination domain.Pagination) ([]*domain.Income, error) {
	var result []*domain.Income
	for _, income := range m.incomes {
		if filter.Type != nil && income.Type != *filter.Type {
			continue
		}
		result = append(result, income)
	}
	return result, nil
}

func (m *mockIncomeRepository) Count(ctx context.Context, filter domain.IncomeFilter) (int64, error) {
	incomes, err := m.FindAll(ctx, filter, domain.DefaultPagination())
	if err != nil {
		return 0, err
	}
	return int64(len(incomes)), nil
}

type mockEventPublisher struct {
	events []domain.DomainEvent

	PublishFunc    func(ctx context.Context, event domain.DomainEvent) error
	PublishAllFunc func(ctx context.Context, events []domain.DomainEvent) error
}

func newMockEventPublisher() *mockEventPublisher {
	return &mockEventPublisher{}
}

func (m *mockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if m.PublishAllFunc != nil {
		return m.PublishAllFunc(ctx, events)
	}
	m.events = append(m.events, events...)
	return nil
}
