package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/domain"
)

type customerServiceFixture struct {
	customerRepo *mockCustomerRepository
	productRepo  *mockProductRepository
	sellerRepo   *mockSellerRepository
	saleRepo     *mockSaleRepository
	publisher    *mockEventPublisher
	service      *CustomerApplicationService
}

func newCustomerServiceFixture(t *testing.T) *customerServiceFixture {
	t.Helper()
	f := &customerServiceFixture{
		customerRepo: newMockCustomerRepository(),
		productRepo:  newMockProductRepository(),
		sellerRepo:   newMockSellerRepository(),
		saleRepo:     newMockSaleRepository(),
		publisher:    newMockEventPublisher(),
	}
	logger := newTestLogger()
	ledger := NewStockLedger(f.productRepo, logger, newTestBusinessMetrics())
	f.service = NewCustomerApplicationService(f.customerRepo, f.productRepo, f.sellerRepo, f.saleRepo, ledger, f.publisher, logger)
	return f
}

func TestCreateCustomerConsumesStockAndAccruesCommission(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	dto, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		SellerID: "SLR-1",
		Price:    120,
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Empty(t, dto.Degraded)
	assert.Equal(t, 8, f.productRepo.products["PRD-1"].Stock)

	// rate 25 x 2 units
	assert.Equal(t, 50.0, f.sellerRepo.sellers["SLR-1"].Commission)

	require.Len(t, f.saleRepo.sales, 1)
	row := f.saleRepo.sales[0]
	assert.True(t, row.IsCommissionRow())
	assert.Equal(t, "PRD-1", row.ProductID)
	assert.Equal(t, 120.0, row.UnitPrice)
	assert.NotEmpty(t, row.CorrelationID)
	assert.Equal(t, f.customerRepo.customers[dto.CustomerID].CorrelationID, row.CorrelationID)
}

func TestCreateCustomerWithoutSellerSkipsCommission(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))

	dto, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Walk In",
		Type:     "offline",
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, 7, f.productRepo.products["PRD-1"].Stock)
	assert.Empty(t, f.saleRepo.sales)
	assert.Empty(t, dto.Degraded)
}

func TestCreateCustomerInsufficientStock(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 1))

	dto, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})

	assert.Nil(t, dto)
	require.Error(t, err)
	assert.Equal(t, 1, f.productRepo.products["PRD-1"].Stock)
	assert.Empty(t, f.customerRepo.customers)
}

func TestCreateCustomerUnknownProduct(t *testing.T) {
	f := newCustomerServiceFixture(t)

	dto, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		Products: []ProductLineInput{{ProductID: "PRD-missing", Quantity: 1}},
	})

	assert.Nil(t, dto)
	assert.Error(t, err)
}

func TestUpdateCustomerProductChangeAppliesNetDelta(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.productRepo.AddProduct(newTestProduct(t, "PRD-2", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	created, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		SellerID: "SLR-1",
		Price:    120,
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, 8, f.productRepo.products["PRD-1"].Stock)
	priorCorrelation := f.customerRepo.customers[created.CustomerID].CorrelationID

	updated, err := f.service.UpdateCustomer(context.Background(), UpdateCustomerCommand{
		CustomerID: created.CustomerID,
		Name:       "Nimali Silva",
		Type:       "online",
		Products: []ProductLineInput{
			{ProductID: "PRD-1", Quantity: 1},
			{ProductID: "PRD-2", Quantity: 3},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, updated.Degraded)

	// Net delta: PRD-1 gave one back, PRD-2 consumed three
	assert.Equal(t, 9, f.productRepo.products["PRD-1"].Stock)
	assert.Equal(t, 7, f.productRepo.products["PRD-2"].Stock)

	// Reverse-then-reapply: old accrual of 50 removed, new accrual 25x4=100
	assert.Equal(t, 100.0, f.sellerRepo.sellers["SLR-1"].Commission)

	// Old rows are gone, new rows carry a fresh correlation id
	require.Len(t, f.saleRepo.sales, 2)
	for _, row := range f.saleRepo.sales {
		assert.NotEqual(t, priorCorrelation, row.CorrelationID)
	}
}

func TestUpdateCustomerDescriptiveOnlyLeavesLedgersAlone(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	created, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		SellerID: "SLR-1",
		Price:    120,
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateCustomer(context.Background(), UpdateCustomerCommand{
		CustomerID: created.CustomerID,
		Name:       "Nimali Fernando",
		Phone:      "555-0909",
		Type:       "online",
	})

	require.NoError(t, err)
	assert.Equal(t, "Nimali Fernando", updated.Name)
	assert.Equal(t, 8, f.productRepo.products["PRD-1"].Stock)
	assert.Equal(t, 50.0, f.sellerRepo.sellers["SLR-1"].Commission)
	assert.Len(t, f.saleRepo.sales, 1)
}

func TestUpdateCustomerSellerChangeMovesCommission(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-2", 40))

	created, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		SellerID: "SLR-1",
		Price:    120,
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})
	require.NoError(t, err)

	newSeller := "SLR-2"
	_, err = f.service.UpdateCustomer(context.Background(), UpdateCustomerCommand{
		CustomerID: created.CustomerID,
		Name:       "Nimali Silva",
		Type:       "online",
		SellerID:   &newSeller,
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, f.sellerRepo.sellers["SLR-1"].Commission)
	assert.Equal(t, 80.0, f.sellerRepo.sellers["SLR-2"].Commission)
}

func TestDeleteCustomerRestoresStockAndReversesCommission(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	created, err := f.service.CreateCustomer(context.Background(), CreateCustomerCommand{
		Name:     "Nimali Silva",
		Type:     "online",
		SellerID: "SLR-1",
		Price:    120,
		Products: []ProductLineInput{{ProductID: "PRD-1", Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteCustomer(context.Background(), created.CustomerID))

	assert.Equal(t, 10, f.productRepo.products["PRD-1"].Stock)
	assert.Equal(t, 0.0, f.sellerRepo.sellers["SLR-1"].Commission)
	assert.Empty(t, f.saleRepo.sales)
	assert.Empty(t, f.customerRepo.customers)
}

func TestDeleteCustomerToleratesMissingCommissionRows(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	customer, err := domain.NewCustomer("Nimali Silva", "", "", domain.CustomerTypeOnline,
		[]domain.ProductLine{{ProductID: "PRD-1", Quantity: 2}}, "SLR-1", 120)
	require.NoError(t, err)
	f.customerRepo.AddCustomer(customer)

	// No Sale rows exist for this customer; the delete still succeeds
	require.NoError(t, f.service.DeleteCustomer(context.Background(), customer.CustomerID))

	assert.Equal(t, 12, f.productRepo.products["PRD-1"].Stock)
	assert.Empty(t, f.customerRepo.customers)
}

func TestReversalMatchLegacyFallback(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	// A pre-correlation customer whose rows were written before the flag
	customer, err := domain.NewCustomer("Nimali Silva", "", "", domain.CustomerTypeOnline,
		[]domain.ProductLine{{ProductID: "PRD-1", Quantity: 2}}, "SLR-1", 120)
	require.NoError(t, err)
	customer.CorrelationID = ""
	f.customerRepo.AddCustomer(customer)

	legacyRow, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 2, 120, 50)
	require.NoError(t, err)
	legacyRow.CustomerID = customer.CustomerID
	require.NoError(t, f.saleRepo.Insert(context.Background(), []*domain.Sale{legacyRow}))

	// A manual sale at a different price must survive the reversal
	manual, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 1, 99, 25)
	require.NoError(t, err)
	manual.CustomerID = customer.CustomerID
	require.NoError(t, f.saleRepo.Insert(context.Background(), []*domain.Sale{manual}))

	f.sellerRepo.sellers["SLR-1"].Commission = 75

	require.NoError(t, f.service.DeleteCustomer(context.Background(), customer.CustomerID))

	require.Len(t, f.saleRepo.sales, 1)
	assert.Equal(t, manual.SaleID, f.saleRepo.sales[0].SaleID)
	assert.Equal(t, 25.0, f.sellerRepo.sellers["SLR-1"].Commission)
}

func TestBackfillCommissions(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	// Customer with a seller but no commission rows
	customer, err := domain.NewCustomer("Nimali Silva", "", "", domain.CustomerTypeOnline,
		[]domain.ProductLine{{ProductID: "PRD-1", Quantity: 2}}, "SLR-1", 120)
	require.NoError(t, err)
	f.customerRepo.AddCustomer(customer)

	// Offline customers never participate
	offline, err := domain.NewCustomer("Walk In", "", "", domain.CustomerTypeOffline,
		[]domain.ProductLine{{ProductID: "PRD-1", Quantity: 1}}, "SLR-1", 120)
	require.NoError(t, err)
	f.customerRepo.AddCustomer(offline)

	result, err := f.service.BackfillCommissions(context.Background())

	require.NoError(t, err)
	assert.False(t, result.DryRun)
	assert.Equal(t, 1, result.CustomersScanned)
	assert.Equal(t, 1, result.CustomersRepair)
	require.Len(t, result.Sellers, 1)
	assert.Equal(t, "SLR-1", result.Sellers[0].SellerID)
	assert.Equal(t, 2, result.Sellers[0].Units)
	assert.Equal(t, 50.0, result.Sellers[0].Commission)

	assert.Equal(t, 50.0, f.sellerRepo.sellers["SLR-1"].Commission)
	assert.Len(t, f.saleRepo.sales, 1)

	// Second run finds the rows and repairs nothing
	again, err := f.service.BackfillCommissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.CustomersRepair)
	assert.Equal(t, 50.0, f.sellerRepo.sellers["SLR-1"].Commission)
}

func TestPreviewCommissionsWritesNothing(t *testing.T) {
	f := newCustomerServiceFixture(t)
	f.productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	f.sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	customer, err := domain.NewCustomer("Nimali Silva", "", "", domain.CustomerTypeOnline,
		[]domain.ProductLine{{ProductID: "PRD-1", Quantity: 2}}, "SLR-1", 120)
	require.NoError(t, err)
	f.customerRepo.AddCustomer(customer)

	result, err := f.service.PreviewCommissions(context.Background())

	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.CustomersRepair)
	assert.Equal(t, 0.0, f.sellerRepo.sellers["SLR-1"].Commission)
	assert.Empty(t, f.saleRepo.sales)
}
