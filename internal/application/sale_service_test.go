package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/domain"
)

func TestCreateSaleWithSeller(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	sellerRepo := newMockSellerRepository()
	sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))
	saleRepo := newMockSaleRepository()
	service := NewSaleApplicationService(saleRepo, productRepo, sellerRepo, newTestLogger())

	dto, err := service.CreateSale(context.Background(), CreateSaleCommand{
		ProductID: "PRD-1",
		SellerID:  "SLR-1",
		Quantity:  2,
		UnitPrice: 110,
	})

	require.NoError(t, err)
	assert.Equal(t, 220.0, dto.Total)
	assert.Equal(t, 50.0, dto.Commission)
	assert.Empty(t, dto.Degraded)
	assert.Equal(t, 8, productRepo.products["PRD-1"].Stock)
	assert.Equal(t, 50.0, sellerRepo.sellers["SLR-1"].Commission)
	assert.Len(t, saleRepo.sales, 1)
}

func TestCreateSaleDefaultsToRetailPrice(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	service := NewSaleApplicationService(newMockSaleRepository(), productRepo, newMockSellerRepository(), newTestLogger())

	dto, err := service.CreateSale(context.Background(), CreateSaleCommand{
		ProductID: "PRD-1",
		Quantity:  1,
	})

	require.NoError(t, err)
	assert.Equal(t, 120.0, dto.UnitPrice)
	assert.Zero(t, dto.Commission)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 1))
	saleRepo := newMockSaleRepository()
	service := NewSaleApplicationService(saleRepo, productRepo, newMockSellerRepository(), newTestLogger())

	dto, err := service.CreateSale(context.Background(), CreateSaleCommand{
		ProductID: "PRD-1",
		Quantity:  5,
	})

	assert.Nil(t, dto)
	assert.Error(t, err)
	assert.Equal(t, 1, productRepo.products["PRD-1"].Stock)
	assert.Empty(t, saleRepo.sales)
}

func TestDeleteSaleLeavesLedgersAlone(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 10))
	sellerRepo := newMockSellerRepository()
	sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))
	saleRepo := newMockSaleRepository()
	service := NewSaleApplicationService(saleRepo, productRepo, sellerRepo, newTestLogger())

	dto, err := service.CreateSale(context.Background(), CreateSaleCommand{
		ProductID: "PRD-1",
		SellerID:  "SLR-1",
		Quantity:  2,
		UnitPrice: 110,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteSale(context.Background(), dto.SaleID))

	assert.Empty(t, saleRepo.sales)
	assert.Equal(t, 8, productRepo.products["PRD-1"].Stock)
	assert.Equal(t, 50.0, sellerRepo.sellers["SLR-1"].Commission)
}

func TestListSalesTotalCountsAllMatches(t *testing.T) {
	saleRepo := newMockSaleRepository()
	for i := 0; i < 3; i++ {
		sale, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 1, 100, 25)
		require.NoError(t, err)
		require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{sale}))
	}
	other, err := domain.NewSale("PRD-2", "Iron", "SI-20", "SLR-2", "Nimali Silva", 1, 80, 10)
	require.NoError(t, err)
	require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{other}))

	service := NewSaleApplicationService(saleRepo, newMockProductRepository(), newMockSellerRepository(), newTestLogger())

	sellerID := "SLR-1"
	result, err := service.ListSales(context.Background(), ListSalesQuery{SellerID: &sellerID, Page: 1, PageSize: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, int64(2), result.TotalPages)
}

func TestGetLastPrice(t *testing.T) {
	saleRepo := newMockSaleRepository()
	older, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 1, 100, 25)
	require.NoError(t, err)
	older.CustomerID = "CUS-1"
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 2, 95, 25)
	require.NoError(t, err)
	newer.CustomerID = "CUS-1"
	require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{older, newer}))

	service := NewSaleApplicationService(saleRepo, newMockProductRepository(), newMockSellerRepository(), newTestLogger())

	dto, err := service.GetLastPrice(context.Background(), "CUS-1", "PRD-1")

	require.NoError(t, err)
	assert.True(t, dto.Found)
	assert.Equal(t, 95.0, dto.UnitPrice)
	assert.Equal(t, newer.CreatedAt, dto.Date)
}

func TestGetLastPriceNoPriorSale(t *testing.T) {
	service := NewSaleApplicationService(newMockSaleRepository(), newMockProductRepository(), newMockSellerRepository(), newTestLogger())

	dto, err := service.GetLastPrice(context.Background(), "CUS-1", "PRD-1")

	require.NoError(t, err)
	assert.False(t, dto.Found)
}

func TestGetLastPriceRequiresIDs(t *testing.T) {
	service := NewSaleApplicationService(newMockSaleRepository(), newMockProductRepository(), newMockSellerRepository(), newTestLogger())

	dto, err := service.GetLastPrice(context.Background(), "", "PRD-1")

	assert.Nil(t, dto)
	assert.Error(t, err)
}
