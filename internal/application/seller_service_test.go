package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/domain"
)

func newTestSeller(t *testing.T, sellerID string, rate float64) *domain.Seller {
	t.Helper()
	seller, err := domain.NewSeller("Kamal Perera", "555-0101", rate, 30000)
	require.NoError(t, err)
	seller.SellerID = sellerID
	return seller
}

func TestCreateSeller(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateSellerCommand
		wantErr bool
	}{
		{
			name: "valid seller",
			cmd:  CreateSellerCommand{Name: "Kamal Perera", Phone: "555-0101", CommissionRate: 25, BasicSalary: 30000},
		},
		{
			name: "zero rate is allowed",
			cmd:  CreateSellerCommand{Name: "Nuwan Silva", CommissionRate: 0},
		},
		{
			name:    "negative rate rejected",
			cmd:     CreateSellerCommand{Name: "Bad", CommissionRate: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSellerApplicationService(newMockSellerRepository(), newMockSaleRepository(), newTestLogger())

			dto, err := service.CreateSeller(context.Background(), tt.cmd)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, dto.SellerID)
			assert.Equal(t, tt.cmd.Name, dto.Name)
			assert.Equal(t, tt.cmd.CommissionRate, dto.CommissionRate)
			assert.Equal(t, tt.cmd.BasicSalary, dto.BasicSalary)
			assert.Zero(t, dto.Commission)
			assert.Equal(t, tt.cmd.BasicSalary, dto.Total)
		})
	}
}

func TestGetSellerNotFound(t *testing.T) {
	service := NewSellerApplicationService(newMockSellerRepository(), newMockSaleRepository(), newTestLogger())

	dto, err := service.GetSeller(context.Background(), "SLR-missing")

	assert.Nil(t, dto)
	assert.Error(t, err)
}

func TestUpdateSellerRateAffectsFutureAccrualsOnly(t *testing.T) {
	sellerRepo := newMockSellerRepository()
	seller := newTestSeller(t, "SLR-1", 25)
	seller.Commission = 500
	seller.RecomputeTotal()
	sellerRepo.AddSeller(seller)

	service := NewSellerApplicationService(sellerRepo, newMockSaleRepository(), newTestLogger())

	dto, err := service.UpdateSeller(context.Background(), UpdateSellerCommand{
		SellerID:       "SLR-1",
		Name:           "Kamal Perera",
		CommissionRate: 40,
		BasicSalary:    30000,
	})

	require.NoError(t, err)
	assert.Equal(t, 40.0, dto.CommissionRate)
	// Running balance is untouched by a rate change
	assert.Equal(t, 500.0, dto.Commission)
}

func TestDeleteSellerKeepsSaleRows(t *testing.T) {
	sellerRepo := newMockSellerRepository()
	sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	saleRepo := newMockSaleRepository()
	sale, err := domain.NewSale("PRD-1", "Ceiling Fan 56in", "CF-56", "SLR-1", "Kamal Perera", 2, 120, 50)
	require.NoError(t, err)
	require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{sale}))

	service := NewSellerApplicationService(sellerRepo, saleRepo, newTestLogger())

	require.NoError(t, service.DeleteSeller(context.Background(), "SLR-1"))

	assert.Len(t, saleRepo.sales, 1)
	assert.Equal(t, "Kamal Perera", saleRepo.sales[0].SellerName)
}

func TestGetSellerSales(t *testing.T) {
	sellerRepo := newMockSellerRepository()
	sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	saleRepo := newMockSaleRepository()
	mine, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 1, 120, 25)
	require.NoError(t, err)
	other, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-2", "Nuwan Silva", 1, 120, 25)
	require.NoError(t, err)
	require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{mine, other}))

	service := NewSellerApplicationService(sellerRepo, saleRepo, newTestLogger())

	result, err := service.GetSellerSales(context.Background(), "SLR-1", 1, 20)

	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, mine.SaleID, result.Data[0].SaleID)
}

func TestGetSellerSalesUnknownSeller(t *testing.T) {
	service := NewSellerApplicationService(newMockSellerRepository(), newMockSaleRepository(), newTestLogger())

	result, err := service.GetSellerSales(context.Background(), "SLR-missing", 1, 20)

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestGetCommissionSummary(t *testing.T) {
	sellerRepo := newMockSellerRepository()
	sellerRepo.AddSeller(newTestSeller(t, "SLR-1", 25))

	saleRepo := newMockSaleRepository()
	fan, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-1", "Kamal Perera", 2, 120, 50)
	require.NoError(t, err)
	lamp, err := domain.NewSale("PRD-2", "Lamp", "TL-20", "SLR-1", "Kamal Perera", 1, 80, 20)
	require.NoError(t, err)
	other, err := domain.NewSale("PRD-1", "Fan", "CF-56", "SLR-2", "Nuwan Silva", 5, 120, 25)
	require.NoError(t, err)
	require.NoError(t, saleRepo.Insert(context.Background(), []*domain.Sale{fan, lamp, other}))

	service := NewSellerApplicationService(sellerRepo, saleRepo, newTestLogger())

	summary, err := service.GetCommissionSummary(context.Background(), "SLR-1")

	require.NoError(t, err)
	assert.Equal(t, "SLR-1", summary.SellerID)
	assert.Equal(t, "Kamal Perera", summary.Name)
	assert.Equal(t, 25.0, summary.CommissionRate)
	assert.Equal(t, 30000.0, summary.BasicSalary)

	// Only SLR-1's rows: 2x120 + 1x80
	assert.Equal(t, int64(2), summary.TotalSales)
	assert.Equal(t, 320.0, summary.TotalRevenue)
	assert.Equal(t, int64(3), summary.TotalProductsSold)
}

func TestGetCommissionSummaryUnknownSeller(t *testing.T) {
	service := NewSellerApplicationService(newMockSellerRepository(), newMockSaleRepository(), newTestLogger())

	summary, err := service.GetCommissionSummary(context.Background(), "SLR-missing")

	assert.Nil(t, summary)
	assert.Error(t, err)
}
