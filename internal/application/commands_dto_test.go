package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/domain"
)

func TestClampPagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int64
		pageSize     int64
		wantPage     int64
		wantPageSize int64
	}{
		{name: "defaults applied", page: 0, pageSize: 0, wantPage: 1, wantPageSize: 20},
		{name: "negative page", page: -3, pageSize: 10, wantPage: 1, wantPageSize: 10},
		{name: "oversized page size", page: 2, pageSize: 500, wantPage: 2, wantPageSize: 20},
		{name: "upper bound kept", page: 1, pageSize: 100, wantPage: 1, wantPageSize: 100},
		{name: "normal values untouched", page: 3, pageSize: 25, wantPage: 3, wantPageSize: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pagination := clampPagination(tt.page, tt.pageSize)

			assert.Equal(t, tt.wantPage, pagination.Page)
			assert.Equal(t, tt.wantPageSize, pagination.PageSize)
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int64
		want     int64
	}{
		{total: 0, pageSize: 20, want: 0},
		{total: 1, pageSize: 20, want: 1},
		{total: 20, pageSize: 20, want: 1},
		{total: 21, pageSize: 20, want: 2},
		{total: 100, pageSize: 25, want: 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, totalPages(tt.total, tt.pageSize))
	}
}

func TestToProductDTO(t *testing.T) {
	product, err := domain.NewProduct("Ceiling Fan 56in", "CF-56", "fans", domain.PriceSet{Retail: 120}, 3)
	require.NoError(t, err)

	dto := ToProductDTO(product)

	assert.Equal(t, product.ProductID, dto.ProductID)
	assert.Equal(t, 120.0, dto.Prices.Retail)
	assert.Equal(t, 3, dto.Stock)
	assert.True(t, dto.LowStock)
}

func TestToCustomerDTOLegacyLines(t *testing.T) {
	customer := &domain.Customer{
		CustomerID:  "CUS-1",
		Name:        "Nimali Silva",
		Type:        domain.CustomerTypeOnline,
		Product:     "PRD-1",
		ProductInfo: "Ceiling Fan 56in",
	}

	dto := ToCustomerDTO(customer, nil)

	require.Len(t, dto.Products, 1)
	assert.Equal(t, "PRD-1", dto.Products[0].ProductID)
	assert.Equal(t, 1, dto.Products[0].Quantity)
	assert.Empty(t, dto.Degraded)
}

func TestToBillDTOCarriesDegraded(t *testing.T) {
	bill, err := domain.NewBill("EM-0001", "SLR-1",
		domain.BillCustomer{Name: "Nimali Silva"},
		[]domain.BillItem{{ProductID: "PRD-1", Name: "Fan", PriceTier: domain.PriceTierRetail, UnitPrice: 120, Quantity: 2}},
		0, 100, 0)
	require.NoError(t, err)

	degraded := []SideEffect{{Stage: "income", Error: "store down"}}
	dto := ToBillDTO(bill, degraded)

	assert.Equal(t, "EM-0001", dto.BillNumber)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 240.0, dto.Items[0].TotalAmount)
	assert.Equal(t, degraded, dto.Degraded)
}
