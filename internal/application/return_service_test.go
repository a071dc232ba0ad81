package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/domain"
)

func TestCreateReturn(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 3))
	returnRepo := newMockReturnRepository()
	service := NewReturnApplicationService(returnRepo, productRepo, newMockEventPublisher(), newTestLogger(), newTestBusinessMetrics())

	dto, err := service.CreateReturn(context.Background(), CreateReturnCommand{
		ProductID: "PRD-1",
		Quantity:  2,
		UnitPrice: 120,
		Notes:     "damaged box",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, dto.ReturnID)
	assert.Equal(t, "Ceiling Fan 56in", dto.ProductName)
	assert.Equal(t, 5, productRepo.products["PRD-1"].Stock)
	assert.Len(t, returnRepo.returns, 1)
}

func TestCreateReturnUnknownProduct(t *testing.T) {
	service := NewReturnApplicationService(newMockReturnRepository(), newMockProductRepository(), newMockEventPublisher(), newTestLogger(), newTestBusinessMetrics())

	dto, err := service.CreateReturn(context.Background(), CreateReturnCommand{
		ProductID: "PRD-missing",
		Quantity:  1,
	})

	assert.Nil(t, dto)
	assert.Error(t, err)
}

func TestCreateReturnSaveFailureUnwindsStock(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 3))
	returnRepo := newMockReturnRepository()
	returnRepo.SaveFunc = func(ctx context.Context, ret *domain.Return) error {
		return errors.New("write failed")
	}
	service := NewReturnApplicationService(returnRepo, productRepo, newMockEventPublisher(), newTestLogger(), newTestBusinessMetrics())

	dto, err := service.CreateReturn(context.Background(), CreateReturnCommand{
		ProductID: "PRD-1",
		Quantity:  2,
	})

	assert.Nil(t, dto)
	assert.Error(t, err)
	assert.Equal(t, 3, productRepo.products["PRD-1"].Stock)
}

func TestListReturnsSearchByTracking(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 3))
	returnRepo := newMockReturnRepository()
	service := NewReturnApplicationService(returnRepo, productRepo, newMockEventPublisher(), newTestLogger(), newTestBusinessMetrics())

	_, err := service.CreateReturn(context.Background(), CreateReturnCommand{
		ProductID: "PRD-1", Quantity: 1, TrackingID: "LCS-12345",
	})
	require.NoError(t, err)
	_, err = service.CreateReturn(context.Background(), CreateReturnCommand{
		ProductID: "PRD-1", Quantity: 1, TrackingID: "LCS-99999",
	})
	require.NoError(t, err)

	result, err := service.ListReturns(context.Background(), "123", 1, 20)

	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "LCS-12345", result.Data[0].TrackingID)
	assert.Equal(t, int64(1), result.Total)
}

func TestListReturnsTotalSpansPages(t *testing.T) {
	productRepo := newMockProductRepository()
	productRepo.AddProduct(newTestProduct(t, "PRD-1", 0))
	returnRepo := newMockReturnRepository()
	service := NewReturnApplicationService(returnRepo, productRepo, newMockEventPublisher(), newTestLogger(), newTestBusinessMetrics())

	for i := 0; i < 3; i++ {
		_, err := service.CreateReturn(context.Background(), CreateReturnCommand{
			ProductID: "PRD-1", Quantity: 1,
		})
		require.NoError(t, err)
	}

	result, err := service.ListReturns(context.Background(), "", 1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, int64(2), result.TotalPages)
}
