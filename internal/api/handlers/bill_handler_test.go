package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium/backoffice/internal/application"
	"github.com/emporium/backoffice/internal/testutil"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/metrics"
	"github.com/emporium/backoffice/pkg/middleware"
)

type billRouterFixture struct {
	router      *gin.Engine
	productRepo *testutil.MockProductRepository
	sellerRepo  *testutil.MockSellerRepository
	incomeRepo  *testutil.MockIncomeRepository
}

func setupBillRouter(t *testing.T) *billRouterFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	logger := logging.New(logging.DefaultConfig("test"))
	productRepo := testutil.NewMockProductRepository()
	productRepo.AddProduct(testutil.NewTestProduct("PRD-001", 10))
	sellerRepo := testutil.NewMockSellerRepository()
	sellerRepo.AddSeller(testutil.NewTestSeller("SLR-001"))
	incomeRepo := testutil.NewMockIncomeRepository()

	businessMetrics := middleware.NewBusinessMetrics(metrics.New(metrics.DefaultConfig("test")))
	service := application.NewBillApplicationService(
		testutil.NewMockBillRepository(),
		productRepo,
		sellerRepo,
		testutil.NewMockSaleRepository(),
		incomeRepo,
		application.NewStockLedger(productRepo, logger, businessMetrics),
		testutil.NewMockEventPublisher(),
		logger,
		businessMetrics,
	)
	handler := NewBillHandler(service, logger)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	return &billRouterFixture{
		router:      router,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
		incomeRepo:  incomeRepo,
	}
}

func postBill(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBillEndpoint(t *testing.T) {
	fixture := setupBillRouter(t)

	w := postBill(t, fixture.router, map[string]interface{}{
		"sellerId": "SLR-001",
		"customer": map[string]interface{}{"name": "Nimali Silva"},
		"items": []map[string]interface{}{
			{"productId": "PRD-001", "quantity": 2, "priceTier": "retail"},
		},
		"amountPaid": 100,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data application.BillDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EM-0001", resp.Data.BillNumber)
	assert.Equal(t, 240.0, resp.Data.Total)
	assert.Equal(t, 140.0, resp.Data.RemainingAmount)
	assert.Equal(t, 8, fixture.productRepo.StockOf("PRD-001"))
	assert.Equal(t, 50.0, fixture.sellerRepo.CommissionOf("SLR-001"))
}

func TestCreateBillEndpointInsufficientStock(t *testing.T) {
	fixture := setupBillRouter(t)

	w := postBill(t, fixture.router, map[string]interface{}{
		"sellerId": "SLR-001",
		"customer": map[string]interface{}{"name": "Nimali Silva"},
		"items": []map[string]interface{}{
			{"productId": "PRD-001", "quantity": 50},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10, fixture.productRepo.StockOf("PRD-001"))
}

func TestCreateBillEndpointUnknownSeller(t *testing.T) {
	fixture := setupBillRouter(t)

	w := postBill(t, fixture.router, map[string]interface{}{
		"sellerId": "SLR-404",
		"customer": map[string]interface{}{"name": "Nimali Silva"},
		"items": []map[string]interface{}{
			{"productId": "PRD-001", "quantity": 1},
		},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelBillEndpoint(t *testing.T) {
	fixture := setupBillRouter(t)

	created := postBill(t, fixture.router, map[string]interface{}{
		"sellerId": "SLR-001",
		"customer": map[string]interface{}{"name": "Nimali Silva"},
		"items": []map[string]interface{}{
			{"productId": "PRD-001", "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var resp struct {
		Data application.BillDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	require.Equal(t, 7, fixture.productRepo.StockOf("PRD-001"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/"+resp.Data.BillID+"/cancel", nil)
	w := httptest.NewRecorder()
	fixture.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, fixture.productRepo.StockOf("PRD-001"))
}
