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
	"github.com/emporium/backoffice/pkg/middleware"
)

func setupSellerRouter(sellerRepo *testutil.MockSellerRepository, saleRepo *testutil.MockSaleRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()

	logger := logging.New(logging.DefaultConfig("test"))
	service := application.NewSellerApplicationService(sellerRepo, saleRepo, logger)
	handler := NewSellerHandler(service, logger)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestCreateSellerEndpoint(t *testing.T) {
	router := setupSellerRouter(testutil.NewMockSellerRepository(), testutil.NewMockSaleRepository())

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "Kasun Perera",
		"phone":          "0771234567",
		"commissionRate": 25,
		"basicSalary":    30000,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sellers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data application.SellerDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.SellerID)
	assert.Equal(t, "Kasun Perera", resp.Data.Name)
	assert.Equal(t, 25.0, resp.Data.CommissionRate)
	assert.Equal(t, 30000.0, resp.Data.Total)
}

func TestCreateSellerEndpointValidation(t *testing.T) {
	router := setupSellerRouter(testutil.NewMockSellerRepository(), testutil.NewMockSaleRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sellers", bytes.NewReader([]byte(`{"phone":"077"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSellerEndpoint(t *testing.T) {
	sellerRepo := testutil.NewMockSellerRepository()
	sellerRepo.AddSeller(testutil.NewTestSeller("SLR-001"))
	router := setupSellerRouter(sellerRepo, testutil.NewMockSaleRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sellers/SLR-001", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data application.SellerDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SLR-001", resp.Data.SellerID)
}

func TestGetSellerEndpointNotFound(t *testing.T) {
	router := setupSellerRouter(testutil.NewMockSellerRepository(), testutil.NewMockSaleRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sellers/SLR-404", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSellersEndpoint(t *testing.T) {
	sellerRepo := testutil.NewMockSellerRepository()
	sellerRepo.AddSeller(testutil.NewTestSeller("SLR-001"))
	sellerRepo.AddSeller(testutil.NewTestSeller("SLR-002"))
	router := setupSellerRouter(sellerRepo, testutil.NewMockSaleRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sellers?page=1&pageSize=10", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []application.SellerDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestDeleteSellerEndpoint(t *testing.T) {
	sellerRepo := testutil.NewMockSellerRepository()
	sellerRepo.AddSeller(testutil.NewTestSeller("SLR-001"))
	router := setupSellerRouter(sellerRepo, testutil.NewMockSaleRepository())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sellers/SLR-001", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/sellers/SLR-001", nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)
	assert.Equal(t, http.StatusNotFound, getW.Code)
}
