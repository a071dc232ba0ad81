package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emporium/backoffice/internal/application"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/middleware"
)

// SaleHandler handles HTTP requests for the sale ledger
type SaleHandler struct {
	service *application.SaleApplicationService
	logger  *logging.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service *application.SaleApplicationService, logger *logging.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSale handles POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateSaleCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateSale(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// GetLastPrice handles GET /api/v1/sales/last-price
func (h *SaleHandler) GetLastPrice(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetLastPrice(c.Request.Context(), c.Query("customerId"), c.Query("productId"))
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetSale handles GET /api/v1/sales/:saleId
func (h *SaleHandler) GetSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetSale(c.Request.Context(), c.Param("saleId"))
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListSales handles GET /api/v1/sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListSalesQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if sellerID := c.Query("sellerId"); sellerID != "" {
		query.SellerID = &sellerID
	}
	if customerID := c.Query("customerId"); customerID != "" {
		query.CustomerID = &customerID
	}
	if productID := c.Query("productId"); productID != "" {
		query.ProductID = &productID
	}

	result, err := h.service.ListSales(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteSale handles DELETE /api/v1/sales/:saleId
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteSale(c.Request.Context(), c.Param("saleId")); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
