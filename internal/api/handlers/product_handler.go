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

// ProductHandler handles HTTP requests for the product catalog and stock
type ProductHandler struct {
	service *application.ProductApplicationService
	logger  *logging.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *application.ProductApplicationService, logger *logging.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateProductCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateProduct(c.Request.Context(), cmd)
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

// GetProduct handles GET /api/v1/products/:productId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.GetProductQuery{
		ProductID: c.Param("productId"),
	}

	result, err := h.service.GetProduct(c.Request.Context(), query)
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

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListProductsQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if category := c.Query("category"); category != "" {
		query.Category = &category
	}
	if lowStock := c.Query("lowStock"); lowStock == "true" {
		query.LowStock = true
	}

	result, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateProduct handles PUT /api/v1/products/:productId
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateProductCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ProductID = c.Param("productId")

	result, err := h.service.UpdateProduct(c.Request.Context(), cmd)
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

// AdjustStock handles POST /api/v1/products/:productId/stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.AdjustStockCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ProductID = c.Param("productId")

	result, err := h.service.AdjustStock(c.Request.Context(), cmd)
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

// GetStockHistory handles GET /api/v1/products/:productId/stock-history
func (h *ProductHandler) GetStockHistory(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetStockHistory(c.Request.Context(), c.Param("productId"))
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

// DeleteProduct handles DELETE /api/v1/products/:productId
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("productId")); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
