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

// PurchaseBatchHandler handles HTTP requests for supplier deliveries
type PurchaseBatchHandler struct {
	service *application.PurchaseBatchApplicationService
	logger  *logging.Logger
}

// NewPurchaseBatchHandler creates a new PurchaseBatchHandler
func NewPurchaseBatchHandler(service *application.PurchaseBatchApplicationService, logger *logging.Logger) *PurchaseBatchHandler {
	return &PurchaseBatchHandler{
		service: service,
		logger:  logger,
	}
}

// CreatePurchaseBatch handles POST /api/v1/purchase-batches
func (h *PurchaseBatchHandler) CreatePurchaseBatch(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreatePurchaseBatchCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreatePurchaseBatch(c.Request.Context(), cmd)
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

// GetPurchaseBatch handles GET /api/v1/purchase-batches/:batchId
func (h *PurchaseBatchHandler) GetPurchaseBatch(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetPurchaseBatch(c.Request.Context(), c.Param("batchId"))
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

// ListPurchaseBatches handles GET /api/v1/purchase-batches
func (h *PurchaseBatchHandler) ListPurchaseBatches(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListPurchaseBatchesQuery{
		Page:     page,
		PageSize: pageSize,
	}
	if supplier := c.Query("supplier"); supplier != "" {
		query.SupplierName = &supplier
	}
	if startDate, err := parseDateQuery(c.Query("startDate")); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid startDate"))
		return
	} else if startDate != nil {
		query.StartDate = startDate
	}
	if endDate, err := parseDateQuery(c.Query("endDate")); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid endDate"))
		return
	} else if endDate != nil {
		query.EndDate = endDate
	}

	result, err := h.service.ListPurchaseBatches(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
