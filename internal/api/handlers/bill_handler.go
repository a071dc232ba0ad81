package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emporium/backoffice/internal/application"
	"github.com/emporium/backoffice/pkg/errors"
	"github.com/emporium/backoffice/pkg/logging"
	"github.com/emporium/backoffice/pkg/middleware"
)

// BillHandler handles HTTP requests for bills and their payments
type BillHandler struct {
	service *application.BillApplicationService
	logger  *logging.Logger
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(service *application.BillApplicationService, logger *logging.Logger) *BillHandler {
	return &BillHandler{
		service: service,
		logger:  logger,
	}
}

// CreateBill handles POST /api/v1/bills
func (h *BillHandler) CreateBill(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateBillCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateBill(c.Request.Context(), cmd)
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

// GetBill handles GET /api/v1/bills/:billId
func (h *BillHandler) GetBill(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetBill(c.Request.Context(), c.Param("billId"))
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

// ListBills handles GET /api/v1/bills
func (h *BillHandler) ListBills(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListBillsQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if sellerID := c.Query("sellerId"); sellerID != "" {
		query.SellerID = &sellerID
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if customerName := c.Query("customerName"); customerName != "" {
		query.CustomerName = &customerName
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
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}

	result, err := h.service.ListBills(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCustomerHistory handles GET /api/v1/bills/customer/:customerName/history
func (h *BillHandler) GetCustomerHistory(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "10"), 10, 64)

	result, err := h.service.GetCustomerHistory(c.Request.Context(), c.Param("customerName"), page, pageSize)
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

// GetBillingStats handles GET /api/v1/bills/stats/overview
func (h *BillHandler) GetBillingStats(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetBillingStats(c.Request.Context())
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

// UpdateBill handles PUT /api/v1/bills/:billId
func (h *BillHandler) UpdateBill(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateBillCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BillID = c.Param("billId")

	result, err := h.service.UpdateBill(c.Request.Context(), cmd)
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

// AddPayment handles POST /api/v1/bills/:billId/payments
func (h *BillHandler) AddPayment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.AddBillPaymentCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BillID = c.Param("billId")

	result, err := h.service.AddBillPayment(c.Request.Context(), cmd)
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

// UpdateStatus handles PUT /api/v1/bills/:billId/status
func (h *BillHandler) UpdateStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateBillStatusCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.BillID = c.Param("billId")

	result, err := h.service.UpdateBillStatus(c.Request.Context(), cmd)
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

// CancelBill handles POST /api/v1/bills/:billId/cancel
func (h *BillHandler) CancelBill(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.CancelBill(c.Request.Context(), c.Param("billId"))
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

// parseDateQuery accepts a date-only or RFC 3339 value; empty means unset
func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
