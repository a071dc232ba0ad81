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

// CustomerHandler handles HTTP requests for customers and the commission
// side effects tied to them
type CustomerHandler struct {
	service *application.CustomerApplicationService
	logger  *logging.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(service *application.CustomerApplicationService, logger *logging.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

// CreateCustomer handles POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateCustomerCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateCustomer(c.Request.Context(), cmd)
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

// GetCustomer handles GET /api/v1/customers/:customerId
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetCustomer(c.Request.Context(), c.Param("customerId"))
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

// ListCustomers handles GET /api/v1/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListCustomersQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if customerType := c.Query("type"); customerType != "" {
		query.Type = &customerType
	}
	if sellerID := c.Query("sellerId"); sellerID != "" {
		query.SellerID = &sellerID
	}

	result, err := h.service.ListCustomers(c.Request.Context(), query)
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

// UpdateCustomer handles PUT /api/v1/customers/:customerId
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateCustomerCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.CustomerID = c.Param("customerId")

	result, err := h.service.UpdateCustomer(c.Request.Context(), cmd)
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

// DeleteCustomer handles DELETE /api/v1/customers/:customerId
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteCustomer(c.Request.Context(), c.Param("customerId")); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BackfillCommissions handles POST /api/v1/customers/commissions/backfill
func (h *CustomerHandler) BackfillCommissions(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.BackfillCommissions(c.Request.Context())
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// PreviewCommissions handles GET /api/v1/customers/commissions/preview
func (h *CustomerHandler) PreviewCommissions(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.PreviewCommissions(c.Request.Context())
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
