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

// SellerHandler handles HTTP requests for sellers and their commission ledger
type SellerHandler struct {
	service *application.SellerApplicationService
	logger  *logging.Logger
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(service *application.SellerApplicationService, logger *logging.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSeller handles POST /api/v1/sellers
func (h *SellerHandler) CreateSeller(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateSellerCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateSeller(c.Request.Context(), cmd)
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

// GetSeller handles GET /api/v1/sellers/:sellerId
func (h *SellerHandler) GetSeller(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetSeller(c.Request.Context(), c.Param("sellerId"))
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

// ListSellers handles GET /api/v1/sellers
func (h *SellerHandler) ListSellers(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	result, err := h.service.ListSellers(c.Request.Context(), page, pageSize)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateSeller handles PUT /api/v1/sellers/:sellerId
func (h *SellerHandler) UpdateSeller(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateSellerCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.SellerID = c.Param("sellerId")

	result, err := h.service.UpdateSeller(c.Request.Context(), cmd)
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

// DeleteSeller handles DELETE /api/v1/sellers/:sellerId
func (h *SellerHandler) DeleteSeller(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteSeller(c.Request.Context(), c.Param("sellerId")); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetCommissionSummary handles GET /api/v1/sellers/:sellerId/commission-summary
func (h *SellerHandler) GetCommissionSummary(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetCommissionSummary(c.Request.Context(), c.Param("sellerId"))
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

// GetSellerSales handles GET /api/v1/sellers/:sellerId/sales
func (h *SellerHandler) GetSellerSales(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	result, err := h.service.GetSellerSales(c.Request.Context(), c.Param("sellerId"), page, pageSize)
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
