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

// ReturnHandler handles HTTP requests for product returns
type ReturnHandler struct {
	service *application.ReturnApplicationService
	logger  *logging.Logger
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(service *application.ReturnApplicationService, logger *logging.Logger) *ReturnHandler {
	return &ReturnHandler{
		service: service,
		logger:  logger,
	}
}

// CreateReturn handles POST /api/v1/returns
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateReturnCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateReturn(c.Request.Context(), cmd)
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

// GetReturn handles GET /api/v1/returns/:returnId
func (h *ReturnHandler) GetReturn(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetReturn(c.Request.Context(), c.Param("returnId"))
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

// ListReturns handles GET /api/v1/returns
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	result, err := h.service.ListReturns(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
