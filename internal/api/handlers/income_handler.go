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

// IncomeHandler handles HTTP requests for the income log
type IncomeHandler struct {
	service *application.IncomeApplicationService
	logger  *logging.Logger
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(service *application.IncomeApplicationService, logger *logging.Logger) *IncomeHandler {
	return &IncomeHandler{
		service: service,
		logger:  logger,
	}
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateIncomeCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateIncome(c.Request.Context(), cmd)
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

// ListIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListIncomesQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if incomeType := c.Query("type"); incomeType != "" {
		query.Type = &incomeType
	}
	if billID := c.Query("billId"); billID != "" {
		query.BillID = &billID
	}

	result, err := h.service.ListIncomes(c.Request.Context(), query)
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
