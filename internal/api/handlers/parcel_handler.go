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

// ParcelHandler handles HTTP requests for courier parcels
type ParcelHandler struct {
	service *application.ParcelApplicationService
	logger  *logging.Logger
}

// NewParcelHandler creates a new ParcelHandler
func NewParcelHandler(service *application.ParcelApplicationService, logger *logging.Logger) *ParcelHandler {
	return &ParcelHandler{
		service: service,
		logger:  logger,
	}
}

// CreateParcel handles POST /api/v1/parcels
func (h *ParcelHandler) CreateParcel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.CreateParcelCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.CreateParcel(c.Request.Context(), cmd)
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

// GetParcel handles GET /api/v1/parcels/:parcelId
func (h *ParcelHandler) GetParcel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.GetParcel(c.Request.Context(), c.Param("parcelId"))
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

// ListParcels handles GET /api/v1/parcels
func (h *ParcelHandler) ListParcels(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListParcelsQuery{
		Page:     page,
		PageSize: pageSize,
	}

	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		query.PaymentStatus = &paymentStatus
	}

	result, err := h.service.ListParcels(c.Request.Context(), query)
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

// UpdateParcel handles PUT /api/v1/parcels/:parcelId
func (h *ParcelHandler) UpdateParcel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateParcelCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ParcelID = c.Param("parcelId")

	result, err := h.service.UpdateParcel(c.Request.Context(), cmd)
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

// UpdateStatus handles PUT /api/v1/parcels/:parcelId/status
func (h *ParcelHandler) UpdateStatus(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.UpdateParcelStatusCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.ParcelID = c.Param("parcelId")

	result, err := h.service.UpdateParcelStatus(c.Request.Context(), cmd)
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

// DeleteParcel handles DELETE /api/v1/parcels/:parcelId
func (h *ParcelHandler) DeleteParcel(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	if err := h.service.DeleteParcel(c.Request.Context(), c.Param("parcelId")); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
