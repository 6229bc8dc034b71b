package invoices

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/params"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Create godoc
// @Summary Create a manual invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice"
// @Success 201 {object} response.StandardApiResponse
// @Router /admin/invoices [post]
func (ctrl *Controller) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	inv, err := ctrl.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create invoice", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Invoice created successfully", inv, nil)
}

// CreateFromBooking godoc
// @Summary Invoice a booking
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body FromBookingRequest true "Booking"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /admin/invoices/from-booking [post]
func (ctrl *Controller) CreateFromBooking(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var req FromBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	inv, err := ctrl.service.CreateFromBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create invoice", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Invoice created successfully", inv, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	inv, err := ctrl.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get invoice", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Invoice retrieved successfully", inv, nil)
}

func (ctrl *Controller) List(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	result, err := ctrl.service.List(c.Request.Context(), actor, q)
	if err != nil {
		response.RespondError(c, "Failed to list invoices", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Invoices retrieved successfully", result, nil)
}

func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	inv, err := ctrl.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.RespondError(c, "Failed to update invoice status", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Invoice status updated successfully", inv, nil)
}

// Download godoc
// @Summary Download the invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path int true "Invoice ID"
// @Success 200 {file} file
// @Router /admin/invoices/{id}/pdf [get]
func (ctrl *Controller) Download(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	data, filename, err := ctrl.service.PDF(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get invoice PDF", err)
		return
	}
	response.RespondPDF(c, filename, data)
}

func (ctrl *Controller) Send(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}
	inv, err := ctrl.service.Send(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to send invoice", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Invoice queued for delivery", inv, nil)
}
