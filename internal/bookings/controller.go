package bookings

import (
	"net/http"

	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/params"
	"bookingdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	jobs    *JobProcessor
}

// NewController wires the HTTP handlers; jobs may be nil when the scheduler is off
func NewController(service Service, jobs *JobProcessor) *Controller {
	return &Controller{service: service, jobs: jobs}
}

// CreateBooking godoc
// @Summary Create a pending booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking"
// @Success 201 {object} response.StandardApiResponse
// @Router /bookings [post]
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.RespondError(c, "Failed to create booking", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// GetBooking handles GET /bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get booking", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetBookingByReference handles GET /bookings/reference/:reference
func (ctrl *Controller) GetBookingByReference(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	booking, err := ctrl.service.GetByReference(c.Request.Context(), actor, c.Param("reference"))
	if err != nil {
		response.RespondError(c, "Failed to get booking", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// ListBookings godoc
// @Summary List bookings visible to the caller
// @Tags bookings
// @Produce json
// @Param status query string false "pending, confirmed, cancelled or refunded"
// @Param event_id query int false "Event filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.StandardApiResponse
// @Router /bookings [get]
func (ctrl *Controller) ListBookings(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.List(c.Request.Context(), actor, query)
	if err != nil {
		response.RespondError(c, "Failed to list bookings", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// TransitionBooking godoc
// @Summary Change a booking's status
// @Description pending -> confirmed|cancelled, confirmed -> refunded. Confirming issues the voucher and emails it.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body TransitionRequest true "Target status"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /bookings/{id}/status [patch]
func (ctrl *Controller) TransitionBooking(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Transition(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		response.RespondError(c, "Failed to update booking status", err)
		return
	}

	message := "Booking status updated successfully"
	if result.NoOp {
		message = "Booking already " + string(result.Booking.Status)
	}
	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

// AttachFlight handles POST /bookings/:id/flights
func (ctrl *Controller) AttachFlight(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req AttachFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.AttachFlight(c.Request.Context(), actor, id, req.FlightID)
	if err != nil {
		response.RespondError(c, "Failed to attach flight", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Flight attached successfully", booking, nil)
}

// AttachTransfer handles POST /bookings/:id/transfers
func (ctrl *Controller) AttachTransfer(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	var req AttachTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.AttachTransfer(c.Request.Context(), actor, id, req.TransferID)
	if err != nil {
		response.RespondError(c, "Failed to attach transfer", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Transfer attached successfully", booking, nil)
}

// DeleteBooking handles DELETE /bookings/:id
func (ctrl *Controller) DeleteBooking(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.RespondError(c, "Failed to delete booking", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking deleted successfully", nil, nil)
}

// RunSweep handles POST /admin/bookings/sweep
func (ctrl *Controller) RunSweep(c *gin.Context) {
	if ctrl.jobs == nil {
		response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Scheduler is disabled", nil, nil)
		return
	}

	result, ran, err := ctrl.jobs.RunSweep(c.Request.Context())
	if err != nil {
		response.RespondError(c, "Pending sweep failed", err)
		return
	}
	if !ran {
		response.RespondJSON(c, "success", http.StatusAccepted, "Pending sweep already ran recently", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Pending sweep completed", result, nil)
}
