package vouchers

import (
	"context"
	"net/http"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/shared/utils/params"
	"bookingdesk/internal/shared/utils/response"
	"bookingdesk/internal/users"

	"github.com/gin-gonic/gin"
)

// BookingReader loads a booking the actor is allowed to see
type BookingReader interface {
	Get(ctx context.Context, actor users.Actor, id uint) (*bookings.Booking, error)
}

type Controller struct {
	service  Service
	bookings BookingReader
}

func NewController(service Service, bookingReader BookingReader) *Controller {
	return &Controller{service: service, bookings: bookingReader}
}

// Download godoc
// @Summary Download the voucher PDF of a booking
// @Tags vouchers
// @Produce application/pdf
// @Param id path int true "Booking ID"
// @Success 200 {file} file
// @Failure 404 {object} response.StandardApiResponse
// @Router /bookings/{id}/voucher [get]
func (ctrl *Controller) Download(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get booking", err)
		return
	}

	file, err := ctrl.service.Download(c.Request.Context(), booking)
	if err != nil {
		response.RespondError(c, "Failed to get voucher", err)
		return
	}
	response.RespondPDF(c, file.Filename, file.Data)
}

// Resend handles POST /bookings/:id/voucher/send
func (ctrl *Controller) Resend(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, ok := params.ID(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookings.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondError(c, "Failed to get booking", err)
		return
	}

	if err := ctrl.service.Resend(c.Request.Context(), actor, booking); err != nil {
		response.RespondError(c, "Failed to send voucher", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusAccepted, "Voucher queued for delivery", nil, nil)
}

// GetByNumber godoc
// @Summary Find a voucher by its number
// @Tags vouchers
// @Produce json
// @Param number path string true "Voucher number"
// @Success 200 {object} response.StandardApiResponse
// @Failure 404 {object} response.StandardApiResponse
// @Router /vouchers/{number} [get]
func (ctrl *Controller) GetByNumber(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	voucher, err := ctrl.service.Lookup(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.RespondError(c, "Failed to get voucher", err)
		return
	}
	// organizers only see vouchers of their own events
	if _, err := ctrl.bookings.Get(c.Request.Context(), actor, voucher.BookingID); err != nil {
		response.RespondError(c, "Failed to get voucher", err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Voucher retrieved successfully", voucher, nil)
}
