package bookings

import (
	"time"

	"bookingdesk/internal/shared/utils/params"
)

type CreateBookingRequest struct {
	GuestName  string     `json:"guest_name" binding:"required,min=2,max=255"`
	GuestEmail string     `json:"guest_email" binding:"required,email"`
	GuestPhone string     `json:"guest_phone" binding:"max=50"`
	EventID    *uint      `json:"event_id"`
	HotelID    *uint      `json:"hotel_id"`
	PackageID  *uint      `json:"package_id"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Notes      string     `json:"notes" binding:"max=2000"`
}

type TransitionRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending confirmed cancelled refunded"`
}

type BookingListQuery struct {
	params.Page
	Status  Status     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled refunded"`
	EventID uint       `form:"event_id"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	To      *time.Time `form:"to" time_format:"2006-01-02"`
	Search  string     `form:"search"`

	// forced by the service from the actor
	UserID      uint `form:"-"`
	OrganizerID uint `form:"-"`
}

type AttachFlightRequest struct {
	FlightID uint `json:"flight_id" binding:"required"`
}

type AttachTransferRequest struct {
	TransferID uint `json:"transfer_id" binding:"required"`
}
