package bookings

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth, optionalAuth gin.HandlerFunc) {
	// Guests may book without an account
	public := rg.Group("/bookings")
	public.Use(optionalAuth)
	{
		public.POST("", controller.CreateBooking)
	}

	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.GET("", controller.ListBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.GET("/reference/:reference", controller.GetBookingByReference)
	}

	staff := rg.Group("/bookings")
	staff.Use(auth, middleware.RequireStaff())
	{
		staff.PATCH("/:id/status", controller.TransitionBooking)
		staff.POST("/:id/flights", controller.AttachFlight)
		staff.POST("/:id/transfers", controller.AttachTransfer)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.DELETE("/:id", controller.DeleteBooking)
		admin.POST("/sweep", controller.RunSweep)
	}
}

// Route definitions for reference:
//
// POST   /api/v1/bookings                     - Create a pending booking (guest or signed in)
// GET    /api/v1/bookings                     - List bookings scoped to the caller's role
// GET    /api/v1/bookings/:id                 - Get one booking with hotel, flights and transfers
// PATCH  /api/v1/bookings/:id/status          - { "status": "confirmed" } and friends
// POST   /api/v1/bookings/:id/flights         - { "flight_id": 3 } re-prices the booking
// POST   /api/v1/bookings/:id/transfers       - { "transfer_id": 5 } re-prices the booking
// DELETE /api/v1/admin/bookings/:id           - Soft delete; refused once documents exist
// POST   /api/v1/admin/bookings/sweep         - Cancel pending bookings older than 48h now
