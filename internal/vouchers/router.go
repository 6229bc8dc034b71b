package vouchers

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVoucherRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	bookings := router.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.GET("/:id/voucher", controller.Download)
		bookings.POST("/:id/voucher/send", middleware.RequireStaff(), controller.Resend)
	}

	vouchers := router.Group("/vouchers")
	vouchers.Use(auth, middleware.RequireStaff())
	{
		vouchers.GET("/:number", controller.GetByNumber)
	}
}
