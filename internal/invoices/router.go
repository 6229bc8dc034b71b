package invoices

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupInvoiceRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	admin := router.Group("/admin/invoices")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.GET("", controller.List)
		admin.POST("", controller.Create)
		admin.POST("/from-booking", controller.CreateFromBooking)
		admin.GET("/:id", controller.Get)
		admin.PATCH("/:id/status", controller.UpdateStatus)
		admin.GET("/:id/pdf", controller.Download)
		admin.POST("/:id/send", controller.Send)
	}
}
