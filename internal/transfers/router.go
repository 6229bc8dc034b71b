package transfers

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTransferRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	staff := router.Group("/admin/transfers")
	staff.Use(auth, middleware.RequireStaff())
	{
		staff.GET("", controller.List)
		staff.POST("", controller.Create)
		staff.GET("/:id", controller.Get)
		staff.PATCH("/:id/status", controller.UpdateStatus)
	}
}
