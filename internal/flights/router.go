package flights

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFlightRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	staff := router.Group("/admin/flights")
	staff.Use(auth, middleware.RequireStaff())
	{
		staff.GET("", controller.List)
		staff.POST("", controller.Create)
		staff.GET("/:id", controller.Get)
		staff.PATCH("/:id/status", controller.UpdateStatus)
		staff.POST("/:id/ticket", controller.UploadTicket)
		staff.POST("/:id/credentials", controller.SendCredentials)
	}
}
