package events

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes registers public browsing and staff management routes
func SetupEventRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	public := router.Group("/events")
	{
		public.GET("", controller.ListPublishedEvents)
		public.GET("/:id", controller.GetPublishedEvent)
	}

	staff := router.Group("/admin/events")
	staff.Use(auth, middleware.RequireStaff())
	{
		staff.POST("", controller.CreateEvent)
		staff.GET("", controller.ListEvents)
		staff.GET("/:id", controller.GetEvent)
		staff.PUT("/:id", controller.UpdateEvent)
		staff.DELETE("/:id", controller.DeleteEvent)
	}
}
