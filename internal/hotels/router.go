package hotels

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHotelRoutes(router *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	public := router.Group("/hotels")
	{
		public.GET("/:id", controller.GetHotel)
		public.GET("/:id/packages", controller.ListPackages)
	}

	staff := router.Group("/admin/hotels")
	staff.Use(auth, middleware.RequireStaff())
	{
		staff.GET("", controller.ListHotels)
		staff.POST("", controller.CreateHotel)
		staff.PUT("/:id", controller.UpdateHotel)
		staff.DELETE("/:id", controller.DeleteHotel)
		staff.POST("/:id/packages", controller.CreatePackage)
		staff.PUT("/:id/packages/:packageId", controller.UpdatePackage)
		staff.DELETE("/:id/packages/:packageId", controller.DeletePackage)
	}
}
