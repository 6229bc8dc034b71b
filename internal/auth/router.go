package auth

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers login/registration and the admin organizer endpoint
func SetupAuthRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", controller.Register)
		auth.POST("/login", controller.Login)
		auth.POST("/refresh", controller.RefreshToken)
		auth.POST("/logout", controller.Logout)

		protected := auth.Group("")
		protected.Use(authMiddleware)
		{
			protected.PUT("/change-password", controller.ChangePassword)
			protected.GET("/me", controller.GetMe)
		}
	}

	admin := rg.Group("/admin")
	admin.Use(authMiddleware, middleware.RequireAdmin())
	{
		admin.POST("/organizers", controller.CreateOrganizer)
	}
}
