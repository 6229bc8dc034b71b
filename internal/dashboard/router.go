package dashboard

import (
	"bookingdesk/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDashboardRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc) {
	rg.GET("/dashboard", authMiddleware, middleware.RequireStaff(), controller.GetSummary)
}
