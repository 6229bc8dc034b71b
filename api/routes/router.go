package routes

import (
	"context"
	"net/http"
	"time"

	"bookingdesk/internal/auth"
	"bookingdesk/internal/bookings"
	"bookingdesk/internal/dashboard"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/invoices"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/vouchers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker reports the state of each backing service
type HealthChecker interface {
	HealthCheck(ctx context.Context) map[string]string
}

// Router mounts every module on the engine
type Router struct {
	config   *config.Config
	services *Services
	health   HealthChecker
}

func NewRouter(cfg *config.Config, services *Services, health HealthChecker) *Router {
	return &Router{config: cfg, services: services, health: health}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.Static("/storage", r.config.Storage.PublicRoot)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authMiddleware := middleware.JWTAuthWithConfig(r.config)
	optionalAuth := middleware.OptionalAuthWithConfig(r.config)
	s := r.services

	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, auth.NewController(s.Auth), authMiddleware)
		events.SetupEventRoutes(api, events.NewController(s.Events), authMiddleware)
		hotels.SetupHotelRoutes(api, hotels.NewController(s.Hotels), authMiddleware)
		flights.SetupFlightRoutes(api, flights.NewController(s.Flights), authMiddleware)
		transfers.SetupTransferRoutes(api, transfers.NewController(s.Transfers), authMiddleware)
		bookings.SetupBookingRoutes(api, bookings.NewController(s.Bookings, s.Jobs), authMiddleware, optionalAuth)
		vouchers.SetupVoucherRoutes(api, vouchers.NewController(s.Vouchers, s.Bookings), authMiddleware)
		invoices.SetupInvoiceRoutes(api, invoices.NewController(s.Invoices), authMiddleware)
		dashboard.SetupDashboardRoutes(api, dashboard.NewController(s.Dashboard), authMiddleware)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		checks := map[string]string{}
		if r.health != nil {
			checks = r.health.HealthCheck(c.Request.Context())
		}
		status, code := "healthy", http.StatusOK
		for _, v := range checks {
			if v == "down" {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now(),
			"service":   r.config.ServiceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
