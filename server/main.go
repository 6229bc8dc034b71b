package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingdesk/api/routes"
	_ "bookingdesk/docs"
	"bookingdesk/internal/notifications"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/shared/database"
	"bookingdesk/internal/shared/middleware"
	"bookingdesk/internal/storage"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/eventbus"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/ratelimit"
	"bookingdesk/pkg/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Booking Desk API
// @version 1.0
// @description Back-office for event travel bookings, vouchers and invoices.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	appLogger := logger.New()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry := telemetry.Setup(ctx, cfg.ServiceName, appLogger)

	db, err := database.InitDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("failed to initialize database")
		os.Exit(1)
	}

	store, err := storage.FromConfig(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("failed to prepare storage roots")
		os.Exit(1)
	}

	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis, "", appLogger)
	}

	dispatcher, err := notifications.NewFromConfig(cfg, store, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("failed to initialize notifications")
		os.Exit(1)
	}
	if err := dispatcher.Start(ctx); err != nil {
		appLogger.WithError(err).Error("failed to start notification workers")
		os.Exit(1)
	}

	var publisher eventbus.Publisher = eventbus.Noop{}
	if cfg.Kafka.EventsEnabled {
		publisher = eventbus.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic, appLogger)
		appLogger.Info("booking events enabled", "topic", cfg.Kafka.BookingEventsTopic)
	}

	services := routes.NewServices(routes.Dependencies{
		Config:    cfg,
		DB:        db.PostgreSQL,
		Cache:     cacheService,
		Storage:   store,
		Notifier:  dispatcher,
		Publisher: publisher,
		Logger:    appLogger,
	})

	if cfg.Scheduler.Enabled {
		if err := services.Jobs.Start(ctx); err != nil {
			appLogger.WithError(err).Error("failed to start booking jobs")
			os.Exit(1)
		}
	}

	engine := setupEngine(cfg, db, services, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        otelhttp.NewHandler(engine, cfg.ServiceName),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			"address", cfg.GetServerAddress(),
			"health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port),
			"version", Version,
			"commit", GitCommit,
			"built", BuildTime,
			"redis_cache", db.Redis != nil,
			"rate_limiting", cfg.RateLimit.Enabled,
			"notification_transport", cfg.Kafka.NotificationTransport,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Error("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}

	services.Jobs.Stop()
	if err := dispatcher.Stop(); err != nil {
		appLogger.WithError(err).Error("failed to stop notification workers")
	}
	if err := publisher.Close(); err != nil {
		appLogger.WithError(err).Error("failed to close event publisher")
	}
	cancel()
	if err := db.Close(); err != nil {
		appLogger.WithError(err).Error("failed to close databases")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("failed to flush traces")
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, db *database.DB, services *routes.Services, log *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.RequestLogger(log), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		engine.Use(ratelimit.Middleware(ratelimit.NewRateLimiter(db.Redis, cfg.RateLimit), log))
		log.Info("Rate limiting middleware applied to all routes", "window", cfg.RateLimit.WindowDuration.String())
	}

	routes.NewRouter(cfg, services, db).SetupRoutes(engine)
	return engine
}
