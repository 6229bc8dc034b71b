// Command sweep runs the pending-booking sweep once and exits. It takes the
// same Redis lock as the scheduler inside the server.
package main

import (
	"context"
	"os"
	"time"

	"bookingdesk/api/routes"
	"bookingdesk/internal/notifications"
	"bookingdesk/internal/shared/config"
	"bookingdesk/internal/shared/database"
	"bookingdesk/internal/storage"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/eventbus"
	"bookingdesk/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	log := logger.New().WithComponent("sweep")
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("pending sweep failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := storage.FromConfig(cfg, log)
	if err != nil {
		return err
	}

	// the sweep itself sends nothing; the dispatcher satisfies the wiring
	dispatcher, err := notifications.NewFromConfig(cfg, store, log)
	if err != nil {
		return err
	}

	var publisher eventbus.Publisher = eventbus.Noop{}
	if cfg.Kafka.EventsEnabled {
		publisher = eventbus.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic, log)
	}
	defer publisher.Close()

	deps := routes.Dependencies{
		Config:    cfg,
		DB:        db.PostgreSQL,
		Storage:   store,
		Notifier:  dispatcher,
		Publisher: publisher,
		Logger:    log,
	}
	if db.Redis != nil {
		deps.Cache = cache.NewService(db.Redis, "", log)
	}
	services := routes.NewServices(deps)

	result, ran, err := services.Jobs.RunSweep(ctx)
	if err != nil {
		return err
	}
	if !ran {
		log.Info("sweep skipped; another instance holds the lock")
		return nil
	}
	log.Info("sweep finished", "scanned", result.Scanned, "cancelled", result.Cancelled, "skipped", result.Skipped)
	return nil
}
