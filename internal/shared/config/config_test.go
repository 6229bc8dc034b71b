package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, time.Hour, cfg.Scheduler.SweepInterval)
	assert.Equal(t, 48*time.Hour, cfg.Scheduler.PendingTTL)
	assert.Equal(t, "fr", cfg.Documents.Locale)
	assert.Equal(t, "MAD", cfg.Documents.Currency)
	assert.False(t, cfg.UseKafkaNotifications())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "30m")
	t.Setenv("PENDING_BOOKING_TTL", "24h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("NOTIFICATION_TRANSPORT", "KAFKA")
	t.Setenv("APP_URL", "https://desk.example.ma/")
	t.Setenv("DB_HOST", "db")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.Scheduler.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.PendingTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.UseKafkaNotifications())
	assert.Equal(t, "https://desk.example.ma", cfg.AppURL)
	assert.Contains(t, cfg.Database.DSN, "host=db ")
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getIntEnv("X_INT", 7))
	assert.True(t, getBoolEnv("X_BOOL", true))
	assert.Equal(t, time.Second, getDurationEnv("X_DUR", time.Second))
}
