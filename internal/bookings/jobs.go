package bookings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookingdesk/internal/shared/constants"
	"bookingdesk/pkg/logger"

	"github.com/robfig/cron"
)

// Locker grants a lease that is held by at most one process at a time
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
	LockKey       string
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: time.Hour,
		LockKey:       constants.LOCK_KEY_PENDING_SWEEP,
	}
}

// JobProcessor runs the pending sweep on a cron schedule. Runs are
// serialized in-process and, when a Locker is set, across replicas.
type JobProcessor struct {
	service Service
	config  *JobConfig
	locker  Locker
	cron    *cron.Cron
	log     *logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewJobProcessor creates a new job processor; locker may be nil
func NewJobProcessor(service Service, config *JobConfig, locker Locker, log *logger.Logger) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Hour
	}
	if config.LockKey == "" {
		config.LockKey = constants.LOCK_KEY_PENDING_SWEEP
	}

	return &JobProcessor{
		service: service,
		config:  config,
		locker:  locker,
		cron:    cron.New(),
		log:     logger.OrDefault(log).WithComponent("booking-jobs"),
		now:     time.Now,
	}
}

// Start schedules the sweep and starts the cron runner
func (jp *JobProcessor) Start(ctx context.Context) error {
	spec := "@every " + jp.config.SweepInterval.String()
	err := jp.cron.AddFunc(spec, func() {
		if _, _, err := jp.RunSweep(ctx); err != nil {
			jp.log.WithError(err).Error("pending booking sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pending sweep: %w", err)
	}

	jp.cron.Start()
	jp.log.Info("booking background jobs started", "sweep_interval", jp.config.SweepInterval.String())
	return nil
}

// Stop stops the cron runner; a sweep in flight finishes on its own
func (jp *JobProcessor) Stop() {
	jp.cron.Stop()
	jp.log.Info("booking background jobs stopped")
}

// RunSweep runs one sweep unless another run holds the guard or the last
// run is too recent. The boolean reports whether a sweep actually ran.
func (jp *JobProcessor) RunSweep(ctx context.Context) (*SweepResult, bool, error) {
	now := jp.now()

	jp.mu.Lock()
	if jp.running || (!jp.lastRun.IsZero() && now.Sub(jp.lastRun) < jp.minGap()) {
		jp.mu.Unlock()
		jp.log.Debug("pending sweep skipped; a recent run exists")
		return nil, false, nil
	}
	jp.running = true
	jp.mu.Unlock()

	defer func() {
		jp.mu.Lock()
		jp.running = false
		jp.mu.Unlock()
	}()

	if jp.locker != nil {
		acquired, err := jp.locker.TryLock(ctx, jp.config.LockKey, jp.minGap())
		if err != nil {
			return nil, false, fmt.Errorf("failed to acquire sweep lock: %w", err)
		}
		if !acquired {
			jp.log.Debug("pending sweep skipped; another instance holds the lock")
			return nil, false, nil
		}
	}

	result, err := jp.service.SweepExpiredPending(ctx, now)

	jp.mu.Lock()
	jp.lastRun = now
	jp.mu.Unlock()

	return result, true, err
}

// minGap tolerates scheduler jitter so a tick is never dropped for being a little early
func (jp *JobProcessor) minGap() time.Duration {
	return jp.config.SweepInterval * 9 / 10
}
