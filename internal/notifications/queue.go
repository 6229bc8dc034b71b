package notifications

import (
	"context"
	"fmt"
	"sync"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/pkg/logger"
)

// Queue hands notifications to background workers
type Queue interface {
	Enqueue(ctx context.Context, n *EmailNotification) error
	Start(ctx context.Context) error
	Stop() error
}

// LocalQueue is an in-process buffered channel drained by worker goroutines
type LocalQueue struct {
	email   EmailService
	policy  RetryPolicy
	workers int
	buffer  int
	log     *logger.Logger

	mu      sync.RWMutex
	jobs    chan *EmailNotification
	running bool
	wg      sync.WaitGroup
}

func NewLocalQueue(email EmailService, workers, buffer int, policy RetryPolicy, log *logger.Logger) *LocalQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 100
	}
	return &LocalQueue{
		email:   email,
		policy:  policy,
		workers: workers,
		buffer:  buffer,
		log:     logger.OrDefault(log).WithComponent("notification-queue"),
	}
}

func (q *LocalQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return nil
	}
	q.running = true
	// Stop closes the channel, so every start gets a fresh one
	q.jobs = make(chan *EmailNotification, q.buffer)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.runWorker(ctx, i, q.jobs)
	}
	q.log.Info("notification workers started", "workers", q.workers)
	return nil
}

func (q *LocalQueue) runWorker(ctx context.Context, workerID int, jobs <-chan *EmailNotification) {
	defer q.wg.Done()
	log := &logger.Logger{Logger: q.log.With("worker", workerID)}
	for n := range jobs {
		// errors are logged by deliver
		_ = deliver(ctx, q.email, n, q.policy, log)
	}
}

func (q *LocalQueue) Enqueue(ctx context.Context, n *EmailNotification) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return fmt.Errorf("notification queue is not running: %w", apperror.ErrDelivery)
	}

	n.Status = NotificationStatusQueued
	select {
	case q.jobs <- n:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue notification %s: %v: %w", n.ID, ctx.Err(), apperror.ErrDelivery)
	default:
		return fmt.Errorf("notification queue is full: %w", apperror.ErrDelivery)
	}
}

// Stop closes the queue and waits for queued mail to drain
func (q *LocalQueue) Stop() error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.log.Info("notification workers stopped")
	return nil
}
