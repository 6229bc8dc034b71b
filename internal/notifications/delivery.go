package notifications

import (
	"context"
	"fmt"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/pkg/logger"
)

// RetryPolicy bounds delivery attempts. Attempt n waits Backoff * 2^n.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: time.Second}
}

// deliver sends one notification with exponential backoff. The final error
// wraps ErrDelivery and is only logged by the workers.
func deliver(ctx context.Context, email EmailService, n *EmailNotification, policy RetryPolicy, log *logger.Logger) error {
	maxRetries := policy.MaxRetries
	if n.MaxRetries > 0 && n.MaxRetries < maxRetries {
		maxRetries = n.MaxRetries
	}
	n.Status = NotificationStatusSending

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := email.Send(ctx, n)
		if err == nil {
			n.MarkSent()
			if attempt > 0 {
				log.Info("notification delivered after retries", "notification_id", n.ID.String(), "retries", attempt)
			}
			return nil
		}

		if attempt == maxRetries {
			failure := fmt.Errorf("notification %s to %s: %v: %w", n.ID, n.RecipientEmail, err, apperror.ErrDelivery)
			n.MarkFailed(failure)
			log.WithError(failure).Error("notification delivery failed",
				"notification_id", n.ID.String(),
				"type", string(n.Type),
				"attempts", attempt+1,
			)
			return failure
		}

		n.IncrementRetry()
		delay := policy.Backoff * time.Duration(1<<attempt)
		log.Warn("retrying notification", "notification_id", n.ID.String(), "attempt", attempt+1, "delay", delay.String(), "error", err.Error())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			n.MarkFailed(ctx.Err())
			return fmt.Errorf("notification %s abandoned: %v: %w", n.ID, ctx.Err(), apperror.ErrDelivery)
		}
	}
	return nil
}
