package dashboard

import (
	"context"

	"bookingdesk/internal/shared/constants"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/logger"
)

// Invalidator drops every cached summary when a booking changes status.
// It satisfies eventbus.Publisher so it can sit in a fan-out next to Kafka.
type Invalidator struct {
	cache cache.Service
	log   *logger.Logger
}

func NewInvalidator(cacheService cache.Service, log *logger.Logger) *Invalidator {
	return &Invalidator{cache: cacheService, log: logger.OrDefault(log).WithComponent("dashboard")}
}

func (i *Invalidator) Publish(ctx context.Context, key string, _ interface{}) error {
	if i.cache == nil {
		return nil
	}
	if err := i.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_DASHBOARD); err != nil {
		// stale for at most one TTL
		i.log.WithError(err).WarnContext(ctx, "dashboard invalidation failed", "key", key)
	}
	return nil
}

func (i *Invalidator) Close() error { return nil }
