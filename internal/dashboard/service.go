package dashboard

import (
	"context"
	"fmt"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/shared/constants"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/cache"
	"bookingdesk/pkg/logger"
)

type Service interface {
	Summary(ctx context.Context, actor users.Actor) (*Summary, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

// NewService caches summaries for ttl when a cache is given
func NewService(repo Repository, cacheService cache.Service, ttl time.Duration, log *logger.Logger) Service {
	if ttl <= 0 {
		ttl = constants.TTL_DASHBOARD
	}
	return &service{
		repo:  repo,
		cache: cacheService,
		ttl:   ttl,
		log:   logger.OrDefault(log).WithComponent("dashboard"),
		now:   time.Now,
	}
}

func (s *service) Summary(ctx context.Context, actor users.Actor) (*Summary, error) {
	var (
		scope Scope
		key   string
	)
	switch {
	case actor.IsAdmin():
		key = constants.CACHE_KEY_DASHBOARD_ADMIN
	case actor.IsOrganizer():
		id := actor.ID
		scope.OrganizerID = &id
		key = constants.BuildOrganizerDashboardKey(id)
	default:
		return nil, apperror.ErrForbidden
	}

	if s.cache == nil {
		return s.build(ctx, scope)
	}

	var summary Summary
	err := s.cache.GetOrSet(ctx, key, s.ttl, func() (interface{}, error) {
		return s.build(ctx, scope)
	}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) build(ctx context.Context, scope Scope) (*Summary, error) {
	summary := &Summary{
		Scope:       ScopeGlobal,
		OrganizerID: scope.OrganizerID,
		GeneratedAt: s.now().UTC(),
	}
	if scope.OrganizerID != nil {
		summary.Scope = ScopeOrganizer
	}

	byStatus, err := s.repo.BookingsByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, st := range []bookings.Status{bookings.StatusPending, bookings.StatusConfirmed, bookings.StatusCancelled, bookings.StatusRefunded} {
		if _, ok := byStatus[string(st)]; !ok {
			byStatus[string(st)] = 0
		}
	}
	summary.BookingsByStatus = byStatus
	for _, n := range byStatus {
		summary.TotalBookings += n
	}

	if summary.ConfirmedRevenue, err = s.repo.ConfirmedRevenue(ctx, scope); err != nil {
		return nil, err
	}
	if summary.VouchersIssued, err = s.repo.VouchersIssued(ctx, scope); err != nil {
		return nil, err
	}
	if summary.UpcomingFlights, err = s.repo.UpcomingFlights(ctx, scope, s.now()); err != nil {
		return nil, err
	}

	if scope.OrganizerID == nil {
		if summary.InvoicesByStatus, err = s.repo.InvoicesByStatus(ctx); err != nil {
			return nil, fmt.Errorf("dashboard invoices: %w", err)
		}
	}

	s.log.DebugContext(ctx, "dashboard built", "scope", summary.Scope, "bookings", summary.TotalBookings)
	return summary, nil
}
