package dashboard

import (
	"context"
	"fmt"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/invoices"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	BookingsByStatus(ctx context.Context, scope Scope) (map[string]int64, error)
	ConfirmedRevenue(ctx context.Context, scope Scope) (decimal.Decimal, error)
	VouchersIssued(ctx context.Context, scope Scope) (int64, error)
	InvoicesByStatus(ctx context.Context) (map[string]int64, error)
	UpcomingFlights(ctx context.Context, scope Scope, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// scopedBookings returns live bookings, limited to the organizer's events
func (r *repository) scopedBookings(ctx context.Context, scope Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&bookings.Booking{})
	if scope.OrganizerID != nil {
		q = q.Where("bookings.event_id IN (?)", r.organizerEvents(ctx, *scope.OrganizerID))
	}
	return q
}

func (r *repository) organizerEvents(ctx context.Context, organizerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&events.Event{}).Select("id").Where("organizer_id = ?", organizerID)
}

func (r *repository) BookingsByStatus(ctx context.Context, scope Scope) (map[string]int64, error) {
	var rows []statusCount
	err := r.scopedBookings(ctx, scope).
		Select("bookings.status AS status, COUNT(*) AS count").
		Group("bookings.status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}
	return toMap(rows), nil
}

func (r *repository) ConfirmedRevenue(ctx context.Context, scope Scope) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.scopedBookings(ctx, scope).
		Where("bookings.status = ?", bookings.StatusConfirmed).
		Select("COALESCE(SUM(bookings.price), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum confirmed revenue: %w", err)
	}
	return total.Round(2), nil
}

func (r *repository) VouchersIssued(ctx context.Context, scope Scope) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&bookings.Voucher{}).
		Joins("JOIN bookings ON bookings.id = vouchers.booking_id AND bookings.deleted_at IS NULL")
	if scope.OrganizerID != nil {
		q = q.Where("bookings.event_id IN (?)", r.organizerEvents(ctx, *scope.OrganizerID))
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vouchers: %w", err)
	}
	return count, nil
}

func (r *repository) InvoicesByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&invoices.Invoice{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices by status: %w", err)
	}
	return toMap(rows), nil
}

func (r *repository) UpcomingFlights(ctx context.Context, scope Scope, now time.Time) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&flights.Flight{}).
		Where("departure_at > ? AND status <> ?", now, flights.StatusCancelled)
	if scope.OrganizerID != nil {
		q = q.Where("event_id IN (?)", r.organizerEvents(ctx, *scope.OrganizerID))
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count upcoming flights: %w", err)
	}
	return count, nil
}

func toMap(rows []statusCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out
}
