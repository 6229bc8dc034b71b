package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingdesk/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrBookingNotFound = fmt.Errorf("booking %w", apperror.ErrNotFound)

type Repository interface {
	// Core booking operations
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uint) (*Booking, error)
	GetByIDWithRelations(ctx context.Context, id uint) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	SoftDelete(ctx context.Context, id uint) error

	// UpdateStatus moves the booking only if it is still in from.
	// It reports false when another writer got there first.
	UpdateStatus(ctx context.Context, id uint, from, to Status, at time.Time) (bool, error)
	UpdatePrice(ctx context.Context, id uint, price decimal.Decimal) error

	// Sweep and guards
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error)
	CountDocuments(ctx context.Context, id uint) (int64, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).
		Omit("Event", "Hotel", "Package", "Flights", "Transfers", "Voucher").
		Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Event").
		Preload("Hotel").
		Preload("Package").
		Preload("Flights", func(db *gorm.DB) *gorm.DB { return db.Order("departure_at ASC, id ASC") }).
		Preload("Transfers", func(db *gorm.DB) *gorm.DB { return db.Order("pickup_at ASC, id ASC") }).
		Preload("Voucher")
}

func (r *repository) GetByIDWithRelations(ctx context.Context, id uint) (*Booking, error) {
	var booking Booking
	if err := r.withRelations(r.db.WithContext(ctx)).First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("reference = ?", reference).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	query.Page = query.Page.Normalize()

	baseQuery := r.applyFilters(r.db.WithContext(ctx).Model(&Booking{}), query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Event").
		Preload("Hotel").
		Preload("Package").
		Preload("Voucher").
		Order("created_at DESC, id DESC").
		Offset(query.Offset()).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, totalCount, nil
}

func (r *repository) applyFilters(db *gorm.DB, query BookingListQuery) *gorm.DB {
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.EventID != 0 {
		db = db.Where("event_id = ?", query.EventID)
	}
	if query.UserID != 0 {
		db = db.Where("user_id = ?", query.UserID)
	}
	if query.OrganizerID != 0 {
		db = db.Where("event_id IN (?)", r.db.Table("events").Select("id").Where("organizer_id = ?", query.OrganizerID))
	}
	if query.From != nil {
		db = db.Where("created_at >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("created_at < ?", query.To.AddDate(0, 0, 1))
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		db = db.Where("reference LIKE ? OR guest_name LIKE ? OR guest_email LIKE ?", like, like, like)
	}
	return db
}

func (r *repository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to Status, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case StatusConfirmed:
		updates["confirmed_at"] = at
	case StatusCancelled:
		updates["cancelled_at"] = at
	case StatusRefunded:
		updates["refunded_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdatePrice(ctx context.Context, id uint, price decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Update("price", price).Error
}

func (r *repository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	db := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&bookings).Error
	return bookings, err
}

// CountDocuments counts vouchers and invoices that reference the booking
func (r *repository) CountDocuments(ctx context.Context, id uint) (int64, error) {
	var vouchers, invoices int64
	if err := r.db.WithContext(ctx).Model(&Voucher{}).Where("booking_id = ?", id).Count(&vouchers).Error; err != nil {
		return 0, err
	}
	if r.db.Migrator().HasTable("invoices") {
		if err := r.db.WithContext(ctx).Table("invoices").Where("booking_id = ?", id).Count(&invoices).Error; err != nil {
			return 0, err
		}
	}
	return vouchers + invoices, nil
}

func (r *repository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&Booking{}).
		Where("reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}
