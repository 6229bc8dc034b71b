package flights

import (
	"context"
	"errors"
	"fmt"

	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrFlightNotFound = fmt.Errorf("flight %w", apperror.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, f *Flight) error
	GetByID(ctx context.Context, id uint) (*Flight, error)
	Update(ctx context.Context, f *Flight) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, q ListQuery) ([]Flight, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]Flight, error)
	AttachToBooking(ctx context.Context, id, bookingID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Flight) error {
	return r.db.WithContext(ctx).Omit("User").Create(f).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Flight, error) {
	var f Flight
	if err := r.db.WithContext(ctx).Preload("User").First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) Update(ctx context.Context, f *Flight) error {
	return r.db.WithContext(ctx).Omit("User").Save(f).Error
}

func (r *repository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Flight{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFlightNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Flight, error) {
	var out []Flight
	db := r.db.WithContext(ctx).Model(&Flight{})
	if q.EventID != 0 {
		db = db.Where("event_id = ?", q.EventID)
	}
	if q.BookingID != 0 {
		db = db.Where("booking_id = ?", q.BookingID)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.OrganizerID != 0 {
		db = db.Where("event_id IN (?)", r.db.Table("events").Select("id").Where("organizer_id = ?", q.OrganizerID))
	}
	err := db.Order("departure_at ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uint) ([]Flight, error) {
	return r.List(ctx, ListQuery{BookingID: bookingID})
}

func (r *repository) AttachToBooking(ctx context.Context, id, bookingID uint) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"booking_id": bookingID})
}
