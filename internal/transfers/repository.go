package transfers

import (
	"context"
	"errors"
	"fmt"

	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrTransferNotFound = fmt.Errorf("transfer %w", apperror.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	GetByID(ctx context.Context, id uint) (*Transfer, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, q ListQuery) ([]Transfer, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Transfer, error) {
	var t Transfer
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Transfer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransferNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Transfer, error) {
	var out []Transfer
	db := r.db.WithContext(ctx).Model(&Transfer{})
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
	err := db.Order("pickup_at ASC, id ASC").Find(&out).Error
	return out, err
}
