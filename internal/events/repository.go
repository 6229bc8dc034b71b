package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrEventNotFound = fmt.Errorf("event %w", apperror.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query ListQuery) ([]Event, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var event Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]Event, int64, error) {
	var (
		out   []Event
		total int64
	)

	db := r.db.WithContext(ctx).Model(&Event{})
	if query.Search != "" {
		term := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(venue) LIKE ?", term, term, term)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.OrganizerID != 0 {
		db = db.Where("organizer_id = ?", query.OrganizerID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page.Normalize()
	err := db.Order("starts_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&out).Error
	return out, total, err
}
