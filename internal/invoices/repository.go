package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrInvoiceNotFound = fmt.Errorf("invoice %w", apperror.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uint) (*Invoice, error)
	GetByBooking(ctx context.Context, bookingID uint) (*Invoice, error)
	List(ctx context.Context, q ListQuery) ([]Invoice, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	// UpdateStatus moves the invoice only if it is still in from
	UpdateStatus(ctx context.Context, id uint, from, to Status, at time.Time) (bool, error)
	CountForYear(ctx context.Context, year int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Omit("Booking").Create(inv).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Booking.Event").
		Preload("Booking.Hotel").
		Preload("Booking.Package").
		Preload("Booking.Flights").
		Preload("Booking.Transfers").
		First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uint) (*Invoice, error) {
	var inv Invoice
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Invoice, int64, error) {
	var out []Invoice
	var total int64

	q.Page = q.Page.Normalize()
	db := r.db.WithContext(ctx).Model(&Invoice{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.BookingID != 0 {
		db = db.Where("booking_id = ?", q.BookingID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("invoice_number LIKE ? OR client_name LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("issued_at DESC, id DESC").
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&out).Error
	return out, total, err
}

func (r *repository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Invoice{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, from, to Status, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to, "updated_at": at}
	switch to {
	case StatusSent:
		updates["sent_at"] = at
	case StatusPaid:
		updates["paid_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&Invoice{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountForYear(ctx context.Context, year int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Invoice{}).
		Where("invoice_number LIKE ?", fmt.Sprintf("INV-%04d-%%", year)).
		Count(&n).Error
	return n, err
}
