package vouchers

import (
	"context"
	"errors"
	"fmt"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var ErrVoucherNotFound = fmt.Errorf("voucher %w", apperror.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, v *bookings.Voucher) error
	GetByBooking(ctx context.Context, bookingID uint) (*bookings.Voucher, error)
	GetByNumber(ctx context.Context, number string) (*bookings.Voucher, error)
	SetPDFPath(ctx context.Context, id uint, path string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *bookings.Voucher) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uint) (*bookings.Voucher, error) {
	var v bookings.Voucher
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*bookings.Voucher, error) {
	var v bookings.Voucher
	if err := r.db.WithContext(ctx).Where("voucher_number = ?", number).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) SetPDFPath(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).
		Model(&bookings.Voucher{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}
