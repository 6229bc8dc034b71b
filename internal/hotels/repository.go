package hotels

import (
	"context"
	"errors"
	"fmt"

	"bookingdesk/internal/shared/apperror"

	"gorm.io/gorm"
)

var (
	ErrHotelNotFound   = fmt.Errorf("hotel %w", apperror.ErrNotFound)
	ErrPackageNotFound = fmt.Errorf("package %w", apperror.ErrNotFound)
)

type Repository interface {
	CreateHotel(ctx context.Context, h *Hotel) error
	GetHotel(ctx context.Context, id uint) (*Hotel, error)
	UpdateHotel(ctx context.Context, h *Hotel) error
	DeleteHotel(ctx context.Context, id uint) error
	ListHotels(ctx context.Context, eventID uint, organizerID uint) ([]Hotel, error)

	CreatePackage(ctx context.Context, p *Package) error
	GetPackage(ctx context.Context, id uint) (*Package, error)
	UpdatePackage(ctx context.Context, p *Package) error
	DeletePackage(ctx context.Context, id uint) error
	ListPackages(ctx context.Context, hotelID uint) ([]Package, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateHotel(ctx context.Context, h *Hotel) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) GetHotel(ctx context.Context, id uint) (*Hotel, error) {
	var h Hotel
	err := r.db.WithContext(ctx).Preload("Packages").First(&h, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *repository) UpdateHotel(ctx context.Context, h *Hotel) error {
	return r.db.WithContext(ctx).Omit("Packages").Save(h).Error
}

func (r *repository) DeleteHotel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", id).Delete(&Package{}).Error; err != nil {
			return fmt.Errorf("delete packages: %w", err)
		}
		res := tx.Delete(&Hotel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrHotelNotFound
		}
		return nil
	})
}

// ListHotels filters by event and, when organizerID is set, by the event owner
func (r *repository) ListHotels(ctx context.Context, eventID uint, organizerID uint) ([]Hotel, error) {
	var out []Hotel
	db := r.db.WithContext(ctx).Model(&Hotel{})
	if eventID != 0 {
		db = db.Where("event_id = ?", eventID)
	}
	if organizerID != 0 {
		db = db.Where("event_id IN (?)", r.db.Table("events").Select("id").Where("organizer_id = ?", organizerID))
	}
	err := db.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) CreatePackage(ctx context.Context, p *Package) error {
	return r.db.WithContext(ctx).Omit("Hotel").Create(p).Error
}

func (r *repository) GetPackage(ctx context.Context, id uint) (*Package, error) {
	var p Package
	err := r.db.WithContext(ctx).Preload("Hotel").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePackage(ctx context.Context, p *Package) error {
	return r.db.WithContext(ctx).Omit("Hotel").Save(p).Error
}

func (r *repository) DeletePackage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Package{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) ListPackages(ctx context.Context, hotelID uint) ([]Package, error) {
	var out []Package
	err := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID).Order("price ASC").Find(&out).Error
	return out, err
}
