package hotels

import (
	"context"
	"fmt"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
)

// EventOwner resolves the organizer of an event
type EventOwner interface {
	OrganizerOf(ctx context.Context, eventID uint) (uint, error)
}

type Service interface {
	CreateHotel(ctx context.Context, actor users.Actor, req CreateHotelRequest) (*Hotel, error)
	GetHotel(ctx context.Context, id uint) (*Hotel, error)
	UpdateHotel(ctx context.Context, actor users.Actor, id uint, req UpdateHotelRequest) (*Hotel, error)
	DeleteHotel(ctx context.Context, actor users.Actor, id uint) error
	ListHotels(ctx context.Context, actor users.Actor, eventID uint) ([]Hotel, error)

	CreatePackage(ctx context.Context, actor users.Actor, hotelID uint, req CreatePackageRequest) (*Package, error)
	GetPackage(ctx context.Context, id uint) (*Package, error)
	UpdatePackage(ctx context.Context, actor users.Actor, id uint, req UpdatePackageRequest) (*Package, error)
	DeletePackage(ctx context.Context, actor users.Actor, id uint) error
	ListPackages(ctx context.Context, hotelID uint) ([]Package, error)
}

type service struct {
	repo   Repository
	events EventOwner
}

func NewService(repo Repository, events EventOwner) Service {
	return &service{repo: repo, events: events}
}

// authorize checks the actor may manage hotels attached to eventID
func (s *service) authorize(ctx context.Context, actor users.Actor, eventID *uint) error {
	if actor.IsAdmin() {
		return nil
	}
	if eventID == nil || !actor.IsOrganizer() {
		return apperror.ErrForbidden
	}
	owner, err := s.events.OrganizerOf(ctx, *eventID)
	if err != nil {
		return err
	}
	if !actor.CanManage(owner) {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *service) CreateHotel(ctx context.Context, actor users.Actor, req CreateHotelRequest) (*Hotel, error) {
	if err := s.authorize(ctx, actor, req.EventID); err != nil {
		return nil, err
	}
	h := &Hotel{
		EventID: req.EventID,
		Name:    req.Name,
		Stars:   req.Stars,
		City:    req.City,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	}
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return nil, fmt.Errorf("create hotel: %w", err)
	}
	return h, nil
}

func (s *service) GetHotel(ctx context.Context, id uint) (*Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

func (s *service) UpdateHotel(ctx context.Context, actor users.Actor, id uint, req UpdateHotelRequest) (*Hotel, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, h.EventID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Stars != nil {
		h.Stars = *req.Stars
	}
	if req.City != nil {
		h.City = *req.City
	}
	if req.Address != nil {
		h.Address = *req.Address
	}
	if req.Phone != nil {
		h.Phone = *req.Phone
	}
	if req.Email != nil {
		h.Email = *req.Email
	}

	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return nil, fmt.Errorf("update hotel %d: %w", id, err)
	}
	return h, nil
}

func (s *service) DeleteHotel(ctx context.Context, actor users.Actor, id uint) error {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, h.EventID); err != nil {
		return err
	}
	return s.repo.DeleteHotel(ctx, id)
}

func (s *service) ListHotels(ctx context.Context, actor users.Actor, eventID uint) ([]Hotel, error) {
	var organizerID uint
	if actor.IsOrganizer() {
		organizerID = actor.ID
	}
	return s.repo.ListHotels(ctx, eventID, organizerID)
}

func (s *service) CreatePackage(ctx context.Context, actor users.Actor, hotelID uint, req CreatePackageRequest) (*Package, error) {
	h, err := s.repo.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, h.EventID); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperror.ErrValidation)
	}

	p := &Package{
		HotelID:   hotelID,
		Name:      req.Name,
		RoomType:  req.RoomType,
		RateBasis: req.RateBasis,
		Price:     req.Price.Round(2),
		Quota:     req.Quota,
	}
	if err := s.repo.CreatePackage(ctx, p); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	return p, nil
}

func (s *service) GetPackage(ctx context.Context, id uint) (*Package, error) {
	return s.repo.GetPackage(ctx, id)
}

func (s *service) UpdatePackage(ctx context.Context, actor users.Actor, id uint, req UpdatePackageRequest) (*Package, error) {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, packageEvent(p)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.RoomType != nil {
		p.RoomType = *req.RoomType
	}
	if req.RateBasis != nil {
		p.RateBasis = *req.RateBasis
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", apperror.ErrValidation)
		}
		p.Price = req.Price.Round(2)
	}
	if req.Quota != nil {
		p.Quota = *req.Quota
	}

	if err := s.repo.UpdatePackage(ctx, p); err != nil {
		return nil, fmt.Errorf("update package %d: %w", id, err)
	}
	return p, nil
}

func (s *service) DeletePackage(ctx context.Context, actor users.Actor, id uint) error {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, packageEvent(p)); err != nil {
		return err
	}
	return s.repo.DeletePackage(ctx, id)
}

func (s *service) ListPackages(ctx context.Context, hotelID uint) ([]Package, error) {
	return s.repo.ListPackages(ctx, hotelID)
}

func packageEvent(p *Package) *uint {
	if p.Hotel == nil {
		return nil
	}
	return p.Hotel.EventID
}
