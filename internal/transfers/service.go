package transfers

import (
	"context"
	"fmt"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
)

type EventOwner interface {
	OrganizerOf(ctx context.Context, eventID uint) (uint, error)
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req CreateTransferRequest) (*Transfer, error)
	Get(ctx context.Context, actor users.Actor, id uint) (*Transfer, error)
	List(ctx context.Context, actor users.Actor, q ListQuery) ([]Transfer, error)
	UpdateStatus(ctx context.Context, actor users.Actor, id uint, status Status) (*Transfer, error)
	AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*Transfer, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]Transfer, error)
}

type service struct {
	repo   Repository
	events EventOwner
}

func NewService(repo Repository, events EventOwner) Service {
	return &service{repo: repo, events: events}
}

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

func (s *service) Create(ctx context.Context, actor users.Actor, req CreateTransferRequest) (*Transfer, error) {
	if err := s.authorize(ctx, actor, req.EventID); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperror.ErrValidation)
	}

	t := &Transfer{
		EventID:         req.EventID,
		TripType:        req.TripType,
		VehicleType:     req.VehicleType,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		PickupAt:        req.PickupAt,
		Passengers:      req.Passengers,
		Price:           req.Price.Round(2),
		Status:          StatusPending,
	}
	if t.VehicleType == "" {
		t.VehicleType = VehicleSedan
	}
	if t.Passengers == 0 {
		t.Passengers = 1
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transfer: %w", err)
	}
	return t, nil
}

func (s *service) load(ctx context.Context, actor users.Actor, id uint) (*Transfer, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, t.EventID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uint) (*Transfer, error) {
	return s.load(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor users.Actor, q ListQuery) ([]Transfer, error) {
	if !actor.IsAdmin() {
		if !actor.IsOrganizer() {
			return nil, apperror.ErrForbidden
		}
		q.OrganizerID = actor.ID
	}
	return s.repo.List(ctx, q)
}

func (s *service) UpdateStatus(ctx context.Context, actor users.Actor, id uint, status Status) (*Transfer, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if t.Status == status {
		return t, nil
	}
	if t.Status == StatusCancelled {
		return nil, fmt.Errorf("transfer %d is cancelled: %w", id, apperror.ErrInvalidTransition)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	t.Status = status
	return t, nil
}

func (s *service) AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*Transfer, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if t.BookingID != nil && *t.BookingID != bookingID {
		return nil, fmt.Errorf("transfer %d already attached to booking %d: %w", id, *t.BookingID, apperror.ErrConflict)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"booking_id": bookingID}); err != nil {
		return nil, err
	}
	t.BookingID = &bookingID
	return t, nil
}

func (s *service) ListByBooking(ctx context.Context, bookingID uint) ([]Transfer, error) {
	return s.repo.List(ctx, ListQuery{BookingID: bookingID})
}
