package flights

import (
	"context"
	"fmt"
	"io"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

const ticketMaxSize = 10 << 20

// EventOwner resolves the organizer of an event
type EventOwner interface {
	OrganizerOf(ctx context.Context, eventID uint) (uint, error)
}

// TicketStore receives uploaded e-tickets
type TicketStore interface {
	Upload(ctx context.Context, dir, filename string, r io.Reader, maxSize int64) (string, error)
	URL(p string) string
}

// CredentialsNotifier delivers a passenger's generated password
type CredentialsNotifier interface {
	SendFlightCredentials(ctx context.Context, f *Flight, u *users.User, password string) error
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req CreateFlightRequest) (*Flight, error)
	Get(ctx context.Context, actor users.Actor, id uint) (*Flight, error)
	List(ctx context.Context, actor users.Actor, q ListQuery) ([]Flight, error)
	UpdateStatus(ctx context.Context, actor users.Actor, id uint, status Status) (*Flight, error)
	UploadTicket(ctx context.Context, actor users.Actor, id uint, filename string, r io.Reader) (*Flight, error)
	SendCredentials(ctx context.Context, actor users.Actor, id uint) error

	// used by bookings
	AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*Flight, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]Flight, error)
}

type service struct {
	repo     Repository
	events   EventOwner
	users    users.Repository
	tickets  TicketStore
	notifier CredentialsNotifier
	log      *logger.Logger
}

func NewService(repo Repository, events EventOwner, userRepo users.Repository, tickets TicketStore, notifier CredentialsNotifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		events:   events,
		users:    userRepo,
		tickets:  tickets,
		notifier: notifier,
		log:      logger.OrDefault(log).WithComponent("flights"),
	}
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

func validateLegs(req CreateFlightRequest) error {
	if req.Price.IsNegative() || req.ReturnPrice.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", apperror.ErrValidation)
	}
	switch req.FlightCategory {
	case CategoryOneWay:
		if !req.ReturnPrice.IsZero() || req.ReturnFlightNumber != "" || req.ReturnDepartureAt != nil {
			return fmt.Errorf("%w: one way flights cannot carry a return leg", apperror.ErrValidation)
		}
	case CategoryRoundTrip:
		if req.ReturnDepartureAt == nil {
			return fmt.Errorf("%w: round trip flights need a return departure", apperror.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown flight category %q", apperror.ErrValidation, req.FlightCategory)
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor users.Actor, req CreateFlightRequest) (*Flight, error) {
	if err := s.authorize(ctx, actor, req.EventID); err != nil {
		return nil, err
	}
	if err := validateLegs(req); err != nil {
		return nil, err
	}

	class := req.FlightClass
	if class == "" {
		class = ClassEconomy
	}
	f := &Flight{
		EventID:            req.EventID,
		UserID:             req.UserID,
		Airline:            req.Airline,
		FlightNumber:       req.FlightNumber,
		DepartureAirport:   req.DepartureAirport,
		ArrivalAirport:     req.ArrivalAirport,
		DepartureAt:        req.DepartureAt,
		ReturnFlightNumber: req.ReturnFlightNumber,
		ReturnDepartureAt:  req.ReturnDepartureAt,
		FlightClass:        class,
		FlightCategory:     req.FlightCategory,
		TripType:           req.TripType,
		Price:              req.Price.Round(2),
		ReturnPrice:        req.ReturnPrice.Round(2),
		Status:             StatusPending,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create flight: %w", err)
	}
	return f, nil
}

func (s *service) load(ctx context.Context, actor users.Actor, id uint) (*Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, f.EventID); err != nil {
		return nil, err
	}
	s.attachURL(f)
	return f, nil
}

func (s *service) attachURL(f *Flight) {
	if f.TicketPath != nil && *f.TicketPath != "" {
		f.TicketURL = s.tickets.URL(*f.TicketPath)
	}
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uint) (*Flight, error) {
	return s.load(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor users.Actor, q ListQuery) ([]Flight, error) {
	if !actor.IsAdmin() {
		if !actor.IsOrganizer() {
			return nil, apperror.ErrForbidden
		}
		q.OrganizerID = actor.ID
	}
	list, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.attachURL(&list[i])
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor users.Actor, id uint, status Status) (*Flight, error) {
	f, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if f.Status == status {
		return f, nil
	}
	if f.Status == StatusCancelled {
		return nil, fmt.Errorf("flight %d is cancelled: %w", id, apperror.ErrInvalidTransition)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	f.Status = status
	return f, nil
}

func (s *service) UploadTicket(ctx context.Context, actor users.Actor, id uint, filename string, r io.Reader) (*Flight, error) {
	f, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	rel, err := s.tickets.Upload(ctx, fmt.Sprintf("flights/%d", id), filename, r, ticketMaxSize)
	if err != nil {
		return nil, fmt.Errorf("upload ticket for flight %d: %w", id, err)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"ticket_path": rel}); err != nil {
		return nil, err
	}
	f.TicketPath = &rel
	s.attachURL(f)
	return f, nil
}

func (s *service) SendCredentials(ctx context.Context, actor users.Actor, id uint) error {
	f, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if f.UserID == nil {
		return fmt.Errorf("%w: flight %d has no passenger account", apperror.ErrValidation, id)
	}
	u, err := s.users.GetByID(ctx, *f.UserID)
	if err != nil {
		return err
	}

	password, err := users.GeneratePassword(12)
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("store password for user %d: %w", u.ID, err)
	}

	if err := s.notifier.SendFlightCredentials(ctx, f, u, password); err != nil {
		return fmt.Errorf("send credentials for flight %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "flight credentials sent", "flight_id", id, "user_id", u.ID)
	return nil
}

func (s *service) AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*Flight, error) {
	f, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if f.BookingID != nil && *f.BookingID != bookingID {
		return nil, fmt.Errorf("flight %d already attached to booking %d: %w", id, *f.BookingID, apperror.ErrConflict)
	}
	if err := s.repo.AttachToBooking(ctx, id, bookingID); err != nil {
		return nil, err
	}
	f.BookingID = &bookingID
	return f, nil
}

func (s *service) ListByBooking(ctx context.Context, bookingID uint) ([]Flight, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}
