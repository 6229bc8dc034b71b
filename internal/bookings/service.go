package bookings

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// PackageLookup resolves a hotel package with its hotel
type PackageLookup interface {
	GetPackage(ctx context.Context, id uint) (*hotels.Package, error)
}

// EventOwner resolves the organizer of an event
type EventOwner interface {
	OrganizerOf(ctx context.Context, eventID uint) (uint, error)
}

// FlightAttacher links an existing flight to a booking
type FlightAttacher interface {
	AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*flights.Flight, error)
}

// TransferAttacher links an existing transfer to a booking
type TransferAttacher interface {
	AttachToBooking(ctx context.Context, actor users.Actor, id, bookingID uint) (*transfers.Transfer, error)
}

// VoucherIssuer creates the voucher row and its PDF for a confirmed booking.
// It may return a voucher together with an error when only the PDF failed.
type VoucherIssuer interface {
	IssueVoucher(ctx context.Context, booking *Booking) (*Voucher, error)
}

// Notifier emails the voucher to the guest
type Notifier interface {
	SendVoucher(ctx context.Context, booking *Booking) error
}

// EventPublisher fans booking changes out to other systems
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, actor users.Actor, id uint) (*Booking, error)
	GetByReference(ctx context.Context, actor users.Actor, reference string) (*Booking, error)
	List(ctx context.Context, actor users.Actor, query BookingListQuery) (*PaginatedBookings, error)
	Delete(ctx context.Context, actor users.Actor, id uint) error

	AttachFlight(ctx context.Context, actor users.Actor, id, flightID uint) (*Booking, error)
	AttachTransfer(ctx context.Context, actor users.Actor, id, transferID uint) (*Booking, error)

	// Transition is the only way a booking changes status
	Transition(ctx context.Context, actor users.Actor, id uint, to Status) (*TransitionResult, error)
	SweepExpiredPending(ctx context.Context, now time.Time) (*SweepResult, error)
}

// Options carries the collaborators a booking service may use.
// Everything except Repository is optional.
type Options struct {
	Packages   PackageLookup
	Events     EventOwner
	Flights    FlightAttacher
	Transfers  TransferAttacher
	Vouchers   VoucherIssuer
	Notifier   Notifier
	Publisher  EventPublisher
	PendingTTL time.Duration
	Currency   string
	Logger     *logger.Logger
	Clock      func() time.Time
}

type service struct {
	repo       Repository
	packages   PackageLookup
	events     EventOwner
	flights    FlightAttacher
	transfers  TransferAttacher
	vouchers   VoucherIssuer
	notifier   Notifier
	publisher  EventPublisher
	pendingTTL time.Duration
	currency   string
	log        *logger.Logger
	now        func() time.Time
}

func NewService(repo Repository, opts Options) Service {
	s := &service{
		repo:       repo,
		packages:   opts.Packages,
		events:     opts.Events,
		flights:    opts.Flights,
		transfers:  opts.Transfers,
		vouchers:   opts.Vouchers,
		notifier:   opts.Notifier,
		publisher:  opts.Publisher,
		pendingTTL: opts.PendingTTL,
		currency:   opts.Currency,
		log:        logger.OrDefault(opts.Logger).WithComponent("bookings"),
		now:        opts.Clock,
	}
	if s.pendingTTL <= 0 {
		s.pendingTTL = 48 * time.Hour
	}
	if s.currency == "" {
		s.currency = DefaultCurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, actor users.Actor, req CreateBookingRequest) (*Booking, error) {
	if req.CheckIn != nil && req.CheckOut != nil && !req.CheckOut.After(*req.CheckIn) {
		return nil, fmt.Errorf("check_out must be after check_in: %w", apperror.ErrValidation)
	}

	booking := &Booking{
		GuestName:  strings.TrimSpace(req.GuestName),
		GuestEmail: strings.TrimSpace(req.GuestEmail),
		GuestPhone: strings.TrimSpace(req.GuestPhone),
		EventID:    req.EventID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Status:     StatusPending,
		Currency:   s.currency,
		Notes:      req.Notes,
	}
	if actor.ID != 0 {
		id := actor.ID
		booking.UserID = &id
	}

	switch {
	case req.PackageID != nil:
		if s.packages == nil {
			return nil, fmt.Errorf("packages are not available: %w", apperror.ErrValidation)
		}
		pkg, err := s.packages.GetPackage(ctx, *req.PackageID)
		if err != nil {
			return nil, err
		}
		if req.HotelID != nil && *req.HotelID != pkg.HotelID {
			return nil, fmt.Errorf("package %d does not belong to hotel %d: %w", pkg.ID, *req.HotelID, apperror.ErrValidation)
		}
		hotelID := pkg.HotelID
		booking.HotelID = &hotelID
		booking.PackageID = &pkg.ID
		booking.Package = pkg
		if booking.EventID == nil && pkg.Hotel != nil && pkg.Hotel.EventID != nil {
			eventID := *pkg.Hotel.EventID
			booking.EventID = &eventID
		}
	case req.HotelID != nil:
		return nil, fmt.Errorf("a hotel booking needs a package: %w", apperror.ErrValidation)
	}

	booking.Price = booking.ComputePrice()
	booking.Package = nil

	reference, err := s.generateReference(ctx)
	if err != nil {
		return nil, err
	}
	booking.Reference = reference

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID, booking.Reference)
	s.publish(ctx, booking.Reference, StatusChangedEvent{
		Type:       EventBookingCreated,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		To:         booking.Status,
		ActorID:    actor.ID,
		OccurredAt: booking.CreatedAt,
	})

	return s.repo.GetByIDWithRelations(ctx, booking.ID)
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uint) (*Booking, error) {
	booking, err := s.repo.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) GetByReference(ctx context.Context, actor users.Actor, reference string) (*Booking, error) {
	booking, err := s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, actor users.Actor, query BookingListQuery) (*PaginatedBookings, error) {
	query.UserID, query.OrganizerID = 0, 0
	switch {
	case actor.IsAdmin():
	case actor.IsOrganizer():
		query.OrganizerID = actor.ID
	case actor.ID != 0:
		query.UserID = actor.ID
	default:
		return nil, apperror.ErrUnauthorized
	}

	list, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	page := query.Page.Normalize()
	return &PaginatedBookings{
		Bookings:   list,
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (s *service) Delete(ctx context.Context, actor users.Actor, id uint) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	docs, err := s.repo.CountDocuments(ctx, id)
	if err != nil {
		return err
	}
	if docs > 0 {
		return fmt.Errorf("booking %d has issued documents: %w", id, apperror.ErrConflict)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) AttachFlight(ctx context.Context, actor users.Actor, id, flightID uint) (*Booking, error) {
	if s.flights == nil {
		return nil, fmt.Errorf("flights are not available: %w", apperror.ErrValidation)
	}
	if _, err := s.loadMutable(ctx, actor, id); err != nil {
		return nil, err
	}
	if _, err := s.flights.AttachToBooking(ctx, actor, flightID, id); err != nil {
		return nil, err
	}
	return s.reprice(ctx, id)
}

func (s *service) AttachTransfer(ctx context.Context, actor users.Actor, id, transferID uint) (*Booking, error) {
	if s.transfers == nil {
		return nil, fmt.Errorf("transfers are not available: %w", apperror.ErrValidation)
	}
	if _, err := s.loadMutable(ctx, actor, id); err != nil {
		return nil, err
	}
	if _, err := s.transfers.AttachToBooking(ctx, actor, transferID, id); err != nil {
		return nil, err
	}
	return s.reprice(ctx, id)
}

// loadMutable returns a pending booking the actor may manage
func (s *service) loadMutable(ctx context.Context, actor users.Actor, id uint) (*Booking, error) {
	booking, err := s.repo.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, actor, booking); err != nil {
		return nil, err
	}
	if !booking.IsPending() {
		return nil, fmt.Errorf("booking %d is %s; only pending bookings can be changed: %w", id, booking.Status, apperror.ErrConflict)
	}
	return booking, nil
}

func (s *service) reprice(ctx context.Context, id uint) (*Booking, error) {
	booking, err := s.repo.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	price := booking.ComputePrice()
	if !price.Equal(booking.Price) {
		if err := s.repo.UpdatePrice(ctx, id, price); err != nil {
			return nil, fmt.Errorf("failed to update booking price: %w", err)
		}
		booking.Price = price
	}
	return booking, nil
}

// authorizeRead lets admins, the owning organizer and the booking's user through
func (s *service) authorizeRead(ctx context.Context, actor users.Actor, booking *Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsOrganizer() {
		return s.authorizeManage(ctx, actor, booking)
	}
	if actor.ID != 0 && booking.UserID != nil && *booking.UserID == actor.ID {
		return nil
	}
	return apperror.ErrForbidden
}

// authorizeManage lets admins and the organizer of the booking's event through
func (s *service) authorizeManage(ctx context.Context, actor users.Actor, booking *Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.IsOrganizer() || booking.EventID == nil {
		return apperror.ErrForbidden
	}
	owner, err := s.organizerOf(ctx, booking)
	if err != nil {
		return err
	}
	if !actor.CanManage(owner) {
		return apperror.ErrForbidden
	}
	return nil
}

func (s *service) organizerOf(ctx context.Context, booking *Booking) (uint, error) {
	if booking.Event != nil {
		return booking.Event.OrganizerID, nil
	}
	if s.events == nil {
		return 0, apperror.ErrForbidden
	}
	return s.events.OrganizerOf(ctx, *booking.EventID)
}

// generateReference returns BK-YYYYMMDD-XXXXXX, retrying on the rare collision
func (s *service) generateReference(ctx context.Context) (string, error) {
	day := s.now().Format("20060102")
	for attempt := 0; attempt < 5; attempt++ {
		suffix, err := randomString(6)
		if err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		reference := "BK-" + day + "-" + suffix
		exists, err := s.repo.ReferenceExists(ctx, reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique booking reference: %w", apperror.ErrConflict)
}

func randomString(n int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}

func (s *service) publish(ctx context.Context, key string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.log.WithError(err).Warn("failed to publish booking event", "key", key)
	}
}
