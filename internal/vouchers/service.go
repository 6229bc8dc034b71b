package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/documents"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

// Renderer turns a document context into PDF bytes
type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

// Store is the dual-root file store documents are written to
type Store interface {
	Put(p string, data []byte) (string, error)
	Get(p string) ([]byte, error)
	Exists(p string) bool
	URL(p string) string
}

// Sender emails a voucher to the guest
type Sender interface {
	SendVoucher(ctx context.Context, booking *bookings.Booking) error
}

// File is a generated document ready to be served
type File struct {
	Filename string
	Data     []byte
}

type Service interface {
	// IssueVoucher returns the booking's voucher, creating it on first call,
	// and makes sure its PDF exists.
	IssueVoucher(ctx context.Context, booking *bookings.Booking) (*bookings.Voucher, error)
	EnsurePDF(ctx context.Context, booking *bookings.Booking, voucher *bookings.Voucher) (string, error)
	// Download and Resend expect a booking already loaded with its relations
	Download(ctx context.Context, booking *bookings.Booking) (*File, error)
	Resend(ctx context.Context, actor users.Actor, booking *bookings.Booking) error
	// Lookup finds a voucher by the number printed on it
	Lookup(ctx context.Context, number string) (*bookings.Voucher, error)
}

type service struct {
	repo     Repository
	renderer Renderer
	store    Store
	sender   Sender
	log      *logger.Logger
	now      func() time.Time
}

// NewService builds the voucher service; sender may be nil
func NewService(repo Repository, renderer Renderer, store Store, sender Sender, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		renderer: renderer,
		store:    store,
		sender:   sender,
		log:      logger.OrDefault(log).WithComponent("vouchers"),
		now:      time.Now,
	}
}

// PDFPath is where a voucher's PDF lives in storage
func PDFPath(voucherID uint) string {
	return fmt.Sprintf("vouchers/%d.pdf", voucherID)
}

func (s *service) IssueVoucher(ctx context.Context, booking *bookings.Booking) (*bookings.Voucher, error) {
	voucher, err := s.repo.GetByBooking(ctx, booking.ID)
	if errors.Is(err, ErrVoucherNotFound) {
		voucher = &bookings.Voucher{
			VoucherNumber: bookings.VoucherNumberFor(booking.Reference),
			BookingID:     booking.ID,
			CreatedAt:     s.now(),
		}
		if createErr := s.repo.Create(ctx, voucher); createErr != nil {
			// a concurrent confirm may have won the unique index
			existing, getErr := s.repo.GetByBooking(ctx, booking.ID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to create voucher: %w", createErr)
			}
			voucher = existing
		}
	} else if err != nil {
		return nil, err
	}

	if _, err := s.EnsurePDF(ctx, booking, voucher); err != nil {
		return voucher, err
	}
	return voucher, nil
}

// EnsurePDF renders the voucher unless a stored copy already exists
func (s *service) EnsurePDF(ctx context.Context, booking *bookings.Booking, voucher *bookings.Voucher) (string, error) {
	if voucher.PDFPath != nil && s.store.Exists(*voucher.PDFPath) {
		voucher.PDFURL = s.store.URL(*voucher.PDFPath)
		return *voucher.PDFPath, nil
	}

	data, err := s.renderer.Render(documents.TemplateVoucher, BuildContext(booking, voucher, s.now()))
	if err != nil {
		return "", err
	}

	rel, err := s.store.Put(PDFPath(voucher.ID), data)
	if err != nil {
		return "", fmt.Errorf("failed to store voucher %s: %w", voucher.VoucherNumber, err)
	}
	if err := s.repo.SetPDFPath(ctx, voucher.ID, rel); err != nil {
		return "", fmt.Errorf("failed to record voucher path: %w", err)
	}
	voucher.PDFPath = &rel
	voucher.PDFURL = s.store.URL(rel)

	s.log.LogDocumentGenerated(ctx, documents.TemplateVoucher, rel, len(data))
	return rel, nil
}

func (s *service) Download(ctx context.Context, booking *bookings.Booking) (*File, error) {
	var err error
	voucher := booking.Voucher
	if voucher == nil {
		if !booking.IsConfirmed() {
			return nil, fmt.Errorf("booking %s has no voucher: %w", booking.Reference, apperror.ErrNotFound)
		}
		// confirmed but issuance failed earlier; issue it now
		if voucher, err = s.IssueVoucher(ctx, booking); err != nil {
			return nil, err
		}
	}

	path, err := s.EnsurePDF(ctx, booking, voucher)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Get(path)
	if err != nil {
		return nil, err
	}
	return &File{Filename: booking.Reference + ".pdf", Data: data}, nil
}

func (s *service) Resend(ctx context.Context, actor users.Actor, booking *bookings.Booking) error {
	if !actor.IsAdmin() && !actor.IsOrganizer() {
		return apperror.ErrForbidden
	}
	if s.sender == nil {
		return fmt.Errorf("voucher sender not configured: %w", apperror.ErrDelivery)
	}
	if !booking.IsConfirmed() {
		return fmt.Errorf("booking %s is %s: %w", booking.Reference, booking.Status, apperror.ErrConflict)
	}

	voucher, err := s.IssueVoucher(ctx, booking)
	if voucher != nil {
		booking.Voucher = voucher
	}
	if err != nil {
		s.log.WithError(err).Warn("voucher pdf unavailable; sending without attachment", "booking_id", booking.ID)
	}
	return s.sender.SendVoucher(ctx, booking)
}

func (s *service) Lookup(ctx context.Context, number string) (*bookings.Voucher, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("voucher number is required: %w", apperror.ErrValidation)
	}
	voucher, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if voucher.PDFPath != nil && *voucher.PDFPath != "" {
		voucher.PDFURL = s.store.URL(*voucher.PDFPath)
	}
	return voucher, nil
}
