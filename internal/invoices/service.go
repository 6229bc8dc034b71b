package invoices

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

// BookingLoader loads a booking with every relation an invoice prints
type BookingLoader interface {
	GetByIDWithRelations(ctx context.Context, id uint) (*bookings.Booking, error)
}

type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

type Store interface {
	Put(p string, data []byte) (string, error)
	Get(p string) ([]byte, error)
	Exists(p string) bool
	URL(p string) string
}

// Sender emails an invoice to its client
type Sender interface {
	SendInvoice(ctx context.Context, inv *Invoice) error
}

type Service interface {
	Create(ctx context.Context, actor users.Actor, req CreateInvoiceRequest) (*Invoice, error)
	CreateFromBooking(ctx context.Context, actor users.Actor, req FromBookingRequest) (*Invoice, error)
	Get(ctx context.Context, actor users.Actor, id uint) (*Invoice, error)
	List(ctx context.Context, actor users.Actor, q ListQuery) (*PaginatedInvoices, error)
	UpdateStatus(ctx context.Context, actor users.Actor, id uint, to Status) (*Invoice, error)
	EnsurePDF(ctx context.Context, inv *Invoice) (string, error)
	PDF(ctx context.Context, actor users.Actor, id uint) ([]byte, string, error)
	Send(ctx context.Context, actor users.Actor, id uint) (*Invoice, error)
}

type service struct {
	repo     Repository
	bookings BookingLoader
	renderer Renderer
	store    Store
	sender   Sender
	currency string
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, bookingLoader BookingLoader, renderer Renderer, store Store, sender Sender, currency string, log *logger.Logger) Service {
	if currency == "" {
		currency = bookings.DefaultCurrency
	}
	return &service{
		repo:     repo,
		bookings: bookingLoader,
		renderer: renderer,
		store:    store,
		sender:   sender,
		currency: currency,
		log:      logger.OrDefault(log).WithComponent("invoices"),
		now:      time.Now,
	}
}

// PDFPath is where an invoice's PDF lives in storage
func PDFPath(invoiceID uint) string {
	return fmt.Sprintf("invoices/%d.pdf", invoiceID)
}

func (s *service) Create(ctx context.Context, actor users.Actor, req CreateInvoiceRequest) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("total_amount must be positive: %w", apperror.ErrValidation)
	}

	inv := &Invoice{
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		ClientAddress: req.ClientAddress,
		Description:   req.Description,
		TotalAmount:   req.TotalAmount.Round(2),
		Currency:      s.currency,
		Notes:         req.Notes,
	}
	return s.insert(ctx, inv)
}

// CreateFromBooking bills a booking once. The total is recomputed from the
// package, flights and transfers so it always matches the printed lines.
func (s *service) CreateFromBooking(ctx context.Context, actor users.Actor, req FromBookingRequest) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	booking, err := s.bookings.GetByIDWithRelations(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsCancelled() {
		return nil, fmt.Errorf("booking %s is cancelled: %w", booking.Reference, apperror.ErrConflict)
	}
	if _, err := s.repo.GetByBooking(ctx, booking.ID); err == nil {
		return nil, fmt.Errorf("booking %s is already invoiced: %w", booking.Reference, apperror.ErrConflict)
	} else if !errors.Is(err, ErrInvoiceNotFound) {
		return nil, err
	}

	total := booking.ComputePrice()
	if total.IsZero() {
		total = booking.Price
	}

	currency := booking.Currency
	if currency == "" {
		currency = s.currency
	}

	inv := &Invoice{
		BookingID:   &booking.ID,
		ClientName:  booking.GuestName,
		ClientEmail: booking.GuestEmail,
		Description: "Réservation " + booking.Reference,
		TotalAmount: total,
		Currency:    currency,
		Notes:       req.Notes,
	}
	created, err := s.insert(ctx, inv)
	if err != nil {
		return nil, err
	}
	created.Booking = booking
	return created, nil
}

func (s *service) insert(ctx context.Context, inv *Invoice) (*Invoice, error) {
	now := s.now()
	inv.Status = StatusDraft
	inv.IssuedAt = now

	count, err := s.repo.CountForYear(ctx, now.Year())
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = NumberFor(now.Year(), int(count)+1)

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	s.log.Info("invoice created", "invoice_id", inv.ID, "number", inv.InvoiceNumber, "total", inv.TotalAmount.StringFixed(2))
	return inv, nil
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uint) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachURL(inv)
	return inv, nil
}

func (s *service) attachURL(inv *Invoice) {
	if inv.PDFPath != nil && *inv.PDFPath != "" {
		inv.PDFURL = s.store.URL(*inv.PDFPath)
	}
}

func (s *service) List(ctx context.Context, actor users.Actor, q ListQuery) (*PaginatedInvoices, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	list, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	for i := range list {
		s.attachURL(&list[i])
	}
	page := q.Page.Normalize()
	return &PaginatedInvoices{
		Invoices:   list,
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}, nil
}

// UpdateStatus only moves forward: draft -> sent -> paid. Asking for the
// current status changes nothing.
func (s *service) UpdateStatus(ctx context.Context, actor users.Actor, id uint, to Status) (*Invoice, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	if !to.IsValid() {
		return nil, fmt.Errorf("unknown invoice status %q: %w", to, apperror.ErrValidation)
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachURL(inv)
	if inv.Status == to {
		return inv, nil
	}
	if !CanMove(inv.Status, to) {
		return nil, &StatusError{InvoiceID: id, From: inv.Status, To: to}
	}

	at := s.now()
	moved, err := s.repo.UpdateStatus(ctx, id, inv.Status, to, at)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	if !moved {
		return nil, fmt.Errorf("invoice %d changed concurrently: %w", id, apperror.ErrConflict)
	}

	inv.Status = to
	inv.UpdatedAt = at
	switch to {
	case StatusSent:
		inv.SentAt = &at
	case StatusPaid:
		inv.PaidAt = &at
	}
	return inv, nil
}

// EnsurePDF renders the invoice unless a stored copy already exists
func (s *service) EnsurePDF(ctx context.Context, inv *Invoice) (string, error) {
	if inv.PDFPath != nil && s.store.Exists(*inv.PDFPath) {
		return *inv.PDFPath, nil
	}

	data, err := s.renderer.Render(documents.TemplateInvoice, BuildContext(inv, s.now()))
	if err != nil {
		return "", err
	}
	rel, err := s.store.Put(PDFPath(inv.ID), data)
	if err != nil {
		return "", fmt.Errorf("failed to store invoice %s: %w", inv.InvoiceNumber, err)
	}
	if err := s.repo.UpdateFields(ctx, inv.ID, map[string]interface{}{"pdf_path": rel}); err != nil {
		return "", fmt.Errorf("failed to record invoice path: %w", err)
	}
	inv.PDFPath = &rel
	s.attachURL(inv)

	s.log.LogDocumentGenerated(ctx, documents.TemplateInvoice, rel, len(data))
	return rel, nil
}

func (s *service) PDF(ctx context.Context, actor users.Actor, id uint) ([]byte, string, error) {
	inv, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	path, err := s.EnsurePDF(ctx, inv)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.Get(path)
	if err != nil {
		return nil, "", err
	}
	return data, inv.InvoiceNumber + ".pdf", nil
}

// Send makes sure the PDF exists, queues the email and marks a draft as sent.
// Paid invoices can be re-sent without changing status.
func (s *service) Send(ctx context.Context, actor users.Actor, id uint) (*Invoice, error) {
	inv, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, fmt.Errorf("invoice sender not configured: %w", apperror.ErrDelivery)
	}
	if strings.TrimSpace(inv.ClientEmail) == "" {
		return nil, fmt.Errorf("invoice %s has no client email: %w", inv.InvoiceNumber, apperror.ErrValidation)
	}

	if _, err := s.EnsurePDF(ctx, inv); err != nil {
		s.log.WithError(err).Warn("invoice pdf unavailable; sending without attachment", "invoice_id", inv.ID)
	}
	if err := s.sender.SendInvoice(ctx, inv); err != nil {
		return nil, err
	}

	if inv.Status == StatusDraft {
		return s.UpdateStatus(ctx, actor, inv.ID, StatusSent)
	}
	return inv, nil
}
