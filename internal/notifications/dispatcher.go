package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/invoices"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

// FileReader reads stored documents for attachment
type FileReader interface {
	Get(p string) ([]byte, error)
}

type DispatcherOptions struct {
	CompanyName string
	LoginURL    string
}

// Dispatcher turns domain objects into emails and queues them
type Dispatcher struct {
	queue Queue
	files FileReader
	opts  DispatcherOptions
	log   *logger.Logger
}

func NewDispatcher(queue Queue, files FileReader, opts DispatcherOptions, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		queue: queue,
		files: files,
		opts:  opts,
		log:   logger.OrDefault(log).WithComponent("notifications"),
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	return d.queue.Start(ctx)
}

func (d *Dispatcher) Stop() error {
	return d.queue.Stop()
}

// SendVoucher emails the booking voucher to the guest
func (d *Dispatcher) SendVoucher(ctx context.Context, b *bookings.Booking) error {
	data := emailData{
		Name:      orNA(b.GuestName),
		Company:   d.opts.CompanyName,
		Reference: orNA(b.Reference),
		CheckIn:   formatDate(b.CheckIn),
		CheckOut:  formatDate(b.CheckOut),
	}
	if b.Event != nil {
		data.EventName = b.Event.Name
	}
	if b.Hotel != nil {
		data.HotelName = b.Hotel.Name
	}
	if b.Package != nil {
		data.PackageName = b.Package.Name
	}
	data.EventName = orDash(data.EventName)
	data.HotelName = orDash(data.HotelName)
	data.PackageName = orDash(data.PackageName)

	var path *string
	if b.Voucher != nil {
		path = b.Voucher.PDFPath
	}
	return d.dispatch(ctx, NotificationTypeVoucher, b.GuestEmail, b.GuestName,
		"Votre voucher de réservation - "+data.Reference, data, path)
}

// SendInvoice emails an invoice to its client
func (d *Dispatcher) SendInvoice(ctx context.Context, inv *invoices.Invoice) error {
	data := emailData{
		Name:      orNA(inv.ClientName),
		Company:   d.opts.CompanyName,
		Reference: orNA(inv.InvoiceNumber),
		Amount:    strings.TrimSpace(inv.TotalAmount.StringFixed(2) + " " + inv.Currency),
	}
	return d.dispatch(ctx, NotificationTypeInvoice, inv.ClientEmail, inv.ClientName,
		"Facture "+data.Reference, data, inv.PDFPath)
}

// SendFlightCredentials emails a passenger their login and flight summary
func (d *Dispatcher) SendFlightCredentials(ctx context.Context, f *flights.Flight, u *users.User, password string) error {
	data := emailData{
		Name:      orNA(u.FullName()),
		Company:   d.opts.CompanyName,
		Reference: orNA(f.FlightNumber),
		Route:     f.Route(),
		Email:     u.Email,
		Password:  password,
		LoginURL:  d.opts.LoginURL,
	}
	if f.DepartureAt != nil {
		data.Departure = f.DepartureAt.Format("02/01/2006 15:04")
	}
	return d.dispatch(ctx, NotificationTypeFlightCredentials, u.Email, u.FullName(),
		"Vos informations de vol - "+data.Reference, data, f.TicketPath)
}

func (d *Dispatcher) dispatch(ctx context.Context, kind NotificationType, to, name, subject string, data emailData, attachmentPath *string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("%s notification has no recipient: %w", kind, apperror.ErrValidation)
	}

	html, text, err := renderBodies(kind, data)
	if err != nil {
		return fmt.Errorf("render %s email: %w", kind, err)
	}

	n := NewNotificationBuilder().
		WithType(kind).
		WithRecipient(to, name).
		WithSubject(subject).
		WithBody(html, text).
		WithReference(data.Reference).
		Build()
	n.Attachment = d.attachment(ctx, n, attachmentPath, data.Reference+".pdf")

	if err := d.queue.Enqueue(ctx, n); err != nil {
		return fmt.Errorf("queue %s email for %s: %w", kind, to, wrapDelivery(err))
	}
	d.log.LogNotificationQueued(ctx, n.ID.String(), string(kind), to, n.HasAttachment())
	return nil
}

// attachment loads the stored PDF. A missing file is logged and the email
// goes out without it.
func (d *Dispatcher) attachment(ctx context.Context, n *EmailNotification, path *string, filename string) *Attachment {
	if path == nil || *path == "" {
		d.log.WarnContext(ctx, "no document to attach", "notification_id", n.ID.String(), "type", string(n.Type), "reference", n.Reference)
		return nil
	}
	if d.files == nil {
		return nil
	}
	data, err := d.files.Get(*path)
	if err != nil {
		d.log.WithError(err).WarnContext(ctx, "attachment missing, sending without it",
			"notification_id", n.ID.String(), "path", *path)
		return nil
	}
	return &Attachment{Filename: filename, ContentType: "application/pdf", Data: data}
}

func wrapDelivery(err error) error {
	if errors.Is(err, apperror.ErrDelivery) {
		return err
	}
	return fmt.Errorf("%v: %w", err, apperror.ErrDelivery)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
