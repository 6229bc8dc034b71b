package invoices

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bookingdesk/internal/bookings"
	"bookingdesk/internal/documents"
	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/storage"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	admin     = users.Actor{ID: 1, Role: users.RoleAdmin}
	organizer = users.Actor{ID: 10, Role: users.RoleOrganizer}
)

type recordingSender struct {
	sent []string
}

func (s *recordingSender) SendInvoice(_ context.Context, inv *Invoice) error {
	s.sent = append(s.sent, inv.InvoiceNumber)
	return nil
}

type fixture struct {
	db     *gorm.DB
	fs     afero.Fs
	sender *recordingSender
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{}, &events.Event{}, &hotels.Hotel{}, &hotels.Package{},
		&flights.Flight{}, &transfers.Transfer{}, &bookings.Booking{}, &bookings.Voucher{}, &Invoice{},
	))

	f := &fixture{db: db, fs: afero.NewMemMapFs(), sender: &recordingSender{}}
	store := storage.New(f.fs, afero.NewMemMapFs(), "http://localhost:8080", logger.Discard())
	renderer := documents.NewRenderer(documents.Options{Locale: "fr", Currency: "MAD"})
	svc := NewService(NewRepository(db), bookings.NewRepository(db), renderer, store, f.sender, "MAD", logger.Discard()).(*service)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC) }
	f.svc = svc
	return f
}

func (f *fixture) seedBooking(t *testing.T, status bookings.Status) *bookings.Booking {
	t.Helper()
	hotel := hotels.Hotel{Name: "Riad Atlas", City: "Marrakech"}
	require.NoError(t, f.db.Create(&hotel).Error)
	pkg := hotels.Package{HotelID: hotel.ID, Name: "Double BB", Price: decimal.RequireFromString("1000")}
	require.NoError(t, f.db.Create(&pkg).Error)

	b := &bookings.Booking{
		Reference:  "BK-20260504-" + string(status[:4]) + "XX",
		GuestName:  "Youssef Benali",
		GuestEmail: "youssef@example.com",
		HotelID:    &hotel.ID,
		PackageID:  &pkg.ID,
		Status:     status,
		Price:      decimal.RequireFromString("1000"),
		Currency:   "MAD",
	}
	require.NoError(t, f.db.Create(b).Error)

	flight := flights.Flight{
		BookingID: &b.ID, FlightNumber: "AT401", ReturnFlightNumber: "AT402",
		DepartureAirport: "CMN", ArrivalAirport: "RAK",
		Price: decimal.RequireFromString("150"), ReturnPrice: decimal.RequireFromString("50"),
	}
	require.NoError(t, f.db.Omit("User").Create(&flight).Error)
	return b
}

func TestCreateFromBookingReconcilesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBooking(t, bookings.StatusConfirmed)

	inv, err := f.svc.CreateFromBooking(ctx, admin, FromBookingRequest{BookingID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", inv.InvoiceNumber)
	assert.Equal(t, StatusDraft, inv.Status)
	assert.Equal(t, "1200.00", inv.TotalAmount.StringFixed(2))
	assert.Equal(t, "Youssef Benali", inv.ClientName)

	ictx := BuildContext(inv, time.Now())
	require.Len(t, ictx.Lines, 3)
	assert.Equal(t, b.Reference, ictx.BookingReference)
	breakdown := documents.TaxBreakdown(ictx.TotalAmount)
	assert.Equal(t, "1000.00", breakdown.HT.StringFixed(2))
	assert.Equal(t, "200.00", breakdown.TVA.StringFixed(2))

	_, err = f.svc.CreateFromBooking(ctx, admin, FromBookingRequest{BookingID: b.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	second, err := f.svc.Create(ctx, admin, CreateInvoiceRequest{ClientName: "ACME", TotalAmount: decimal.RequireFromString("99.999")})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00002", second.InvoiceNumber)
	assert.Equal(t, "100.00", second.TotalAmount.StringFixed(2))
}

func TestCreateFromBookingGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.seedBooking(t, bookings.StatusCancelled)
	_, err := f.svc.CreateFromBooking(ctx, admin, FromBookingRequest{BookingID: cancelled.ID})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.CreateFromBooking(ctx, organizer, FromBookingRequest{BookingID: cancelled.ID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.CreateFromBooking(ctx, admin, FromBookingRequest{BookingID: 404})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.Create(ctx, admin, CreateInvoiceRequest{ClientName: "ACME", TotalAmount: decimal.Zero})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestStatusOnlyMovesForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, admin, CreateInvoiceRequest{ClientName: "ACME", TotalAmount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, admin, inv.ID, StatusPaid)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	draft, err := f.svc.UpdateStatus(ctx, admin, inv.ID, StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, draft.Status)

	sent, err := f.svc.UpdateStatus(ctx, admin, inv.ID, StatusSent)
	require.NoError(t, err)
	require.NotNil(t, sent.SentAt)

	again, err := f.svc.UpdateStatus(ctx, admin, inv.ID, StatusSent)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, again.Status)

	paid, err := f.svc.UpdateStatus(ctx, admin, inv.ID, StatusPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	paidAgain, err := f.svc.UpdateStatus(ctx, admin, inv.ID, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, paidAgain.Status)

	_, err = f.svc.UpdateStatus(ctx, admin, inv.ID, StatusDraft)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestSendGeneratesPDFAndMarksSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBooking(t, bookings.StatusConfirmed)

	inv, err := f.svc.CreateFromBooking(ctx, admin, FromBookingRequest{BookingID: b.ID})
	require.NoError(t, err)

	sent, err := f.svc.Send(ctx, admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	assert.Equal(t, []string{"INV-2026-00001"}, f.sender.sent)
	assert.Equal(t, "http://localhost:8080/storage/invoices/1.pdf", sent.PDFURL)

	data, err := afero.ReadFile(f.fs, PDFPath(inv.ID))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	pdf, name, err := f.svc.PDF(ctx, admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001.pdf", name)
	assert.Equal(t, data, pdf)

	// the cached copy must still be valid once the invoice is sent
	reloaded, err := f.svc.Get(ctx, admin, inv.ID)
	require.NoError(t, err)
	fresh, err := documents.NewRenderer(documents.Options{Locale: "fr", Currency: "MAD"}).
		Render(documents.TemplateInvoice, BuildContext(reloaded, f.svc.(*service).now()))
	require.NoError(t, err)
	assert.Equal(t, fresh, data)

	noEmail, err := f.svc.Create(ctx, admin, CreateInvoiceRequest{ClientName: "ACME", TotalAmount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, admin, noEmail.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestBuildContextFallsBackToSingleLine(t *testing.T) {
	inv := &Invoice{InvoiceNumber: "INV-2026-00009", TotalAmount: decimal.NewFromInt(300), Description: "Stand salon"}
	ctx := BuildContext(inv, time.Now())
	require.Len(t, ctx.Lines, 1)
	assert.Equal(t, "Stand salon", ctx.Lines[0].Description)
	assert.True(t, ctx.Lines[0].UnitPrice.Equal(decimal.NewFromInt(300)))
}
