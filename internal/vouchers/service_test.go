package vouchers

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

var admin = users.Actor{ID: 1, Role: users.RoleAdmin}

type countingRenderer struct {
	inner *documents.Renderer
	calls int
}

func (r *countingRenderer) Render(name string, data any) ([]byte, error) {
	r.calls++
	return r.inner.Render(name, data)
}

type recordingSender struct {
	sent []*bookings.Booking
}

func (s *recordingSender) SendVoucher(_ context.Context, b *bookings.Booking) error {
	s.sent = append(s.sent, b)
	return nil
}

type fixture struct {
	db       *gorm.DB
	private  afero.Fs
	public   afero.Fs
	renderer *countingRenderer
	sender   *recordingSender
	vouchers Service
	bookings bookings.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{}, &events.Event{}, &hotels.Hotel{}, &hotels.Package{},
		&flights.Flight{}, &transfers.Transfer{}, &bookings.Booking{}, &bookings.Voucher{},
	))

	f := &fixture{
		db:       db,
		private:  afero.NewMemMapFs(),
		public:   afero.NewMemMapFs(),
		renderer: &countingRenderer{inner: documents.NewRenderer(documents.Options{Locale: "fr", Currency: "MAD"})},
		sender:   &recordingSender{},
	}
	store := storage.New(f.private, f.public, "http://localhost:8080", logger.Discard())
	f.vouchers = NewService(NewRepository(db), f.renderer, store, f.sender, logger.Discard())
	f.bookings = bookings.NewService(bookings.NewRepository(db), bookings.Options{
		Vouchers: f.vouchers,
		Notifier: f.sender,
		Logger:   logger.Discard(),
	})
	return f
}

func (f *fixture) seedBooking(t *testing.T, id uint) *bookings.Booking {
	t.Helper()
	hotel := hotels.Hotel{Name: "Hôtel Mamounia", Stars: 5, City: "Marrakech", Address: "Avenue Bab Jdid"}
	require.NoError(t, f.db.Create(&hotel).Error)
	pkg := hotels.Package{HotelID: hotel.ID, Name: "Suite HB", RoomType: hotels.RoomSuite, RateBasis: hotels.RateHalfBoard, Price: decimal.RequireFromString("1000")}
	require.NoError(t, f.db.Create(&pkg).Error)

	in := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	out := in.AddDate(0, 0, 3)
	b := &bookings.Booking{
		ID:         id,
		Reference:  "BK-20260504-7XK2QP",
		GuestName:  "Youssef Benali",
		GuestEmail: "youssef@example.com",
		HotelID:    &hotel.ID,
		PackageID:  &pkg.ID,
		CheckIn:    &in,
		CheckOut:   &out,
		Status:     bookings.StatusPending,
		Price:      decimal.RequireFromString("1000"),
		Currency:   "MAD",
	}
	require.NoError(t, f.db.Create(b).Error)

	flight := flights.Flight{BookingID: &b.ID, Airline: "RAM", FlightNumber: "AT401", DepartureAirport: "CMN", ArrivalAirport: "RAK"}
	require.NoError(t, f.db.Omit("User").Create(&flight).Error)
	return b
}

func TestConfirmWritesVoucherToBothRoots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBooking(t, 7)

	res, err := f.bookings.Transition(ctx, admin, 7, bookings.StatusConfirmed)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	v := res.Booking.Voucher
	require.NotNil(t, v)
	assert.Equal(t, "VCH-"+b.Reference, v.VoucherNumber)
	require.NotNil(t, v.PDFPath)
	assert.Equal(t, "vouchers/1.pdf", *v.PDFPath)
	assert.Equal(t, "http://localhost:8080/storage/vouchers/1.pdf", v.PDFURL)

	for _, fs := range []afero.Fs{f.private, f.public} {
		data, err := afero.ReadFile(fs, "vouchers/1.pdf")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	}

	require.Len(t, f.sender.sent, 1)
	require.NotNil(t, f.sender.sent[0].Voucher)
	assert.Equal(t, "vouchers/1.pdf", *f.sender.sent[0].Voucher.PDFPath)

	_, err = f.bookings.Transition(ctx, admin, 7, bookings.StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	var count int64
	require.NoError(t, f.db.Model(&bookings.Voucher{}).Where("booking_id = ?", 7).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Len(t, f.sender.sent, 1)
	assert.Equal(t, 1, f.renderer.calls)
}

func TestEnsurePDFReusesStoredCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedBooking(t, 3)

	_, err := f.bookings.Transition(ctx, admin, 3, bookings.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, 1, f.renderer.calls)

	loaded, err := f.bookings.Get(ctx, admin, 3)
	require.NoError(t, err)

	file, err := f.vouchers.Download(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, loaded.Reference+".pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, 1, f.renderer.calls)

	// a copy missing from one root is regenerated
	require.NoError(t, f.public.Remove("vouchers/1.pdf"))
	path, err := f.vouchers.EnsurePDF(ctx, loaded, loaded.Voucher)
	require.NoError(t, err)
	assert.Equal(t, "vouchers/1.pdf", path)
	assert.Equal(t, 2, f.renderer.calls)
	ok, err := afero.Exists(f.public, "vouchers/1.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLookupByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBooking(t, 4)

	_, err := f.vouchers.Lookup(ctx, "VCH-"+b.Reference)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.bookings.Transition(ctx, admin, 4, bookings.StatusConfirmed)
	require.NoError(t, err)

	v, err := f.vouchers.Lookup(ctx, " VCH-"+b.Reference+" ")
	require.NoError(t, err)
	assert.EqualValues(t, 4, v.BookingID)
	assert.Equal(t, "http://localhost:8080/storage/vouchers/1.pdf", v.PDFURL)

	_, err = f.vouchers.Lookup(ctx, "  ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDownloadWithoutVoucher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedBooking(t, 5)

	loaded, err := f.bookings.Get(ctx, admin, 5)
	require.NoError(t, err)

	_, err = f.vouchers.Download(ctx, loaded)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedBooking(t, 9)

	pending, err := f.bookings.Get(ctx, admin, 9)
	require.NoError(t, err)
	assert.ErrorIs(t, f.vouchers.Resend(ctx, admin, pending), apperror.ErrConflict)
	assert.ErrorIs(t, f.vouchers.Resend(ctx, users.Actor{ID: 5, Role: users.RoleUser}, pending), apperror.ErrForbidden)

	_, err = f.bookings.Transition(ctx, admin, 9, bookings.StatusConfirmed)
	require.NoError(t, err)
	confirmed, err := f.bookings.Get(ctx, admin, 9)
	require.NoError(t, err)

	require.NoError(t, f.vouchers.Resend(ctx, admin, confirmed))
	assert.Len(t, f.sender.sent, 2)
	assert.Equal(t, 1, f.renderer.calls)
}

func TestBuildContextSkipsCancelledLegs(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	b := &bookings.Booking{
		Reference: "BK-1",
		Status:    bookings.StatusConfirmed,
		Package:   &hotels.Package{Name: "Twin RO", RoomType: hotels.RoomTwin, RateBasis: hotels.RateRoomOnly},
		Flights: []flights.Flight{
			{FlightNumber: "AT401", Status: flights.StatusPending},
			{FlightNumber: "AT402", Status: flights.StatusCancelled},
		},
		Transfers: []transfers.Transfer{
			{TripType: transfers.TripArrival, VehicleType: transfers.VehicleVan, Status: transfers.StatusCancelled},
		},
	}
	ctx := BuildContext(b, &bookings.Voucher{VoucherNumber: "VCH-BK-1"}, now)

	assert.Equal(t, "VCH-BK-1", ctx.VoucherNumber)
	assert.Equal(t, now, ctx.IssuedAt)
	require.Len(t, ctx.Flights, 1)
	assert.Equal(t, "AT401", ctx.Flights[0].FlightNumber)
	assert.Empty(t, ctx.Transfers)
	assert.Empty(t, ctx.HotelName)
	assert.Equal(t, "twin", ctx.RoomType)
}
