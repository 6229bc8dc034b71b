package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/flights"
	"bookingdesk/internal/hotels"
	"bookingdesk/internal/transfers"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	admin     = users.Actor{ID: 1, Role: users.RoleAdmin}
	organizer = users.Actor{ID: 10, Role: users.RoleOrganizer}
	stranger  = users.Actor{ID: 11, Role: users.RoleOrganizer}
	guest     = users.Actor{ID: 20, Role: users.RoleUser}
)

type fakeIssuer struct {
	db    *gorm.DB
	calls int
	err   error
}

func (f *fakeIssuer) IssueVoucher(ctx context.Context, b *Booking) (*Voucher, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v := &Voucher{VoucherNumber: VoucherNumberFor(b.Reference), BookingID: b.ID}
	if err := f.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

type fakeNotifier struct {
	sent []uint
	err  error
}

func (f *fakeNotifier) SendVoucher(_ context.Context, b *Booking) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, b.ID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []StatusChangedEvent
}

func (f *fakePublisher) Publish(_ context.Context, _ string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev, ok := payload.(StatusChangedEvent); ok {
		f.events = append(f.events, ev)
	}
	return nil
}

type dbFlightAttacher struct{ db *gorm.DB }

func (a dbFlightAttacher) AttachToBooking(ctx context.Context, _ users.Actor, id, bookingID uint) (*flights.Flight, error) {
	var f flights.Flight
	if err := a.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	f.BookingID = &bookingID
	return &f, a.db.WithContext(ctx).Model(&f).Update("booking_id", bookingID).Error
}

type fixture struct {
	db        *gorm.DB
	svc       Service
	issuer    *fakeIssuer
	notifier  *fakeNotifier
	publisher *fakePublisher
	eventID   uint
	packageID uint
	now       time.Time
	seq       int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&users.User{}, &events.Event{}, &hotels.Hotel{}, &hotels.Package{},
		&flights.Flight{}, &transfers.Transfer{}, &Booking{}, &Voucher{},
	))

	ev := events.Event{Name: "Salon du Tourisme", StartsAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), OrganizerID: organizer.ID}
	require.NoError(t, db.Create(&ev).Error)
	hotel := hotels.Hotel{EventID: &ev.ID, Name: "Riad Atlas", Stars: 4, City: "Marrakech"}
	require.NoError(t, db.Create(&hotel).Error)
	pkg := hotels.Package{HotelID: hotel.ID, Name: "Double BB", RoomType: hotels.RoomDouble, RateBasis: hotels.RateBedBreakfast, Price: decimal.RequireFromString("1000")}
	require.NoError(t, db.Create(&pkg).Error)

	f := &fixture{
		db:        db,
		issuer:    &fakeIssuer{db: db},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		eventID:   ev.ID,
		packageID: pkg.ID,
		now:       time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(NewRepository(db), Options{
		Packages:  hotels.NewService(hotels.NewRepository(db), nil),
		Flights:   dbFlightAttacher{db: db},
		Vouchers:  f.issuer,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		Logger:    logger.Discard(),
		Clock:     func() time.Time { return f.now },
	})
	return f
}

// seed inserts a booking directly so tests control created_at
func (f *fixture) seed(t *testing.T, status Status, createdAt time.Time) *Booking {
	t.Helper()
	f.seq++
	b := &Booking{
		Reference:  fmt.Sprintf("BK-20260501-TEST%02d", f.seq),
		GuestName:  "Youssef Benali",
		GuestEmail: "youssef@example.com",
		EventID:    &f.eventID,
		Status:     status,
		Price:      decimal.RequireFromString("1000"),
		Currency:   DefaultCurrency,
		CreatedAt:  createdAt,
	}
	require.NoError(t, f.db.Create(b).Error)
	return b
}

func (f *fixture) reload(t *testing.T, id uint) *Booking {
	t.Helper()
	var b Booking
	require.NoError(t, f.db.First(&b, id).Error)
	return &b
}

var errBoom = errors.New("boom")
