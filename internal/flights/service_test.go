package flights

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/storage"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeOwners map[uint]uint

func (f fakeOwners) OrganizerOf(_ context.Context, eventID uint) (uint, error) {
	owner, ok := f[eventID]
	if !ok {
		return 0, apperror.ErrNotFound
	}
	return owner, nil
}

type sentCredentials struct {
	flightID uint
	email    string
	password string
}

type fakeNotifier struct {
	sent []sentCredentials
}

func (n *fakeNotifier) SendFlightCredentials(_ context.Context, f *Flight, u *users.User, password string) error {
	n.sent = append(n.sent, sentCredentials{flightID: f.ID, email: u.Email, password: password})
	return nil
}

type fixture struct {
	svc      Service
	db       *gorm.DB
	store    *storage.DualStorage
	notifier *fakeNotifier
	userRepo users.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &Flight{}))

	store := storage.New(afero.NewMemMapFs(), afero.NewMemMapFs(), "http://localhost:8080", logger.Discard())
	notifier := &fakeNotifier{}
	userRepo := users.NewRepository(db)
	svc := NewService(NewRepository(db), fakeOwners{1: 10}, userRepo, store, notifier, logger.Discard())
	return &fixture{svc: svc, db: db, store: store, notifier: notifier, userRepo: userRepo}
}

func uintPtr(v uint) *uint { return &v }

var (
	admin = users.Actor{ID: 1, Role: users.RoleAdmin}
	owner = users.Actor{ID: 10, Role: users.RoleOrganizer}
	other = users.Actor{ID: 11, Role: users.RoleOrganizer}
)

func oneWay() CreateFlightRequest {
	return CreateFlightRequest{
		EventID:          uintPtr(1),
		Airline:          "Royal Air Maroc",
		FlightNumber:     "AT401",
		DepartureAirport: "CDG",
		ArrivalAirport:   "RAK",
		FlightCategory:   CategoryOneWay,
		Price:            decimal.RequireFromString("1800.50"),
	}
}

func TestCreateFlightValidatesLegs(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)
	assert.Equal(t, ClassEconomy, f.FlightClass)
	assert.Equal(t, StatusPending, f.Status)
	assert.Equal(t, "1800.50", f.Total().StringFixed(2))

	bad := oneWay()
	bad.ReturnPrice = decimal.NewFromInt(100)
	_, err = fx.svc.Create(ctx, owner, bad)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	rt := oneWay()
	rt.FlightCategory = CategoryRoundTrip
	rt.ReturnPrice = decimal.NewFromInt(1200)
	_, err = fx.svc.Create(ctx, owner, rt)
	assert.ErrorIs(t, err, apperror.ErrValidation, "round trip without return departure")

	ret := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)
	rt.ReturnDepartureAt = &ret
	f, err = fx.svc.Create(ctx, owner, rt)
	require.NoError(t, err)
	assert.Equal(t, "3000.50", f.Total().StringFixed(2))

	neg := oneWay()
	neg.Price = decimal.NewFromInt(-5)
	_, err = fx.svc.Create(ctx, owner, neg)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestFlightAuthorization(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, other, oneWay())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	f, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)

	_, err = fx.svc.Get(ctx, other, f.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = fx.svc.List(ctx, users.Actor{ID: 50, Role: users.RoleUser}, ListQuery{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	list, err := fx.svc.List(ctx, admin, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)

	got, err := fx.svc.UpdateStatus(ctx, owner, f.ID, StatusTicketed)
	require.NoError(t, err)
	assert.Equal(t, StatusTicketed, got.Status)

	_, err = fx.svc.UpdateStatus(ctx, owner, f.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, owner, f.ID, StatusPending)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestUploadTicket(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)

	got, err := fx.svc.UploadTicket(ctx, owner, f.ID, "my ticket.pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	require.NotNil(t, got.TicketPath)
	assert.True(t, strings.HasPrefix(*got.TicketPath, "flights/1/"))
	assert.True(t, strings.HasSuffix(*got.TicketPath, "-my_ticket.pdf"))
	assert.Equal(t, storage.Presence{Private: true, Public: true}, fx.store.Presence(*got.TicketPath))
	assert.Equal(t, "http://localhost:8080/storage/"+*got.TicketPath, got.TicketURL)

	reloaded, err := fx.svc.Get(ctx, admin, f.ID)
	require.NoError(t, err)
	assert.Equal(t, *got.TicketPath, *reloaded.TicketPath)
	assert.Equal(t, got.TicketURL, reloaded.TicketURL)
}

func TestSendCredentials(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)
	err = fx.svc.SendCredentials(ctx, owner, 1)
	assert.ErrorIs(t, err, apperror.ErrValidation, "no passenger")

	u := &users.User{FirstName: "Amina", LastName: "Alaoui", Email: "amina@example.com", Role: users.RoleUser, Password: "x"}
	require.NoError(t, fx.userRepo.Create(ctx, u))

	req := oneWay()
	req.UserID = &u.ID
	f, err := fx.svc.Create(ctx, owner, req)
	require.NoError(t, err)

	require.NoError(t, fx.svc.SendCredentials(ctx, owner, f.ID))
	require.Len(t, fx.notifier.sent, 1)
	sent := fx.notifier.sent[0]
	assert.Equal(t, "amina@example.com", sent.email)

	stored, err := fx.userRepo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, users.CheckPassword(stored.Password, sent.password))
}

func TestAttachToBooking(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f, err := fx.svc.Create(ctx, owner, oneWay())
	require.NoError(t, err)

	_, err = fx.svc.AttachToBooking(ctx, owner, f.ID, 7)
	require.NoError(t, err)
	_, err = fx.svc.AttachToBooking(ctx, owner, f.ID, 7)
	require.NoError(t, err, "re-attaching to the same booking is allowed")
	_, err = fx.svc.AttachToBooking(ctx, owner, f.ID, 8)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	list, err := fx.svc.ListByBooking(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
