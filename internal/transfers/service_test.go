package transfers

import (
	"context"
	"testing"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"

	"github.com/shopspring/decimal"
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

func newTestService(t *testing.T) Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Transfer{}))
	return NewService(NewRepository(db), fakeOwners{1: 10})
}

func uintPtr(v uint) *uint { return &v }

func airportRun() CreateTransferRequest {
	return CreateTransferRequest{
		EventID:         uintPtr(1),
		TripType:        TripArrival,
		PickupLocation:  "Aéroport Marrakech-Ménara",
		DropoffLocation: "Riad Atlas",
		Price:           decimal.RequireFromString("250"),
	}
}

func TestCreateTransferDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	org := users.Actor{ID: 10, Role: users.RoleOrganizer}

	tr, err := svc.Create(ctx, org, airportRun())
	require.NoError(t, err)
	assert.Equal(t, VehicleSedan, tr.VehicleType)
	assert.Equal(t, 1, tr.Passengers)
	assert.Equal(t, StatusPending, tr.Status)

	neg := airportRun()
	neg.Price = decimal.NewFromInt(-1)
	_, err = svc.Create(ctx, org, neg)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Create(ctx, users.Actor{ID: 11, Role: users.RoleOrganizer}, airportRun())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestTransferStatusAndAttach(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admin := users.Actor{ID: 1, Role: users.RoleAdmin}

	tr, err := svc.Create(ctx, admin, airportRun())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, tr.ID, StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, admin, tr.ID, StatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, admin, tr.ID, StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = svc.AttachToBooking(ctx, admin, tr.ID, 3)
	require.NoError(t, err)
	_, err = svc.AttachToBooking(ctx, admin, tr.ID, 4)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	list, err := svc.ListByBooking(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Autocar", VehicleCoach.Label())
}
