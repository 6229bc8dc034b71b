package events

import (
	"context"
	"testing"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))
	return NewService(NewRepository(db), logger.Discard())
}

var (
	admin = users.Actor{ID: 1, Role: users.RoleAdmin}
	orgA  = users.Actor{ID: 10, Role: users.RoleOrganizer}
	orgB  = users.Actor{ID: 11, Role: users.RoleOrganizer}
	guest = users.Actor{ID: 20, Role: users.RoleUser}
)

func TestOrganizerScope(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	starts := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	ev, err := svc.Create(ctx, orgA, CreateEventRequest{Name: "Congrès Médical", StartsAt: starts, OrganizerID: 99})
	require.NoError(t, err)
	assert.Equal(t, uint(10), ev.OrganizerID, "organizers cannot assign another owner")
	assert.Equal(t, StatusDraft, ev.Status)

	_, err = svc.Create(ctx, admin, CreateEventRequest{Name: "Salon Tourisme", StartsAt: starts, OrganizerID: 11, Status: StatusPublished})
	require.NoError(t, err)

	_, err = svc.Get(ctx, orgB, ev.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	list, err := svc.List(ctx, orgA, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	list, err = svc.List(ctx, admin, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)

	_, err = svc.List(ctx, guest, ListQuery{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	published, err := svc.ListPublished(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, published.Events, 1)
	assert.Equal(t, "Salon Tourisme", published.Events[0].Name)

	_, err = svc.GetPublished(ctx, ev.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	owner, err := svc.OrganizerOf(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), owner)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	starts := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	ev, err := svc.Create(ctx, orgA, CreateEventRequest{Name: "Forum Casablanca", StartsAt: starts})
	require.NoError(t, err)

	before := starts.Add(-time.Hour)
	_, err = svc.Update(ctx, orgA, ev.ID, UpdateEventRequest{EndsAt: &before})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	status := StatusPublished
	updated, err := svc.Update(ctx, orgA, ev.ID, UpdateEventRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, updated.Status)

	assert.ErrorIs(t, svc.Delete(ctx, orgB, ev.ID), apperror.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, orgA, ev.ID))
	_, err = svc.Get(ctx, admin, ev.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
