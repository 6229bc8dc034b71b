package bookings

import (
	"context"
	"errors"
	"testing"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmIssuesVoucherAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now.Add(-1))

	res, err := f.svc.Transition(ctx, admin, b.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, res.NoOp)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, StatusPending, res.From)
	assert.Equal(t, StatusConfirmed, res.Booking.Status)
	require.NotNil(t, res.Booking.ConfirmedAt)
	assert.True(t, res.Booking.ConfirmedAt.Equal(f.now))
	require.NotNil(t, res.Booking.Voucher)
	assert.Equal(t, VoucherNumberFor(b.Reference), res.Booking.Voucher.VoucherNumber)

	assert.Equal(t, 1, f.issuer.calls)
	assert.Equal(t, []uint{b.ID}, f.notifier.sent)

	stored := f.reload(t, b.ID)
	assert.Equal(t, StatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmedAt)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, EventBookingStatusChanged, ev.Type)
	assert.Equal(t, StatusPending, ev.From)
	assert.Equal(t, StatusConfirmed, ev.To)
	assert.Equal(t, admin.ID, ev.ActorID)
}

func TestConfirmTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	_, err := f.svc.Transition(ctx, admin, b.ID, StatusConfirmed)
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, admin, b.ID, StatusConfirmed)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusConfirmed, te.From)
	assert.Equal(t, StatusConfirmed, te.To)

	assert.Equal(t, 1, f.issuer.calls)
	assert.Len(t, f.notifier.sent, 1)

	var vouchers int64
	require.NoError(t, f.db.Model(&Voucher{}).Where("booking_id = ?", b.ID).Count(&vouchers).Error)
	assert.EqualValues(t, 1, vouchers)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRefunded, false},
		{StatusConfirmed, StatusRefunded, true},
		{StatusConfirmed, StatusCancelled, false},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusRefunded, StatusConfirmed, false},
		{StatusRefunded, StatusCancelled, false},
		{StatusRefunded, StatusRefunded, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to))
		})
	}

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestRejectedTransitionLeavesBookingUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	_, err := f.svc.Transition(ctx, admin, b.ID, StatusRefunded)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	stored := f.reload(t, b.ID)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Nil(t, stored.RefundedAt)
	assert.Empty(t, f.publisher.events)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	first, err := f.svc.Transition(ctx, organizer, b.ID, StatusCancelled)
	require.NoError(t, err)
	assert.False(t, first.NoOp)
	require.NotNil(t, first.Booking.CancelledAt)

	second, err := f.svc.Transition(ctx, organizer, b.ID, StatusCancelled)
	require.NoError(t, err)
	assert.True(t, second.NoOp)
	assert.Equal(t, StatusCancelled, second.Booking.Status)

	assert.Zero(t, f.issuer.calls)
	assert.Empty(t, f.notifier.sent)
	assert.Len(t, f.publisher.events, 1)
}

func TestRefundAfterConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	_, err := f.svc.Transition(ctx, admin, b.ID, StatusConfirmed)
	require.NoError(t, err)

	res, err := f.svc.Transition(ctx, admin, b.ID, StatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.From)
	require.NotNil(t, res.Booking.RefundedAt)

	_, err = f.svc.Transition(ctx, admin, b.ID, StatusCancelled)
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
	assert.Equal(t, 1, f.issuer.calls)
}

func TestSideEffectFailuresBecomeWarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	f.issuer.err = errBoom
	f.notifier.err = errBoom

	res, err := f.svc.Transition(ctx, admin, b.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 2)
	assert.Equal(t, StatusConfirmed, f.reload(t, b.ID).Status)
}

func TestTransitionAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seed(t, StatusPending, f.now)

	_, err := f.svc.Transition(ctx, guest, b.ID, StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Transition(ctx, stranger, b.ID, StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Transition(ctx, users.Actor{}, b.ID, StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Transition(ctx, admin, b.ID, Status("archived"))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.Transition(ctx, admin, 9999, StatusConfirmed)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Equal(t, StatusPending, f.reload(t, b.ID).Status)
}
