package notifications

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyEmailService struct {
	failures int32
	calls    atomic.Int32
}

func (s *flakyEmailService) Send(context.Context, *EmailNotification) error {
	if s.calls.Add(1) <= s.failures {
		return errors.New("smtp: 421 try again later")
	}
	return nil
}

func testNotification(to string) *EmailNotification {
	return NewNotificationBuilder().
		WithType(NotificationTypeVoucher).
		WithRecipient(to, "Guest").
		WithSubject("Votre voucher").
		WithBody("<p>hi</p>", "hi").
		Build()
}

func TestLocalQueueDelivers(t *testing.T) {
	email := NewLogEmailService(logger.Discard())
	q := NewLocalQueue(email, 2, 10, RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond}, logger.Discard())
	require.NoError(t, q.Start(context.Background()))

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, q.Enqueue(context.Background(), testNotification(to)))
	}
	require.NoError(t, q.Stop())

	assert.Len(t, email.Sent(), 3)
	for _, n := range email.Sent() {
		assert.Equal(t, NotificationStatusSent, n.Status)
	}
}

func TestLocalQueueRetriesWithBackoff(t *testing.T) {
	email := &flakyEmailService{failures: 2}
	q := NewLocalQueue(email, 1, 1, RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, logger.Discard())
	require.NoError(t, q.Start(context.Background()))

	n := testNotification("guest@example.com")
	require.NoError(t, q.Enqueue(context.Background(), n))
	require.NoError(t, q.Stop())

	assert.Equal(t, int32(3), email.calls.Load())
	assert.Equal(t, NotificationStatusSent, n.Status)
	assert.Equal(t, 2, n.RetryCount)
}

func TestDeliverGivesUp(t *testing.T) {
	email := &flakyEmailService{failures: 100}
	n := testNotification("guest@example.com")

	err := deliver(context.Background(), email, n, RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}, logger.Discard())
	assert.ErrorIs(t, err, apperror.ErrDelivery)
	assert.Equal(t, int32(3), email.calls.Load())
	assert.Equal(t, NotificationStatusFailed, n.Status)
	require.NotNil(t, n.LastError)
}

func TestLocalQueueRejectsWhenStopped(t *testing.T) {
	q := NewLocalQueue(NewLogEmailService(logger.Discard()), 1, 1, DefaultRetryPolicy(), logger.Discard())
	err := q.Enqueue(context.Background(), testNotification("x@example.com"))
	assert.ErrorIs(t, err, apperror.ErrDelivery)

	require.NoError(t, q.Start(context.Background()))
	require.NoError(t, q.Stop())
	require.NoError(t, q.Stop())

	err = q.Enqueue(context.Background(), testNotification("x@example.com"))
	assert.ErrorIs(t, err, apperror.ErrDelivery)
}

func TestLocalQueueRestartsAfterStop(t *testing.T) {
	email := NewLogEmailService(logger.Discard())
	q := NewLocalQueue(email, 1, 4, RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond}, logger.Discard())

	require.NoError(t, q.Start(context.Background()))
	require.NoError(t, q.Enqueue(context.Background(), testNotification("first@example.com")))
	require.NoError(t, q.Stop())

	require.NoError(t, q.Start(context.Background()))
	assert.NotPanics(t, func() {
		require.NoError(t, q.Enqueue(context.Background(), testNotification("second@example.com")))
	})
	require.NoError(t, q.Stop())

	assert.Len(t, email.Sent(), 2)
}
