package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookingdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepCancelsOnlyExpiredPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expired := f.seed(t, StatusPending, f.now.Add(-50*time.Hour))
	fresh := f.seed(t, StatusPending, f.now.Add(-47*time.Hour))
	oldConfirmed := f.seed(t, StatusConfirmed, f.now.Add(-72*time.Hour))

	res, err := f.svc.SweepExpiredPending(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1, Cancelled: 1}, *res)

	stored := f.reload(t, expired.ID)
	assert.Equal(t, StatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)

	assert.Equal(t, StatusPending, f.reload(t, fresh.ID).Status)
	assert.Equal(t, StatusConfirmed, f.reload(t, oldConfirmed.ID).Status)

	// cancellation never issues a voucher or sends mail
	assert.Zero(t, f.issuer.calls)
	assert.Empty(t, f.notifier.sent)
	var vouchers int64
	require.NoError(t, f.db.Model(&Voucher{}).Count(&vouchers).Error)
	assert.Zero(t, vouchers)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, StatusPending, f.now.Add(-50*time.Hour))

	first, err := f.svc.SweepExpiredPending(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Cancelled)

	second, err := f.svc.SweepExpiredPending(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, *second)
}

func TestSweepBoundaryIsStrict(t *testing.T) {
	f := newFixture(t)
	b := f.seed(t, StatusPending, f.now.Add(-48*time.Hour))

	res, err := f.svc.SweepExpiredPending(context.Background(), f.now)
	require.NoError(t, err)
	assert.Zero(t, res.Cancelled)
	assert.Equal(t, StatusPending, f.reload(t, b.ID).Status)
}

type fakeLocker struct {
	mu    sync.Mutex
	held  map[string]bool
	calls int
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.held == nil {
		l.held = map[string]bool{}
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func TestJobProcessorRunsAtMostOncePerInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, StatusPending, f.now.Add(-50*time.Hour))

	jp := NewJobProcessor(f.svc, &JobConfig{SweepInterval: time.Hour}, nil, logger.Discard())
	clock := f.now
	jp.now = func() time.Time { return clock }

	res, ran, err := jp.RunSweep(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 1, res.Cancelled)

	clock = clock.Add(10 * time.Minute)
	_, ran, err = jp.RunSweep(ctx)
	require.NoError(t, err)
	assert.False(t, ran)

	clock = clock.Add(time.Hour)
	_, ran, err = jp.RunSweep(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestJobProcessorHonoursSharedLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	locker := &fakeLocker{}

	a := NewJobProcessor(f.svc, nil, locker, logger.Discard())
	b := NewJobProcessor(f.svc, nil, locker, logger.Discard())

	_, ran, err := a.RunSweep(ctx)
	require.NoError(t, err)
	assert.True(t, ran)

	_, ran, err = b.RunSweep(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 2, locker.calls)
}

func TestJobProcessorStartStop(t *testing.T) {
	f := newFixture(t)
	jp := NewJobProcessor(f.svc, &JobConfig{SweepInterval: time.Hour}, nil, logger.Discard())
	require.NoError(t, jp.Start(context.Background()))
	jp.Stop()
}
