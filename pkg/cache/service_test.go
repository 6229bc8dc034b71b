package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"bookingdesk/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService needs a reachable Redis at REDIS_TEST_ADDR
func newTestService(t *testing.T) Service {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Address: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(client, "test:"+uuid.NewString(), logger.Discard())
	t.Cleanup(func() { _ = svc.DeletePattern(context.Background(), "*") })
	return svc
}

func TestConnectRequiresAddress(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	assert.Error(t, err)
}

func TestGetOrSet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var miss map[string]int
	assert.ErrorIs(t, svc.Get(ctx, "summary", &miss), ErrCacheMiss)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"pending": 3}, nil
	}

	var first, second map[string]int
	require.NoError(t, svc.GetOrSet(ctx, "summary", time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, "summary", time.Minute, fetch, &second))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, second["pending"])

	boom := errors.New("db down")
	var out map[string]int
	err := svc.GetOrSet(ctx, "other", time.Minute, func() (interface{}, error) { return nil, boom }, &out)
	assert.ErrorIs(t, err, boom)
}

func TestTryLock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ok, err := svc.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}
