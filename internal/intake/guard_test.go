// internal/intake/guard_test.go
package intake

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
)

func newTestGuard(t *testing.T) (*SubmissionGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSubmissionGuard(client, time.Minute, logger.NewTestLogger(t)), mr
}

func TestSubmissionGuard_ReserveAndBlock(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, guard.Reserve(ctx, "jane.doe@example.com"))

	err := guard.Reserve(ctx, "jane.doe@example.com")
	require.Error(t, err)
	stdErr := errors.Normalize(err)
	assert.Equal(t, errors.ErrCodeSubmissionLimited, stdErr.Code)

	// A different address is unaffected.
	assert.NoError(t, guard.Reserve(ctx, "john.smith@example.com"))
}

func TestSubmissionGuard_EmailCaseInsensitive(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, guard.Reserve(ctx, "Jane.Doe@Example.com"))
	assert.Error(t, guard.Reserve(ctx, "jane.doe@example.com"))
}

func TestSubmissionGuard_WindowExpiry(t *testing.T) {
	guard, mr := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, guard.Reserve(ctx, "jane.doe@example.com"))
	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, guard.Reserve(ctx, "jane.doe@example.com"))
}

func TestSubmissionGuard_ReleaseFreesWindow(t *testing.T) {
	guard, _ := newTestGuard(t)
	ctx := context.Background()

	require.NoError(t, guard.Reserve(ctx, "jane.doe@example.com"))
	guard.Release(ctx, "jane.doe@example.com")
	assert.NoError(t, guard.Reserve(ctx, "jane.doe@example.com"))
}

func TestSubmissionGuard_FailsOpenWhenRedisDown(t *testing.T) {
	guard, mr := newTestGuard(t)
	mr.Close()

	// A guard outage must never block submissions.
	assert.NoError(t, guard.Reserve(context.Background(), "jane.doe@example.com"))
}
