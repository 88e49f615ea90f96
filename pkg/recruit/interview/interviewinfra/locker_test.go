package interviewinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLocker(client), mr
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		locker, mr := newRedisLocker(t)

		release, err := locker.Acquire(ctx, "interview:iv-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, mr.Exists(lockPrefix+"interview:iv-1"))

		_, err = locker.Acquire(ctx, "interview:iv-1", time.Minute)
		assert.True(t, errx.IsCode(err, interview.CodeConcurrentModification))

		release()
		assert.False(t, mr.Exists(lockPrefix+"interview:iv-1"))

		again, err := locker.Acquire(ctx, "interview:iv-1", time.Minute)
		require.NoError(t, err)
		again()
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		locker, mr := newRedisLocker(t)

		stale, err := locker.Acquire(ctx, "k", time.Second)
		require.NoError(t, err)
		mr.FastForward(2 * time.Second)

		fresh, err := locker.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)

		// the old holder must not free the new holder's lock
		stale()
		assert.True(t, mr.Exists(lockPrefix+"k"))
		fresh()
		assert.False(t, mr.Exists(lockPrefix+"k"))
	})

	t.Run("failed release is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		t.Cleanup(logx.ReplaceCore(core))

		locker, mr := newRedisLocker(t)
		release, err := locker.Acquire(ctx, "iv-9", time.Minute)
		require.NoError(t, err)

		mr.Close()
		release()

		entries := logs.FilterMessageSnippet("Failed to release lock").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "iv-9", entries[0].ContextMap()["key"])
	})

	t.Run("keys are independent", func(t *testing.T) {
		locker, _ := newRedisLocker(t)
		a, err := locker.Acquire(ctx, "a", time.Minute)
		require.NoError(t, err)
		b, err := locker.Acquire(ctx, "b", time.Minute)
		require.NoError(t, err)
		a()
		b()
	})
}

func TestInMemoryLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	locker := NewInMemoryLocker()
	locker.clock = func() time.Time { return now }

	release, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.True(t, errx.IsCode(err, interview.CodeConcurrentModification))

	release()
	release()

	again, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	takeover, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	again()
	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.Error(t, err, "stale release must not free the new holder")
	takeover()
}
