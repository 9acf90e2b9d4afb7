package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server; set TEST_REDIS_URL (e.g. redis://localhost:6379/15) to enable.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisLocker_AcquireAndTimeout(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test:" + uuid.NewString() + ":"
	a := NewRedisLocker(client, 50*time.Millisecond, 5*time.Second, WithKeyPrefix(prefix), WithRetryInterval(5*time.Millisecond))
	b := NewRedisLocker(client, 50*time.Millisecond, 5*time.Second, WithKeyPrefix(prefix), WithRetryInterval(5*time.Millisecond))

	release, err := a.Acquire(context.Background(), []string{"cash", "revenue"})
	require.NoError(t, err)

	_, err = b.Acquire(context.Background(), []string{"revenue"})
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)

	release()
	r2, err := b.Acquire(context.Background(), []string{"revenue"})
	require.NoError(t, err)
	r2()

	n, err := client.Exists(context.Background(), prefix+"cash", prefix+"revenue").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisLocker_ReleaseDoesNotStealForeignLock(t *testing.T) {
	client := newTestRedis(t)
	prefix := "test:" + uuid.NewString() + ":"
	locker := NewRedisLocker(client, 50*time.Millisecond, 20*time.Millisecond, WithKeyPrefix(prefix))

	release, err := locker.Acquire(context.Background(), []string{"cash"})
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond) // ttl expired
	require.NoError(t, client.Set(context.Background(), prefix+"cash", "someone-else", time.Minute).Err())

	release()
	val, err := client.Get(context.Background(), prefix+"cash").Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
}
