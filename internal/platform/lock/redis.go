package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix     = "ledger:lock:account:"
	defaultRetryInterval = 20 * time.Millisecond
)

// check-and-delete so a lock that expired and was re-taken by someone else is left alone
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker is a Locker shared by every process pointed at the same Redis.
// Each key is a SET NX PX entry holding a per-acquisition token; the TTL bounds
// how long a crashed holder can block others.
type RedisLocker struct {
	client        redis.UniversalClient
	logger        *slog.Logger
	timeout       time.Duration
	ttl           time.Duration
	retryInterval time.Duration
	keyPrefix     string
}

// RedisOption configures a RedisLocker.
type RedisOption func(*RedisLocker)

// WithRetryInterval sets the pause between SET NX attempts on a busy key.
func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) { l.retryInterval = d }
}

// WithKeyPrefix namespaces the lock keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) { l.keyPrefix = prefix }
}

// WithRedisLogger sets the logger used for release failures.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(l *RedisLocker) { l.logger = logger }
}

// NewRedisLocker creates a RedisLocker. timeout bounds Acquire; ttl is the
// expiry placed on each key and must exceed the longest posting transaction.
func NewRedisLocker(client redis.UniversalClient, timeout, ttl time.Duration, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:        client,
		logger:        slog.Default(),
		timeout:       timeout,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		keyPrefix:     defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ Locker = (*RedisLocker)(nil)

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, keys []string) (Release, error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)

	held := make([]string, 0, len(keys))
	releaseAll := func() {
		// the caller's context may already be cancelled; release must still go out
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := l.client.Eval(rctx, releaseScript, []string{held[i]}, token).Err(); err != nil {
				l.logger.Warn("Failed to release account lock", slog.String("key", held[i]), slog.String("error", err.Error()))
			}
		}
	}

	for _, key := range keys {
		redisKey := l.keyPrefix + key
		if err := l.acquireOne(ctx, redisKey, token, deadline); err != nil {
			releaseAll()
			if errors.Is(err, errDeadline) {
				return nil, timeoutError(key, l.timeout)
			}
			return nil, err
		}
		held = append(held, redisKey)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

var errDeadline = errors.New("lock deadline exceeded")

func (l *RedisLocker) acquireOne(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		wait := time.Until(deadline)
		if wait <= 0 {
			return errDeadline
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(min(l.retryInterval, wait)):
		}
	}
}
