package interviewinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockPrefix = "hireflow:lock:"

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a single-instance Redis lock. A lock that outlives its
// ttl is released by Redis.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	fullKey := lockPrefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, errx.Wrap(err, "failed to acquire lock", errx.TypeInternal).
			WithDetail("key", key)
	}
	if !ok {
		return nil, interview.ErrConcurrentModification().WithDetail("key", key)
	}

	release := func() {
		// the request context may already be cancelled
		if err := releaseScript.Run(context.Background(), l.client, []string{fullKey}, token).Err(); err != nil {
			logx.WithError(err).WithFields(logx.Fields{"key": key}).Warn("Failed to release lock, it will expire with its ttl")
		}
	}
	return release, nil
}

// InMemoryLocker serves single-process deployments and tests
type InMemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

func (l *InMemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, interview.ErrConcurrentModification().WithDetail("key", key)
	}
	until := now.Add(ttl)
	l.held[key] = until

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if l.held[key].Equal(until) {
				delete(l.held, key)
			}
		})
	}, nil
}
