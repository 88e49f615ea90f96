package memoryxredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/errx"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hireflow:conversation:"

// RedisStore keeps each history in a Redis list of JSON messages, capped at
// maxHistory entries and expiring ttl after the last append.
type RedisStore struct {
	client     *redis.Client
	maxHistory int
	ttl        time.Duration
}

func NewRedisStore(client *redis.Client, maxHistory int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:     client,
		maxHistory: maxHistory,
		ttl:        ttl,
	}
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]llm.Message, error) {
	raw, err := s.client.LRange(ctx, keyPrefix+key, 0, -1).Result()
	if err != nil {
		return nil, errx.Wrap(err, "failed to load conversation", errx.TypeInternal).
			WithDetail("key", key)
	}

	messages := make([]llm.Message, 0, len(raw))
	for _, item := range raw {
		var msg llm.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, errx.Wrap(err, "corrupt conversation entry", errx.TypeInternal).
				WithDetail("key", key)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Append(ctx context.Context, key string, messages ...llm.Message) error {
	if len(messages) == 0 {
		return nil
	}

	values := make([]any, 0, len(messages))
	for _, msg := range messages {
		b, err := json.Marshal(msg)
		if err != nil {
			return errx.Wrap(err, "failed to encode message", errx.TypeInternal)
		}
		values = append(values, b)
	}

	fullKey := keyPrefix + key
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, fullKey, values...)
		if s.maxHistory > 0 {
			pipe.LTrim(ctx, fullKey, int64(-s.maxHistory), -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, fullKey, s.ttl)
		}
		return nil
	})
	if err != nil {
		return errx.Wrap(err, "failed to append conversation", errx.TypeInternal).
			WithDetail("key", key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errx.Wrap(err, "failed to delete conversation", errx.TypeInternal).
			WithDetail("key", key)
	}
	return nil
}
