package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	limiterKeyPrefix = "statefin:limiter:"
	storageTimeout   = 2 * time.Second
)

// RedisStorage is a fiber.Storage over go-redis, so limiter counters are
// shared between instances
type RedisStorage struct {
	client *redis.Client
}

var _ fiber.Storage = (*RedisStorage)(nil)

// NewRedisStorage wraps client. A nil client yields a nil storage, which
// makes the limiters fall back to memory.
func NewRedisStorage(client *redis.Client) fiber.Storage {
	if client == nil {
		return nil
	}
	return &RedisStorage{client: client}
}

func (s *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storageTimeout)
}

// Get returns nil, nil for a missing key
func (s *RedisStorage) Get(key string) ([]byte, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, limiterKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val; exp 0 means no expiry
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Set(ctx, limiterKeyPrefix+key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	return s.client.Del(ctx, limiterKeyPrefix+key).Err()
}

// Reset removes every limiter key, leaving other data alone
func (s *RedisStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, limiterKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is owned and closed by main
func (s *RedisStorage) Close() error {
	return nil
}
