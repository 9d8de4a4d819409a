// Package redis keeps visitor state in Redis. Every write refreshes the key TTL,
// so idle visitors expire on their own and no sweeping is needed.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

type Store struct {
	rdb *goredis.Client
	ttl time.Duration
}

// Connect parses redisURL and pings the server before returning
func Connect(ctx context.Context, redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url. Err: %w", err)
	}

	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %v", apperrors.ErrStorageUnavailable, err)
	}

	return &Store{rdb: rdb, ttl: ttl}, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, goredis.Nil):
		return "", apperrors.ErrKeyNotFound
	default:
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
}

// Set stores value with TTL. Zero TTL means the key never expires
func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := s.rdb.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
