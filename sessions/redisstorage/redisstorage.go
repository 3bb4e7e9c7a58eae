package redisstorage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/portalhq/go-portal-auth/sessions"
)

var _ sessions.Storage = (*Storage)(nil)

const opTimeout = 2 * time.Second

// Storage persists session records in redis so they survive a process
// restart. Records carry no redis-side TTL: expiry stays a store concern so
// lazy eviction behaves the same on every backend.
type Storage struct {
	client *redis.Client
}

// New creates a redis-backed Storage over an existing client.
func New(client *redis.Client) (*Storage, error) {
	if client == nil {
		return nil, errors.New("[redisstorage.New] client is required")
	}
	return &Storage{client: client}, nil
}

func (s *Storage) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sessions.NotFoundErr
	}
	if err != nil {
		return "", errors.Wrap(err, "[Storage.Get] redis get")
	}
	return value, nil
}

func (s *Storage) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "[Storage.Set] redis set")
	}
	return nil
}

func (s *Storage) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrap(err, "[Storage.Remove] redis del")
	}
	return nil
}
