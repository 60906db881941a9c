package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Store on top of a redis client.
// Keys are laid out as {prefix}:{namespace}:{key}.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (r *redisStore) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

func (r *redisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s/%s from redis: %w", namespace, key, err)
	}
	return v, nil
}

func (r *redisStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(namespace, key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s/%s to redis: %w", namespace, key, err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := r.client.Del(ctx, r.key(namespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s/%s from redis: %w", namespace, key, err)
	}
	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
