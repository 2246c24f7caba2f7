package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by KVStore.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// KVStore is the response cache used by the outbound adapters.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type RedisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(client *redis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (r *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// NopKVStore never caches; it stands in when Redis is not configured.
type NopKVStore struct{}

func (NopKVStore) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }

func (NopKVStore) Set(context.Context, string, string, time.Duration) error { return nil }
