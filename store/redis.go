package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps snapshots as plain string values under a key prefix.
// SET replaces the whole value, so loads never see a partial snapshot.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects to Redis with the given options.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisStoreWithClient(client, opts.KeyPrefix)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Save stores the snapshot without expiry.
func (rs *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if err := rs.client.Set(ctx, rs.redisKey(key), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load retrieves the snapshot for the key.
func (rs *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := rs.client.Get(ctx, rs.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the snapshot for the key.
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client if it owns one.
func (rs *RedisStore) Close() error {
	if c, ok := rs.client.(*redis.Client); ok {
		return c.Close()
	}
	return nil
}

func (rs *RedisStore) redisKey(key string) string {
	return rs.keyPrefix + key
}
