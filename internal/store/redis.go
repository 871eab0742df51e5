package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KV is the subset of a key-value client used by RedisStore.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore keeps the snapshot list as a single JSON value under one key.
type RedisStore struct {
	*listStore
}

// NewRedisStore returns a store keeping its list under key in kv.
func NewRedisStore(kv KV, key string, logger *zap.Logger, opts ...Option) *RedisStore {
	return &RedisStore{listStore: newListStore(kvBlob{kv: kv, key: key}, logger, opts)}
}

type kvBlob struct {
	kv  KV
	key string
}

func (b kvBlob) load(ctx context.Context) ([]byte, error) {
	value, ok, err := b.kv.Get(ctx, b.key)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(value), nil
}

func (b kvBlob) store(ctx context.Context, data []byte) error {
	return b.kv.Set(ctx, b.key, string(data))
}

func (b kvBlob) close() error { return b.kv.Close() }

func (b kvBlob) describe() string { return "redis key " + b.key }

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects lazily to the Redis server at addr.
func NewRedisKV(addr string) *RedisKV {
	return &RedisKV{client: redis.NewClient(&redis.Options{
		Addr: addr,
	})}
}

// Get returns false without error when the key does not exist.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
