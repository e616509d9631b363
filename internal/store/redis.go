package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisGateway keeps each document as a Redis string.
type RedisGateway struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisGateway stores documents under prefix+key.
func NewRedisGateway(rdb *redis.Client, prefix string) *RedisGateway {
	return &RedisGateway{rdb: rdb, prefix: prefix}
}

func (g *RedisGateway) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := g.rdb.Get(ctx, g.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, persistenceErr("read", key, err)
	}
	return data, nil
}

func (g *RedisGateway) Write(ctx context.Context, key string, value []byte) error {
	if err := g.rdb.Set(ctx, g.prefix+key, value, 0).Err(); err != nil {
		return persistenceErr("write", key, err)
	}
	return nil
}
