package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ideosphere/ideosphere/pkg/logger"
)

// RedisBackend stores entries in Redis with per-key TTLs; expiry is Redis's
// job, so there is no local sweep. Prefix invalidation walks the keyspace
// with SCAN.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (b *RedisBackend) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := b.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (b *RedisBackend) Delete(ctx context.Context, key string) {
	_ = b.client.Del(ctx, key).Err()
}

func (b *RedisBackend) DeletePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	for {
		keys, next, err := b.client.Scan(ctx, cursor, prefix+"*", 256).Result()
		if err != nil {
			logger.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
			return
		}
		if len(keys) > 0 {
			_ = b.client.Del(ctx, keys...).Err()
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (b *RedisBackend) Clear(ctx context.Context) {
	_ = b.client.FlushDB(ctx).Err()
}

func (b *RedisBackend) Close() {
	_ = b.client.Close()
}
