package pagecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "spacetraveling"
	redisPageKey       = "%s:page:%s" // <prefix>:page:<path>
	redisScanBatch     = 200
)

type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, path string) ([]byte, bool, error) {
	body, err := r.rdb.Get(ctx, r.PageKey(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read page %q: %w", path, err)
	}
	return body, true, nil
}

func (r *Redis) Set(ctx context.Context, path string, body []byte) error {
	if err := r.rdb.Set(ctx, r.PageKey(path), body, r.ttl).Err(); err != nil {
		return fmt.Errorf("write page %q: %w", path, err)
	}
	return nil
}

func (r *Redis) Purge(ctx context.Context) error {
	var cursor uint64
	match := fmt.Sprintf(redisPageKey, r.prefix, "*")
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, match, redisScanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan page keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete page keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) PageKey(path string) string {
	return fmt.Sprintf(redisPageKey, r.prefix, NormalizeKey(path))
}
