package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"recetas-api/internal/config"
	"recetas-api/internal/logging"
)

const pingTimeout = 5 * time.Second

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// Dial connects to redis and pings it once.
func Dial(ctx context.Context, cfg config.Redis, log *slog.Logger) (*Redis, error) {
	const op = "cache.Dial"

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: redis ping failed: %w", op, err)
	}
	return NewRedis(rdb, cfg.CacheTTL, log), nil
}

func NewRedis(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, log: log.With(slog.String("component", "cache"))}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache get failed", slog.String("key", key), logging.Err(err))
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := r.rdb.Set(ctx, key, val, r.ttl).Err(); err != nil {
		r.log.Warn("cache set failed", slog.String("key", key), logging.Err(err))
	}
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("cache invalidate failed", slog.Any("keys", keys), logging.Err(err))
	}
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
