package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")
	return rdb, nil
}

func NewRedis(client *redis.Client, ttl time.Duration) FeatureCache {
	return &redisCache{client: client, ttl: ttl}
}

func (cache *redisCache) Get(ctx context.Context, key string) (model.BatchResult, bool, error) {
	payload, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.BatchResult{}, false, nil
	} else if err != nil {
		return model.BatchResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var result model.BatchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return model.BatchResult{}, false, fmt.Errorf("decode cached batch: %w", err)
	}
	return result, true, nil
}

func (cache *redisCache) Set(ctx context.Context, key string, result model.BatchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := cache.client.Set(ctx, key, payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
