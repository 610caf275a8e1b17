// Package cache keeps finished calculations in redis so repeated requests
// against the same dataset version are answered without recomputing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OpenNSW/tariff/internal/config"
	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// RedisResultCache implements service.ResultCache using Redis.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisResultCache creates a cache backed by the redis server in cfg.
func NewRedisResultCache(cfg config.CacheConfig) *RedisResultCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisResultCache{client: rdb, ttl: cfg.TTL}
}

// Ping checks that the server is reachable.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get returns the cached result for key, or nil on a miss.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*model.TariffCalculationResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var result model.TariffCalculationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

// Set stores result under key for the configured TTL.
func (c *RedisResultCache) Set(ctx context.Context, key string, result *model.TariffCalculationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (c *RedisResultCache) Close() error {
	return c.client.Close()
}
