package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenNSW/tariff/internal/config"
	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// TestRedisResultCache_Integration requires a running Redis.
// We skip if connection fails.
func TestRedisResultCache_Integration(t *testing.T) {
	c := NewRedisResultCache(config.CacheConfig{RedisAddr: "localhost:6379", TTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	ctx := context.Background()
	if err := c.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	key := "tariff:calc:test:" + uuid.NewString()

	miss, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	result := &model.TariffCalculationResult{
		ID:               uuid.New(),
		ProductCode:      "100630",
		NormalTariffRate: decimal.RequireFromString("0.1"),
		DatasetVersion:   "test",
	}
	require.NoError(t, c.Set(ctx, key, result))

	hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, result.ID, hit.ID)
	assert.True(t, hit.NormalTariffRate.Equal(result.NormalTariffRate))

	ttl, err := c.client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	c.client.Del(ctx, key)
}

func TestRedisResultCache_Unreachable(t *testing.T) {
	c := NewRedisResultCache(config.CacheConfig{RedisAddr: "127.0.0.1:1", TTL: time.Minute})
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := c.Get(ctx, "tariff:calc:any")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "tariff:calc:any", &model.TariffCalculationResult{}))
	assert.Error(t, c.Ping(ctx))
}
