package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ro5-service/service/models"

	"github.com/go-redis/redis/v8"
)

// 默认缓存有效期
const DefaultTTL = 24 * time.Hour

// RedisCache 基于 Redis 的增广结果缓存
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 创建 Redis 缓存
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get 读取缓存
func (c *RedisCache) Get(ctx context.Context, key string) ([]models.AugmentedCompound, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取缓存失败: %w", err)
	}

	var augmented []models.AugmentedCompound
	if err := json.Unmarshal(data, &augmented); err != nil {
		return nil, false, fmt.Errorf("缓存内容解析失败: %w", err)
	}
	return augmented, true, nil
}

// Put 写入缓存
func (c *RedisCache) Put(ctx context.Context, key string, augmented []models.AugmentedCompound) error {
	data, err := json.Marshal(augmented)
	if err != nil {
		return fmt.Errorf("缓存内容序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

// Close 关闭客户端
func (c *RedisCache) Close() error {
	return c.client.Close()
}
