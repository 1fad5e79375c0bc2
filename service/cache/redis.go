/*
 * @module service/cache/redis
 * @description Redis 连接配置与客户端创建，供描述符缓存、分布式锁与限流共用
 * @architecture 工具层
 * @documentReference dev_docs/screening.md
 * @stateFlow 读取配置 -> 创建客户端 -> Ping 校验
 * @rules 连接失败直接返回错误，由调用方决定是否降级
 * @dependencies github.com/go-redis/redis/v8
 * @refs redis_cache.go, service/distributed_lock, service/rate_limiter
 */

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr 连接地址
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// NewRedisClient 创建 Redis 客户端并测试连接
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	slog.Info("Redis连接成功", "redis_host", cfg.Host, "redis_port", cfg.Port, "redis_db", cfg.DB)
	return client, nil
}
