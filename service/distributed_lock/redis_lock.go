/*
 * @module service/distributed_lock/redis_lock
 * @description 分布式锁，用于多实例环境下数据集刷新任务防重
 * @architecture 工具层 - Redis 实现 + 进程内实现
 * @documentReference dev_docs/screening.md
 * @stateFlow 获取锁 -> 执行任务 -> 释放锁/自动过期
 * @rules 使用 Redis SET NX 实现，释放时校验持有者
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/scheduler/refresh_scheduler.go
 */

package distributed_lock

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ro5:lock:"

// DistributedLock 分布式锁接口
type DistributedLock interface {
	// TryLock 尝试获取锁
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Unlock 释放锁
	Unlock(ctx context.Context, key string) error
}

// RedisLock Redis分布式锁实现
type RedisLock struct {
	client     *redis.Client
	instanceID string // 实例ID，用于标识锁的持有者
}

// NewRedisLock 基于已连接的客户端创建分布式锁
func NewRedisLock(client *redis.Client) *RedisLock {
	// 使用主机名+进程ID作为实例ID
	hostname, _ := os.Hostname()
	return &RedisLock{
		client:     client,
		instanceID: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
	}
}

// TryLock 尝试获取锁，只有当key不存在时才会设置成功
func (r *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := r.client.SetNX(ctx, keyPrefix+key, r.instanceID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("获取锁失败: %w", err)
	}
	if result {
		slog.Debug("分布式锁: 成功获取锁", "key", key, "ttl", ttl, "instance", r.instanceID)
	}
	return result, nil
}

// 只有锁的持有者才能删除
const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

// Unlock 释放锁
func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	result, err := r.client.Eval(ctx, unlockScript, []string{keyPrefix + key}, r.instanceID).Int64()
	if err != nil {
		return fmt.Errorf("释放锁失败: %w", err)
	}
	if result != 1 {
		slog.Warn("分布式锁: 锁不存在或已被其他实例持有", "key", key, "instance", r.instanceID)
	}
	return nil
}

// LocalLock 进程内锁，未配置 Redis 时使用
type LocalLock struct {
	mu      sync.Mutex
	holders map[string]time.Time
}

// NewLocalLock 创建进程内锁
func NewLocalLock() *LocalLock {
	return &LocalLock{holders: make(map[string]time.Time)}
}

// TryLock 尝试获取锁，过期的锁视为已释放
func (l *LocalLock) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if expiry, held := l.holders[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.holders[key] = time.Now().Add(ttl)
	return true, nil
}

// Unlock 释放锁
func (l *LocalLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.holders, key)
	return nil
}

// LockExecutor 带锁执行器
type LockExecutor struct {
	lock DistributedLock
}

// NewLockExecutor 创建带锁执行器
func NewLockExecutor(lock DistributedLock) *LockExecutor {
	return &LockExecutor{lock: lock}
}

// ExecuteWithLock 在锁保护下执行函数，锁被其他实例持有时跳过并返回 false
func (e *LockExecutor) ExecuteWithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) (bool, error) {
	locked, err := e.lock.TryLock(ctx, key, ttl)
	if err != nil {
		return false, err
	}
	if !locked {
		slog.Debug("分布式锁: 锁已被其他实例持有，跳过执行", "key", key)
		return false, nil
	}

	defer func() {
		if unlockErr := e.lock.Unlock(context.Background(), key); unlockErr != nil {
			slog.Error("分布式锁: 释放锁失败", "key", key, "error", unlockErr)
		}
	}()

	return true, fn()
}
