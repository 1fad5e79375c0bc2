/*
 * @module service/rate_limiter/redis_rate_limiter
 * @description 筛选接口限流，按客户端地址固定窗口计数
 * @architecture 工具层 - Redis 实现 + 进程内实现 + HTTP 中间件
 * @documentReference dev_docs/screening.md
 * @stateFlow 请求 -> 窗口计数 -> 判断是否超限 -> 放行/429
 * @rules
 *   - 使用Redis INCR和EXPIRE实现固定窗口限流
 *   - 限流器故障时放行请求
 * @dependencies github.com/go-redis/redis/v8
 * @refs api/routes.go
 */

package rate_limiter

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/render"
	"github.com/go-redis/redis/v8"
)

// RateLimitResult 限流检查结果
type RateLimitResult struct {
	Allowed   bool  `json:"allowed"`   // 是否允许请求
	Limit     int   `json:"limit"`     // 限制数量
	Remaining int   `json:"remaining"` // 剩余数量
	ResetAt   int64 `json:"reset_at"`  // 重置时间（Unix时间戳）
}

// Limiter 限流器
type Limiter interface {
	Allow(ctx context.Context, clientID string) (*RateLimitResult, error)
}

// RedisRateLimiter Redis限流器
type RedisRateLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
}

// NewRedisRateLimiter 创建Redis限流器
func NewRedisRateLimiter(client *redis.Client, maxRequests int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, maxRequests: maxRequests, window: window}
}

// 原子性限流检查
const rateLimitScript = `
	local key = KEYS[1]
	local max_requests = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')
	if current >= max_requests then
		local ttl = redis.call('TTL', key)
		if ttl < 0 then
			ttl = window
		end
		return {0, current, ttl}
	end

	local new_count = redis.call('INCR', key)
	if new_count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end
	return {1, new_count, ttl}
`

// Allow 检查客户端是否超过限流
func (r *RedisRateLimiter) Allow(ctx context.Context, clientID string) (*RateLimitResult, error) {
	windowSeconds := int64(r.window.Seconds())
	if windowSeconds < 1 {
		windowSeconds = 1
	}
	key := fmt.Sprintf("ro5:rate_limit:%s:%d", clientID, time.Now().Unix()/windowSeconds)

	result, err := r.client.Eval(ctx, rateLimitScript, []string{key}, r.maxRequests, windowSeconds).Result()
	if err != nil {
		return nil, fmt.Errorf("限流检查失败: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("限流脚本返回格式错误: %v", result)
	}
	allowed := values[0].(int64) == 1
	current := int(values[1].(int64))
	ttl := values[2].(int64)

	return newResult(allowed, r.maxRequests, current, time.Now().Add(time.Duration(ttl)*time.Second)), nil
}

// MemoryRateLimiter 进程内限流器，未配置 Redis 时使用
type MemoryRateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	counters    map[string]*windowCounter
	nextSweep   time.Time
	now         func() time.Time
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

// NewMemoryRateLimiter 创建进程内限流器
func NewMemoryRateLimiter(maxRequests int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		maxRequests: maxRequests,
		window:      window,
		counters:    make(map[string]*windowCounter),
		now:         time.Now,
	}
}

// Allow 检查客户端是否超过限流
func (m *MemoryRateLimiter) Allow(_ context.Context, clientID string) (*RateLimitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// 每个窗口最多清理一次已过期的客户端计数
	if !now.Before(m.nextSweep) {
		m.evictExpired(now)
		m.nextSweep = now.Add(m.window)
	}

	counter, ok := m.counters[clientID]
	if !ok || !now.Before(counter.resetAt) {
		counter = &windowCounter{resetAt: now.Add(m.window)}
		m.counters[clientID] = counter
	}
	if counter.count >= m.maxRequests {
		return newResult(false, m.maxRequests, counter.count, counter.resetAt), nil
	}
	counter.count++
	return newResult(true, m.maxRequests, counter.count, counter.resetAt), nil
}

func (m *MemoryRateLimiter) evictExpired(now time.Time) {
	for id, counter := range m.counters {
		if !now.Before(counter.resetAt) {
			delete(m.counters, id)
		}
	}
}

func newResult(allowed bool, limit, current int, resetAt time.Time) *RateLimitResult {
	remaining := limit - current
	if remaining < 0 {
		remaining = 0
	}
	return &RateLimitResult{Allowed: allowed, Limit: limit, Remaining: remaining, ResetAt: resetAt.Unix()}
}

// Middleware 按客户端地址限流的 HTTP 中间件
func Middleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.Allow(r.Context(), clientAddr(r))
			if err != nil {
				slog.Warn("限流检查失败，放行请求", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))
			if !result.Allowed {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]interface{}{
					"status": http.StatusTooManyRequests,
					"msg":    "请求过于频繁，请稍后重试",
					"data":   result,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
