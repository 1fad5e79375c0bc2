/*
 * @module service/init
 * @description 服务初始化模块，负责数据来源、缓存、筛选服务与调度器的装配
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/screening.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules Redis 不可用时降级为不缓存、进程内锁与进程内限流
 * @dependencies service/compound, service/dataset, service/cache
 * @refs service/config.go
 */

package service

import (
	"log/slog"
	"time"

	"ro5-service/logger"
	"ro5-service/service/cache"
	"ro5-service/service/compound"
	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
	"ro5-service/service/distributed_lock"
	"ro5-service/service/rate_limiter"
	"ro5-service/service/scheduler"

	"github.com/go-redis/redis/v8"
)

var (
	GlobalConfig           Config
	GlobalCompoundService  *compound.Service
	GlobalSchedulerService *scheduler.SchedulerService
	GlobalRateLimiter      rate_limiter.Limiter
)

func init() {
	logger.InitLogger()
	GlobalConfig = LoadConfig()
	initServices(GlobalConfig)
}

// initServices 初始化服务
func initServices(cfg Config) {
	source, err := dataset.GetGlobalRegistry().Create(cfg.Dataset)
	if err != nil {
		// 数据来源配置错误时仍启动，筛选接口返回数据来源不可用
		slog.Error("数据来源初始化失败", "type", cfg.Dataset.Type, "error", err)
	}

	var client *redis.Client
	if cfg.RedisEnabled {
		client, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			slog.Warn("Redis不可用，降级为不缓存", "error", err)
			client = nil
		}
	}

	var c cache.Cache = cache.Nop{}
	var lock distributed_lock.DistributedLock = distributed_lock.NewLocalLock()
	if client != nil {
		c = cache.NewRedisCache(client, cfg.CacheTTL)
		lock = distributed_lock.NewRedisLock(client)
	}

	if cfg.RateLimitPerMinute > 0 {
		if client != nil {
			GlobalRateLimiter = rate_limiter.NewRedisRateLimiter(client, cfg.RateLimitPerMinute, time.Minute)
		} else {
			GlobalRateLimiter = rate_limiter.NewMemoryRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		}
	}

	GlobalCompoundService = compound.NewService(source, descriptor.NewToolkitCalculator(), c, cfg.Workers)

	GlobalSchedulerService = scheduler.NewSchedulerService(GlobalCompoundService, lock, cfg.RefreshCron)
	if err := GlobalSchedulerService.Start(); err != nil {
		slog.Error("启动调度器服务失败", "error", err)
	}

	slog.Info("服务初始化完成",
		"source", GlobalCompoundService.SourceDescription(),
		"workers", cfg.Workers,
		"redis", client != nil,
		"refresh_cron", cfg.RefreshCron)
}
