/**
 * @module SchedulerService
 * @description 数据集刷新调度器，定时重新读取数据集并预热增广表缓存
 * @architecture 基于cron库的调度器模式
 * @documentReference dev_docs/screening.md
 * @stateFlow 调度触发 -> 获取分布式锁 -> 预热 -> 释放锁 -> 记录状态
 * @rules
 *   - Cron表达式包含秒字段，为空时不启动调度
 *   - 多实例部署时同一时刻只有一个实例执行刷新
 *   - 刷新失败只记录日志与指标，不影响筛选接口
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/compound/service.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ro5-service/service/distributed_lock"
	"ro5-service/service/metrics"
)

const (
	refreshLockKey = "dataset_refresh"
	// DefaultRefreshTimeout 单次刷新超时
	DefaultRefreshTimeout = 10 * time.Minute
)

// Warmer 可预热的筛选服务
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// RefreshStatus 最近一次刷新状态
type RefreshStatus struct {
	Spec      string     `json:"spec"`
	Running   bool       `json:"running"`
	Runs      int        `json:"runs"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Records   int        `json:"records"`
	LastError string     `json:"last_error,omitempty"`
}

// SchedulerService 调度器服务
type SchedulerService struct {
	warmer   Warmer
	executor *distributed_lock.LockExecutor
	spec     string
	timeout  time.Duration
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	status RefreshStatus
}

// NewSchedulerService 创建调度器服务
func NewSchedulerService(warmer Warmer, lock distributed_lock.DistributedLock, spec string) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	if lock == nil {
		lock = distributed_lock.NewLocalLock()
	}
	return &SchedulerService{
		warmer:   warmer,
		executor: distributed_lock.NewLockExecutor(lock),
		spec:     spec,
		timeout:  DefaultRefreshTimeout,
		cron:     cron.New(cron.WithSeconds()),
		ctx:      ctx,
		cancel:   cancel,
		status:   RefreshStatus{Spec: spec},
	}
}

// Start 启动调度器
func (s *SchedulerService) Start() error {
	if s.spec == "" {
		slog.Info("未配置数据集刷新计划，跳过调度器启动")
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(s.ctx); err != nil {
			slog.Error("数据集定时刷新失败", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("无效的刷新计划 %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("数据集刷新调度器启动完成", "spec", s.spec)
	return nil
}

// Stop 停止调度器并等待正在执行的刷新结束
func (s *SchedulerService) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("数据集刷新调度器已停止")
}

// RunOnce 在锁保护下执行一次刷新
func (s *SchedulerService) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var records int
	ran, err := s.executor.ExecuteWithLock(ctx, refreshLockKey, s.timeout, func() error {
		s.setRunning(true)
		defer s.setRunning(false)

		n, err := s.warmer.Warm(ctx)
		records = n
		return err
	})

	switch {
	case !ran && err == nil:
		metrics.DatasetRefreshes.WithLabelValues("skipped").Inc()
		slog.Debug("其他实例正在刷新数据集，跳过")
		return nil
	case err != nil:
		metrics.DatasetRefreshes.WithLabelValues("error").Inc()
	default:
		metrics.DatasetRefreshes.WithLabelValues("success").Inc()
	}

	s.record(records, err)
	return err
}

// Status 刷新状态
func (s *SchedulerService) Status() RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SchedulerService) setRunning(running bool) {
	s.mu.Lock()
	s.status.Running = running
	s.mu.Unlock()
}

func (s *SchedulerService) record(records int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.status.Runs++
	s.status.LastRunAt = &now
	s.status.Records = records
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
}
