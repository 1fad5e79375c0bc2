/*
 * @module service/compound/service
 * @description 化合物筛选服务：读取数据集、复用或计算增广表、按阈值筛选并记录指标
 * @architecture 服务层 - 组合数据来源、描述符计算器、缓存与筛选引擎
 * @documentReference dev_docs/screening.md
 * @stateFlow 读取数据集 -> 内容摘要 -> 缓存命中/重新增广 -> 筛选排序 -> 结果
 * @rules
 *   - 每次筛选都重新读取数据集，缓存只复用描述符计算结果
 *   - 缓存故障只记录日志，不影响筛选结果
 *   - 计算器不提供版本号时不使用缓存
 * @dependencies github.com/google/uuid, log/slog
 * @refs service/screening, service/dataset, service/cache, service/metrics
 */

package compound

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ro5-service/service/cache"
	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
	"ro5-service/service/metrics"
	"ro5-service/service/models"
	"ro5-service/service/screening"

	"github.com/google/uuid"
)

// RequestSource 调用方直接提交数据表时的来源标识
const RequestSource = "request"

// versioned 带版本号的计算器，版本号参与缓存键
type versioned interface {
	Version() string
}

// Service 化合物筛选服务
type Service struct {
	source  dataset.Source
	calc    descriptor.Calculator
	cache   cache.Cache
	workers int
}

// NewService 创建筛选服务，c 为 nil 时不缓存
func NewService(source dataset.Source, calc descriptor.Calculator, c cache.Cache, workers int) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{source: source, calc: calc, cache: c, workers: workers}
}

// SourceDescription 当前数据来源描述
func (s *Service) SourceDescription() string {
	if s.source == nil {
		return ""
	}
	return s.source.Describe()
}

// Screen 读取配置的数据集并按阈值筛选
func (s *Service) Screen(ctx context.Context, thresholds models.Thresholds) (*models.ScreeningResult, error) {
	start := time.Now()
	if s.source == nil {
		err := &dataset.SourceUnavailableError{Source: "", Err: errors.New("未配置数据来源")}
		s.observe(start, err)
		return nil, err
	}

	table, err := s.source.Load(ctx)
	if err != nil {
		s.observe(start, err)
		slog.Error("数据集读取失败", "source", s.source.Describe(), "error", err)
		return nil, err
	}
	return s.screen(ctx, s.source.Describe(), table, thresholds, start)
}

// ScreenTable 对调用方提交的数据表筛选
func (s *Service) ScreenTable(ctx context.Context, table *models.CompoundTable, thresholds models.Thresholds) (*models.ScreeningResult, error) {
	return s.screen(ctx, RequestSource, table, thresholds, time.Now())
}

// Warm 预先计算配置数据集的增广表并写入缓存，返回参与计算的记录数
func (s *Service) Warm(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, &dataset.SourceUnavailableError{Err: errors.New("未配置数据来源")}
	}
	table, err := s.source.Load(ctx)
	if err != nil {
		return 0, err
	}
	augmented, hit, err := s.augment(ctx, table)
	if err != nil {
		return 0, err
	}
	slog.Info("增广表预热完成", "source", s.source.Describe(), "records", len(augmented), "cache_hit", hit)
	return len(augmented), nil
}

// Describe 计算单个结构编码的描述符
func (s *Service) Describe(encoding string) (models.DescriptorSet, error) {
	return descriptor.Compute(s.calc, encoding)
}

func (s *Service) screen(ctx context.Context, source string, table *models.CompoundTable, thresholds models.Thresholds, start time.Time) (*models.ScreeningResult, error) {
	augmented, hit, err := s.augment(ctx, table)
	if err != nil {
		s.observe(start, err)
		slog.Error("描述符计算失败", "source", source, "error", err)
		return nil, err
	}

	resultSet := screening.Select(augmented, thresholds)
	result := &models.ScreeningResult{
		RunID:      uuid.New().String(),
		Source:     source,
		Thresholds: thresholds,
		Total:      table.Len(),
		Matched:    resultSet.Len(),
		CacheHit:   hit,
		Duration:   time.Since(start),
		Result:     resultSet,
	}

	s.observe(start, nil)
	metrics.CompoundsMatched.Set(float64(result.Matched))
	slog.Info("筛选完成",
		"run_id", result.RunID,
		"source", source,
		"total", result.Total,
		"matched", result.Matched,
		"cache_hit", hit,
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// augment 优先从缓存读取增广表，未命中时计算并写回
func (s *Service) augment(ctx context.Context, table *models.CompoundTable) ([]models.AugmentedCompound, bool, error) {
	key := s.cacheKey(table)
	if key != "" {
		cached, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.CacheLookups.WithLabelValues("error").Inc()
			slog.Warn("读取增广表缓存失败，重新计算", "error", err)
		case found:
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, true, nil
		default:
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	augmented, err := screening.Augment(ctx, table, s.calc, screening.WithWorkers(s.workers))
	if err != nil {
		return nil, false, err
	}
	metrics.DescriptorComputations.Add(float64(len(augmented)))

	if key != "" {
		if err := s.cache.Put(ctx, key, augmented); err != nil {
			slog.Warn("写入增广表缓存失败", "error", err)
		}
	}
	return augmented, false, nil
}

func (s *Service) cacheKey(table *models.CompoundTable) string {
	v, ok := s.calc.(versioned)
	if !ok || table.Len() == 0 {
		return ""
	}
	return cache.Key(cache.ContentHash(table), v.Version())
}

func (s *Service) observe(start time.Time, err error) {
	metrics.ScreeningDuration.Observe(time.Since(start).Seconds())
	metrics.ScreeningRuns.WithLabelValues(ResultLabel(err)).Inc()
}

// ResultLabel 错误分类，用于指标与接口状态码
func ResultLabel(err error) string {
	var unavailableErr *dataset.SourceUnavailableError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case descriptor.IsParseError(err):
		return metrics.ResultParseError
	case errors.As(err, &unavailableErr):
		return metrics.ResultUnavailable
	default:
		return metrics.ResultError
	}
}
