/*
 * @module service/metrics
 * @description 筛选服务 Prometheus 指标
 * @architecture 包级指标注册，经 /metrics 暴露
 * @documentReference dev_docs/screening.md
 * @rules 标签取值为有限集合
 * @dependencies github.com/prometheus/client_golang
 * @refs service/compound, main.go
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 筛选结果标签
const (
	ResultSuccess     = "success"
	ResultParseError  = "parse_error"
	ResultUnavailable = "source_unavailable"
	ResultError       = "error"
)

var (
	// ScreeningRuns 筛选运行次数
	ScreeningRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ro5_screening_runs_total",
		Help: "Total screening runs by result",
	}, []string{"result"})

	// ScreeningDuration 筛选耗时
	ScreeningDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ro5_screening_duration_seconds",
		Help:    "Screening run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~30s
	})

	// CompoundsMatched 最近一次筛选通过的化合物数
	CompoundsMatched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ro5_compounds_matched",
		Help: "Compounds admitted by the most recent screening run",
	})

	// DescriptorComputations 描述符计算的化合物数
	DescriptorComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ro5_descriptor_computations_total",
		Help: "Total compounds whose descriptors were computed",
	})

	// CacheLookups 增广结果缓存查询
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ro5_cache_lookups_total",
		Help: "Augmented table cache lookups by outcome",
	}, []string{"outcome"}) // hit / miss / error

	// DatasetRefreshes 数据集定时刷新
	DatasetRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ro5_dataset_refreshes_total",
		Help: "Scheduled dataset refreshes by result",
	}, []string{"result"}) // success / error / skipped
)
