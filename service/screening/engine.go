/*
 * @module service/screening/engine
 * @description 筛选排序引擎：为化合物表附加描述符，按四个阈值筛选，投影并按分子量降序排列
 * @architecture 纯函数管道 - 增广 -> 选择 -> 投影 -> 排序
 * @documentReference dev_docs/screening.md
 * @stateFlow 原始表 -> 增广表 -> 结果集，不保留任何调用间状态
 * @rules
 *   - 四个比较均为闭区间(<=)
 *   - 结构编码为空的记录在增广前剔除，不参与计算
 *   - 任一记录解析失败即整体失败，不返回部分结果
 *   - 描述符计算后原样传递到结果集
 * @dependencies golang.org/x/sync/errgroup
 * @refs service/descriptor, service/models/compound.go
 */

package screening

import (
	"context"
	"fmt"
	"sort"

	"ro5-service/service/descriptor"
	"ro5-service/service/models"

	"golang.org/x/sync/errgroup"
)

// Options 引擎选项
type Options struct {
	// Workers 并行计算描述符的协程数，<=1 时顺序执行
	Workers int
}

// Option 引擎选项函数
type Option func(*Options)

// WithWorkers 设置并行度
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FilterCompounds 计算描述符并筛选、排序
func FilterCompounds(ctx context.Context, table *models.CompoundTable, thresholds models.Thresholds, calc descriptor.Calculator, opts ...Option) (*models.ResultSet, error) {
	augmented, err := Augment(ctx, table, calc, opts...)
	if err != nil {
		return nil, err
	}
	return Select(augmented, thresholds), nil
}

// Augment 为每条有结构编码的记录计算描述符，结果保持源表顺序
func Augment(ctx context.Context, table *models.CompoundTable, calc descriptor.Calculator, opts ...Option) ([]models.AugmentedCompound, error) {
	if table.Len() == 0 {
		return []models.AugmentedCompound{}, nil
	}

	records := make([]models.CompoundRecord, 0, table.Len())
	for _, rec := range table.Records {
		if rec.HasEncoding() {
			records = append(records, rec)
		}
	}

	out := make([]models.AugmentedCompound, len(records))
	o := buildOptions(opts)
	if o.Workers <= 1 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			set, err := describe(calc, rec)
			if err != nil {
				return nil, err
			}
			out[i] = models.AugmentedCompound{CompoundRecord: rec, Descriptors: set}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := describe(calc, rec)
			if err != nil {
				return err
			}
			// 每个协程只写自己的槽位
			out[i] = models.AugmentedCompound{CompoundRecord: rec, Descriptors: set}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func describe(calc descriptor.Calculator, rec models.CompoundRecord) (models.DescriptorSet, error) {
	set, err := descriptor.Compute(calc, rec.Smiles)
	if err != nil {
		return models.DescriptorSet{}, fmt.Errorf("化合物 %q 描述符计算失败: %w", rec.Name, err)
	}
	return set, nil
}

// Select 按阈值选择、投影并按分子量降序排序（分子量相同时保持源表顺序）
func Select(augmented []models.AugmentedCompound, thresholds models.Thresholds) *models.ResultSet {
	rows := make([]models.ResultRow, 0, len(augmented))
	for _, c := range augmented {
		if !c.HasEncoding() || !thresholds.Admits(c.Descriptors) {
			continue
		}
		rows = append(rows, models.ResultRow{
			GenericName: c.Name,
			MW:          c.Descriptors.MW,
			LogP:        c.Descriptors.LogP,
			HDonors:     c.Descriptors.HDonors,
			HAcceptors:  c.Descriptors.HAcceptors,
			Smiles:      c.Smiles,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MW > rows[j].MW
	})

	return &models.ResultSet{
		Columns: append([]string(nil), models.ResultColumns...),
		Rows:    rows,
	}
}
