/*
 * @module service/cache/cache
 * @description 增广结果缓存：以数据集内容摘要与计算器版本为键保存描述符计算结果
 * @architecture 接口隔离 - Redis 实现 + 空实现
 * @documentReference dev_docs/screening.md
 * @stateFlow 内容摘要 -> 查询缓存 -> 未命中则计算并写回
 * @rules
 *   - 缓存只保存增广结果，阈值筛选每次重新执行
 *   - 缓存故障不影响筛选结果，只退化为重新计算
 * @dependencies crypto/sha256
 * @refs redis_cache.go, service/compound
 */

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"ro5-service/service/models"
)

// KeyPrefix 缓存键前缀
const KeyPrefix = "ro5:augmented"

// Cache 增广结果缓存
type Cache interface {
	// Get 读取缓存，未命中时 found 为 false
	Get(ctx context.Context, key string) (augmented []models.AugmentedCompound, found bool, err error)
	// Put 写入缓存
	Put(ctx context.Context, key string, augmented []models.AugmentedCompound) error
}

// Nop 不缓存任何内容
type Nop struct{}

func (Nop) Get(context.Context, string) ([]models.AugmentedCompound, bool, error) {
	return nil, false, nil
}

func (Nop) Put(context.Context, string, []models.AugmentedCompound) error {
	return nil
}

// ContentHash 计算数据表内容摘要，仅与参与计算的名称和结构编码相关
func ContentHash(table *models.CompoundTable) string {
	h := sha256.New()
	if table != nil {
		for _, rec := range table.Records {
			h.Write([]byte(rec.Name))
			h.Write([]byte{0})
			h.Write([]byte(rec.Smiles))
			h.Write([]byte{'\n'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Key 缓存键
func Key(contentHash, calculatorVersion string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, contentHash, calculatorVersion)
}
