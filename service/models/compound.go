/*
 * @module service/models/compound
 * @description 化合物筛选数据模型，包括化合物记录、描述符集合、阈值配置和筛选结果
 * @architecture 数据模型层
 * @documentReference dev_docs/screening.md
 * @stateFlow 原始表 -> 增广表(附加描述符) -> 结果集
 * @rules 描述符计算后只读，结果集只包含名称、四个描述符与SMILES
 * @dependencies encoding/json
 * @refs service/screening, service/descriptor
 */

package models

import (
	"strings"
	"time"
)

// 数据集默认列名，与 drugs.txt 表头一致
const (
	DefaultNameColumn   = "generic_name"
	DefaultSmilesColumn = "smiles"
)

// JSONB 通用键值字段
type JSONB map[string]interface{}

// CompoundRecord 化合物记录（源数据表中的一行）
type CompoundRecord struct {
	Name   string `json:"generic_name"`
	Smiles string `json:"smiles"`
	// Fields 其余源数据列，核心流程不使用
	Fields JSONB `json:"fields,omitempty"`
}

// HasEncoding 结构编码是否存在
func (c CompoundRecord) HasEncoding() bool {
	return strings.TrimSpace(c.Smiles) != ""
}

// CompoundTable 化合物数据表
type CompoundTable struct {
	Columns []string         `json:"columns"`
	Records []CompoundRecord `json:"records"`
}

// Len 记录数
func (t *CompoundTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// DescriptorSet 分子描述符集合
type DescriptorSet struct {
	MW         float64 `json:"MW" example:"180.042259"`
	LogP       float64 `json:"LogP" example:"1.3101"`
	HDonors    int     `json:"HDonors" example:"1"`
	HAcceptors int     `json:"HAcceptors" example:"3"`
}

// AugmentedCompound 附加了描述符的化合物记录
type AugmentedCompound struct {
	CompoundRecord
	Descriptors DescriptorSet `json:"descriptors"`
}

// Thresholds 四个描述符的上限（均为闭区间）
type Thresholds struct {
	MolWeight  float64 `json:"mol_weight" example:"500"`
	LogP       float64 `json:"logp" example:"5"`
	HDonors    int     `json:"hdonors" example:"5"`
	HAcceptors int     `json:"hacceptors" example:"10"`
}

// Admits 描述符是否全部满足阈值
func (t Thresholds) Admits(d DescriptorSet) bool {
	return d.MW <= t.MolWeight &&
		d.LogP <= t.LogP &&
		d.HDonors <= t.HDonors &&
		d.HAcceptors <= t.HAcceptors
}

// ResultRow 筛选结果行
type ResultRow struct {
	GenericName string  `json:"generic_name" example:"Aspirin"`
	MW          float64 `json:"MW" example:"180.042259"`
	LogP        float64 `json:"LogP" example:"1.3101"`
	HDonors     int     `json:"HDonors" example:"1"`
	HAcceptors  int     `json:"HAcceptors" example:"3"`
	Smiles      string  `json:"smiles" example:"CC(=O)Oc1ccccc1C(=O)O"`
}

// ResultColumns 结果集列顺序
var ResultColumns = []string{"generic_name", "MW", "LogP", "HDonors", "HAcceptors", "smiles"}

// ResultSet 按分子量降序排列的筛选结果
type ResultSet struct {
	Columns []string    `json:"columns"`
	Rows    []ResultRow `json:"rows"`
}

// Len 结果行数
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ScreeningResult 一次筛选运行的结果
type ScreeningResult struct {
	RunID      string        `json:"run_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Source     string        `json:"source" example:"https://www.cureffi.org/wp-content/uploads/2013/10/drugs.txt"`
	Thresholds Thresholds    `json:"thresholds"`
	Total      int           `json:"total" example:"1200"`
	Matched    int           `json:"matched" example:"830"`
	CacheHit   bool          `json:"cache_hit"`
	Duration   time.Duration `json:"duration" swaggertype:"integer"`
	Result     *ResultSet    `json:"result"`
}
