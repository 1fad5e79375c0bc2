/*
 * @module service/dataset/source
 * @description 化合物数据集来源统一接口与注册中心
 * @architecture 接口隔离 + 注册中心模式 - 按类型创建数据来源
 * @documentReference dev_docs/screening.md
 * @stateFlow 配置 -> 创建数据来源 -> Load 读取完整表
 * @rules 所有读取/解析失败统一包装为 *SourceUnavailableError，不做重试
 * @dependencies context, sync
 * @refs http_source.go, file_source.go, sql_source.go, delimited.go
 */

package dataset

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ro5-service/service/models"
)

// 数据来源类型
const (
	SourceTypeHTTP = "http"
	SourceTypeFile = "file"
	SourceTypeSQL  = "sql"
)

// 默认数据集：FDA 批准药物表
const DefaultDatasetURL = "https://www.cureffi.org/wp-content/uploads/2013/10/drugs.txt"

// Source 化合物数据来源
type Source interface {
	// Load 读取完整数据表
	Load(ctx context.Context) (*models.CompoundTable, error)
	// Describe 数据来源描述，用于日志与结果标识
	Describe() string
}

// SourceUnavailableError 数据来源不可达或无法解析
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("数据来源 %s 不可用: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(source string, err error) error {
	return &SourceUnavailableError{Source: source, Err: err}
}

// Config 数据来源配置
type Config struct {
	Type           string        `json:"type"`
	URL            string        `json:"url,omitempty"`
	Path           string        `json:"path,omitempty"`
	Format         string        `json:"format"`
	Charset        string        `json:"charset,omitempty"`
	NameColumn     string        `json:"name_column"`
	SmilesColumn   string        `json:"smiles_column"`
	DropIncomplete bool          `json:"drop_incomplete"`
	Timeout        time.Duration `json:"timeout"`
	SQLDriver      string        `json:"sql_driver,omitempty"`
	SQLDSN         string        `json:"-"`
	SQLTable       string        `json:"sql_table,omitempty"`
}

// TableOptions 表解析选项
func (c Config) TableOptions() TableOptions {
	return TableOptions{
		Format:         c.Format,
		Charset:        c.Charset,
		NameColumn:     c.NameColumn,
		SmilesColumn:   c.SmilesColumn,
		DropIncomplete: c.DropIncomplete,
	}
}

// SourceCreator 数据来源构造函数
type SourceCreator func(cfg Config) (Source, error)

// Registry 数据来源注册中心
type Registry struct {
	mu       sync.RWMutex
	creators map[string]SourceCreator
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetGlobalRegistry 获取全局注册中心
func GetGlobalRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry 创建注册中心并注册内置类型
func NewRegistry() *Registry {
	r := &Registry{creators: make(map[string]SourceCreator)}
	r.creators[SourceTypeHTTP] = func(cfg Config) (Source, error) {
		if cfg.URL == "" {
			return nil, fmt.Errorf("HTTP数据来源缺少URL")
		}
		return NewHTTPSource(cfg.URL, cfg.TableOptions(), cfg.Timeout), nil
	}
	r.creators[SourceTypeFile] = func(cfg Config) (Source, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("文件数据来源缺少路径")
		}
		return NewFileSource(cfg.Path, cfg.TableOptions()), nil
	}
	r.creators[SourceTypeSQL] = func(cfg Config) (Source, error) {
		source, err := OpenSQLSource(cfg.SQLDriver, cfg.SQLDSN, cfg.SQLTable, cfg.TableOptions())
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	return r
}

// RegisterType 注册数据来源类型
func (r *Registry) RegisterType(sourceType string, creator SourceCreator) error {
	if sourceType == "" {
		return fmt.Errorf("数据来源类型不能为空")
	}
	if creator == nil {
		return fmt.Errorf("数据来源 %s 的构造函数不能为空", sourceType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creators[sourceType] = creator
	return nil
}

// Create 按配置创建数据来源
func (r *Registry) Create(cfg Config) (Source, error) {
	r.mu.RLock()
	creator, ok := r.creators[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("不支持的数据来源类型: %s", cfg.Type)
	}
	return creator(cfg)
}

// SupportedTypes 已注册的数据来源类型
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.creators))
	for t := range r.creators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
