/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和化合物数据工厂
 * @documentReference dev_docs/screening.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify
 * @refs service/dataset
 */

package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DrugRecord 测试用药物记录
type DrugRecord struct {
	Name   string
	Smiles string
}

// DrugOption 药物记录选项函数类型
type DrugOption func(*DrugRecord)

// WithSmiles 指定结构编码，空字符串表示缺失
func WithSmiles(smiles string) DrugOption {
	return func(d *DrugRecord) {
		d.Smiles = smiles
	}
}

// NewDrug 创建测试药物记录，默认结构为阿司匹林
func NewDrug(name string, opts ...DrugOption) DrugRecord {
	drug := DrugRecord{Name: name, Smiles: "CC(=O)OC1=CC=CC=C1C(=O)O"}
	for _, opt := range opts {
		opt(&drug)
	}
	return drug
}

// DefaultDrugs 常用药物样例：两个满足五规则，一个缺失编码
func DefaultDrugs() []DrugRecord {
	return []DrugRecord{
		NewDrug("Aspirin"),
		NewDrug("Ethanol", WithSmiles("CCO")),
		NewDrug("Missing", WithSmiles("")),
	}
}

// DrugsTSV 生成 generic_name/smiles 两列的制表符分隔文本
func DrugsTSV(drugs ...DrugRecord) string {
	var b strings.Builder
	b.WriteString("generic_name\tsmiles\n")
	for _, d := range drugs {
		fmt.Fprintf(&b, "%s\t%s\n", d.Name, d.Smiles)
	}
	return b.String()
}

// WriteDatasetFile 将数据集内容写入临时文件并返回路径
func WriteDatasetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drugs.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// NewDatasetServer 启动返回固定数据集内容的 HTTP 服务
func NewDatasetServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(server.Close)
	return server
}

// NewTestDB 创建内存 sqlite 测试数据库，测试结束时关闭
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库按连接隔离，固定单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedDrugsTable 建表并写入药物记录，空结构编码写为 NULL
func SeedDrugsTable(t *testing.T, db *gorm.DB, table string, drugs ...DrugRecord) {
	t.Helper()
	require.NoError(t, db.Exec(fmt.Sprintf(`CREATE TABLE %s (generic_name TEXT, smiles TEXT)`, table)).Error)
	for _, d := range drugs {
		var smiles interface{}
		if d.Smiles != "" {
			smiles = d.Smiles
		}
		require.NoError(t, db.Exec(fmt.Sprintf(`INSERT INTO %s (generic_name, smiles) VALUES (?, ?)`, table), d.Name, smiles).Error)
	}
}
