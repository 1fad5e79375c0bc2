/*
 * @module service/dataset/sql_source
 * @description 从关系数据库表读取化合物数据集
 * @architecture 适配器模式 - gorm 连接 + 行扫描
 * @documentReference dev_docs/screening.md
 * @stateFlow 打开连接 -> SELECT * -> 逐行转换为化合物记录
 * @rules
 *   - 表名按标识符规则引用，支持 schema.table
 *   - 单元格统一经 cast 转换为字符串，NULL 视为缺失值
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite, github.com/lib/pq, github.com/spf13/cast
 * @refs delimited.go
 */

package dataset

import (
	"context"
	"fmt"
	"strings"

	"ro5-service/service/models"

	"github.com/lib/pq"
	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 支持的数据库驱动
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLSource 数据库表数据集
type SQLSource struct {
	db      *gorm.DB
	table   string
	options TableOptions
}

// NewSQLSource 基于已有连接创建数据来源
func NewSQLSource(db *gorm.DB, table string, options TableOptions) *SQLSource {
	return &SQLSource{db: db, table: table, options: options.withDefaults()}
}

// OpenSQLSource 按驱动与连接串打开数据库并创建数据来源
func OpenSQLSource(driver, dsn, table string, options TableOptions) (*SQLSource, error) {
	if dsn == "" {
		return nil, fmt.Errorf("数据库数据来源缺少连接串")
	}
	if table == "" {
		return nil, fmt.Errorf("数据库数据来源缺少表名")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", DriverPostgres, "postgresql":
		dialector = postgres.Open(dsn)
	case DriverSQLite, "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, unavailable(table, err)
	}
	return NewSQLSource(db, table, options), nil
}

// Describe 数据来源描述
func (s *SQLSource) Describe() string {
	return "sql:" + s.table
}

// Load 读取整张表
func (s *SQLSource) Load(ctx context.Context) (*models.CompoundTable, error) {
	rows, err := s.db.WithContext(ctx).Raw("SELECT * FROM " + QuoteTable(s.table)).Rows()
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	nameIdx, smilesIdx := indexOf(columns, s.options.NameColumn), indexOf(columns, s.options.SmilesColumn)
	if nameIdx < 0 || smilesIdx < 0 {
		return nil, unavailable(s.Describe(), fmt.Errorf("表缺少列 %q 或 %q", s.options.NameColumn, s.options.SmilesColumn))
	}

	table := &models.CompoundTable{Columns: columns, Records: []models.CompoundRecord{}}
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, unavailable(s.Describe(), err)
		}
		cells := make([]string, len(columns))
		for i, v := range values {
			cells[i] = cellString(v)
		}
		if rec, ok := buildRecord(columns, cells, nameIdx, smilesIdx, s.options.DropIncomplete); ok {
			table.Records = append(table.Records, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	return table, nil
}

// Close 关闭底层连接
func (s *SQLSource) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return cast.ToString(v)
}

// QuoteTable 引用表名，支持 schema.table 形式
func QuoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
