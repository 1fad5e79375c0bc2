package dataset

import (
	"context"
	"os"

	"ro5-service/service/models"
)

// FileSource 本地文件数据集
type FileSource struct {
	path    string
	options TableOptions
}

// NewFileSource 创建本地文件数据来源
func NewFileSource(path string, options TableOptions) *FileSource {
	return &FileSource{path: path, options: options}
}

// Describe 数据来源描述
func (s *FileSource) Describe() string {
	return "file://" + s.path
}

// Load 读取并解析本地文件
func (s *FileSource) Load(ctx context.Context) (*models.CompoundTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	defer f.Close()

	table, err := ParseTable(f, s.options)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	return table, nil
}
