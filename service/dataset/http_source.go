/*
 * @module service/dataset/http_source
 * @description 通过 HTTP 获取远程分隔符文本数据集
 * @architecture 适配器模式 - HTTP 客户端 + 表解析
 * @documentReference dev_docs/screening.md
 * @stateFlow GET 请求 -> 状态码校验 -> 字符集解码 -> 表解析
 * @rules 非 2xx 响应、网络错误与解析错误均视为数据来源不可用
 * @dependencies net/http
 * @refs delimited.go
 */

package dataset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ro5-service/service/models"
)

// 默认下载超时
const DefaultHTTPTimeout = 60 * time.Second

// HTTPSource 远程数据集
type HTTPSource struct {
	url     string
	options TableOptions
	client  *http.Client
}

// NewHTTPSource 创建远程数据来源
func NewHTTPSource(url string, options TableOptions, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPSource{
		url:     url,
		options: options,
		client:  &http.Client{Timeout: timeout},
	}
}

// Describe 数据来源描述
func (s *HTTPSource) Describe() string {
	return s.url
}

// Load 下载并解析数据集
func (s *HTTPSource) Load(ctx context.Context) (*models.CompoundTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, unavailable(s.url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable(s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, unavailable(s.url, fmt.Errorf("HTTP状态码 %d", resp.StatusCode))
	}

	table, err := ParseTable(resp.Body, s.options)
	if err != nil {
		return nil, unavailable(s.url, err)
	}
	return table, nil
}
