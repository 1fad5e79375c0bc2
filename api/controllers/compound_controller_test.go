/*
 * @module api/controllers/compound_controller_test
 * @description 化合物筛选控制器单元测试
 * @architecture 测试层
 * @documentReference dev_docs/screening.md
 * @stateFlow 测试准备 -> 请求构建 -> 响应验证
 * @rules 覆盖参数解析、错误码映射与输出格式
 * @dependencies testing, net/http/httptest, stretchr/testify
 */

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ro5-service/service/compound"
	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
	"ro5-service/service/models"
	"ro5-service/service/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	table *models.CompoundTable
	err   error
}

func (s staticSource) Load(context.Context) (*models.CompoundTable, error) { return s.table, s.err }
func (s staticSource) Describe() string                                     { return "static://drugs" }

func drugsTable(extra ...models.CompoundRecord) *models.CompoundTable {
	return &models.CompoundTable{
		Columns: []string{models.DefaultNameColumn, models.DefaultSmilesColumn},
		Records: append([]models.CompoundRecord{
			{Name: "Aspirin", Smiles: "CC(=O)OC1=CC=CC=C1C(=O)O"},
			{Name: "Ethanol", Smiles: "CCO"},
			{Name: "Tetracontane", Smiles: strings.Repeat("C", 40)},
			{Name: "Unknown", Smiles: ""},
		}, extra...),
	}
}

func newController(source dataset.Source) *CompoundController {
	return NewCompoundController(compound.NewService(source, descriptor.NewToolkitCalculator(), nil, 2))
}

// decodeResult 解析响应中的筛选结果
func decodeResult(t *testing.T, body *bytes.Buffer) (APIResponse, models.ScreeningResult) {
	var raw struct {
		Status int                    `json:"status"`
		Msg    string                 `json:"msg"`
		Data   models.ScreeningResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&raw))
	return APIResponse{Status: raw.Status, Msg: raw.Msg}, raw.Data
}

func TestScreenDataset(t *testing.T) {
	controller := newController(staticSource{table: drugsTable()})

	req := httptest.NewRequest(http.MethodGet, "/compounds/screen", nil)
	w := httptest.NewRecorder()
	controller.ScreenDataset(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp, result := decodeResult(t, w.Body)
	assert.Equal(t, 0, resp.Status)
	assert.Equal(t, compound.DefaultThresholds, result.Thresholds)
	assert.Equal(t, 4, result.Total)
	require.Equal(t, 2, result.Matched)
	assert.Equal(t, "Aspirin", result.Result.Rows[0].GenericName)
	assert.Equal(t, "Ethanol", result.Result.Rows[1].GenericName)
}

func TestScreenDataset_QueryThresholds(t *testing.T) {
	controller := newController(staticSource{table: drugsTable()})

	testCases := []struct {
		name    string
		query   string
		matched int
	}{
		{name: "放宽分子量", query: "mol_weight=1000&logp=100", matched: 3},
		{name: "收紧分子量", query: "mol_weight=100", matched: 1},
		{name: "供体为零", query: "hdonors=0", matched: 0},
		{name: "受体边界", query: "hacceptors=3", matched: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/compounds/screen?"+tc.query, nil)
			w := httptest.NewRecorder()
			controller.ScreenDataset(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			_, result := decodeResult(t, w.Body)
			assert.Equal(t, tc.matched, result.Matched)
		})
	}
}

func TestScreenDataset_TSV(t *testing.T) {
	controller := newController(staticSource{table: drugsTable()})

	req := httptest.NewRequest(http.MethodGet, "/compounds/screen?format=tsv", nil)
	w := httptest.NewRecorder()
	controller.ScreenDataset(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/tab-separated-values")
	assert.NotEmpty(t, w.Header().Get("X-Run-ID"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "generic_name\tMW\tLogP\tHDonors\tHAcceptors\tsmiles", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Aspirin\t"))
}

func TestScreenDataset_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		source dataset.Source
		query  string
		status int
	}{
		{name: "阈值格式错误", source: staticSource{table: drugsTable()}, query: "mol_weight=heavy", status: http.StatusBadRequest},
		{name: "供体数非整数", source: staticSource{table: drugsTable()}, query: "hdonors=2.5", status: http.StatusBadRequest},
		{name: "供体数为负小数", source: staticSource{table: drugsTable()}, query: "hdonors=-0.5", status: http.StatusBadRequest},
		{name: "受体数非整数", source: staticSource{table: drugsTable()}, query: "hacceptors=9.9", status: http.StatusBadRequest},
		{
			name:   "结构编码无法解析",
			source: staticSource{table: drugsTable(models.CompoundRecord{Name: "Broken", Smiles: "NOT_A_VALID_ENCODING"})},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "数据来源不可用",
			source: staticSource{err: &dataset.SourceUnavailableError{Source: "static://drugs", Err: errors.New("timeout")}},
			status: http.StatusBadGateway,
		},
		{name: "其他错误", source: staticSource{err: errors.New("boom")}, status: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/compounds/screen?"+tc.query, nil)
			w := httptest.NewRecorder()
			newController(tc.source).ScreenDataset(w, req)

			assert.Equal(t, tc.status, w.Code)
			var response APIResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tc.status, response.Status)
			assert.Nil(t, response.Data, "失败时不返回部分结果")
		})
	}
}

func TestParseThresholds(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected models.Thresholds
		wantErr  bool
	}{
		{name: "缺省使用默认值", query: "", expected: compound.DefaultThresholds},
		{
			name:     "全部指定",
			query:    "mol_weight=450.5&logp=-1.5&hdonors=3&hacceptors=%208",
			expected: models.Thresholds{MolWeight: 450.5, LogP: -1.5, HDonors: 3, HAcceptors: 8},
		},
		{name: "负整数", query: "hdonors=-1", expected: models.Thresholds{MolWeight: 500, LogP: 5, HDonors: -1, HAcceptors: 10}},
		{name: "小数供体数", query: "hdonors=2.5", wantErr: true},
		{name: "负小数供体数", query: "hdonors=-0.5", wantErr: true},
		{name: "整数写成小数", query: "hacceptors=10.0", wantErr: true},
		{name: "非数字分子量", query: "mol_weight=heavy", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/compounds/screen?"+tc.query, nil)
			thresholds, err := ParseThresholds(req)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, thresholds)
		})
	}
}

func TestScreenSubmitted(t *testing.T) {
	controller := newController(nil)

	body := `{"thresholds":{"mol_weight":100,"logp":5,"hdonors":5,"hacceptors":10},
		"compounds":[{"generic_name":"Ethanol","smiles":"CCO"},{"generic_name":"Aspirin","smiles":"CC(=O)OC1=CC=CC=C1C(=O)O"},{"generic_name":"Blank"}]}`
	req := httptest.NewRequest(http.MethodPost, "/compounds/screen", strings.NewReader(body))
	w := httptest.NewRecorder()
	controller.ScreenSubmitted(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, result := decodeResult(t, w.Body)
	assert.Equal(t, compound.RequestSource, result.Source)
	assert.Equal(t, 3, result.Total)
	require.Equal(t, 1, result.Matched)
	assert.Equal(t, "Ethanol", result.Result.Rows[0].GenericName)
}

func TestScreenSubmitted_DefaultsAndErrors(t *testing.T) {
	controller := newController(nil)

	t.Run("缺省阈值", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/compounds/screen", strings.NewReader(`{"compounds":[]}`))
		w := httptest.NewRecorder()
		controller.ScreenSubmitted(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		_, result := decodeResult(t, w.Body)
		assert.Equal(t, compound.DefaultThresholds, result.Thresholds)
		assert.Equal(t, 0, result.Matched)
	})

	t.Run("请求体格式错误", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/compounds/screen", strings.NewReader(`{"compounds":`))
		w := httptest.NewRecorder()
		controller.ScreenSubmitted(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("结构编码无法解析", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/compounds/screen",
			strings.NewReader(`{"compounds":[{"generic_name":"Broken","smiles":"C1CC"}]}`))
		w := httptest.NewRecorder()
		controller.ScreenSubmitted(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Broken")
	})
}

func TestGetDescriptors(t *testing.T) {
	controller := newController(nil)

	req := httptest.NewRequest(http.MethodGet, "/compounds/descriptors?smiles=CCO", nil)
	w := httptest.NewRecorder()
	controller.GetDescriptors(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var raw struct {
		Status int                `json:"status"`
		Data   DescriptorResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
	assert.Equal(t, "CCO", raw.Data.Smiles)
	assert.InDelta(t, 46.041865, raw.Data.Descriptors.MW, 1e-5)
	assert.Equal(t, 1, raw.Data.Descriptors.HDonors)
	assert.True(t, raw.Data.Admitted)

	for query, status := range map[string]int{"": http.StatusBadRequest, "smiles=C1CC": http.StatusUnprocessableEntity} {
		req := httptest.NewRequest(http.MethodGet, "/compounds/descriptors?"+query, nil)
		w := httptest.NewRecorder()
		controller.GetDescriptors(w, req)
		assert.Equal(t, status, w.Code, query)
	}
}

func TestGetThresholdsAndRules(t *testing.T) {
	controller := newController(nil)

	w := httptest.NewRecorder()
	controller.GetThresholds(w, httptest.NewRequest(http.MethodGet, "/compounds/thresholds", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var thresholds struct {
		Data ThresholdsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&thresholds))
	assert.Equal(t, compound.DefaultThresholds, thresholds.Data.Defaults)
	assert.Len(t, thresholds.Data.Ranges, 4)

	w = httptest.NewRecorder()
	controller.GetRules(w, httptest.NewRequest(http.MethodGet, "/compounds/rules", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lipinski")
}

func TestHealthController(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthController(nil).Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	NewHealthController(func() string { return "" }).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	NewHealthController(func() string { return "static://drugs" }).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "static://drugs", response.Source)
}

func TestHealthController_RefreshStatus(t *testing.T) {
	lastRun := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	controller := NewHealthController(func() string { return "static://drugs" }).
		WithRefreshStatus(func() scheduler.RefreshStatus {
			return scheduler.RefreshStatus{Spec: "0 0 3 * * *", Runs: 2, Records: 3, LastRunAt: &lastRun, LastError: "timeout"}
		})

	w := httptest.NewRecorder()
	controller.Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code, "刷新失败不影响就绪状态")

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.NotNil(t, response.Refresh)
	assert.Equal(t, 2, response.Refresh.Runs)
	assert.Equal(t, "timeout", response.Refresh.LastError)
	assert.True(t, lastRun.Equal(*response.Refresh.LastRunAt))

	// 未接入调度器时不返回刷新状态
	w = httptest.NewRecorder()
	NewHealthController(func() string { return "static://drugs" }).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.NotContains(t, w.Body.String(), "refresh")
}

// failingWriter 写入总是失败的响应
type failingWriter struct {
	header http.Header
	status int
}

func (w *failingWriter) Header() http.Header       { return w.header }
func (w *failingWriter) WriteHeader(status int)    { w.status = status }
func (w *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestScreenDataset_TSVWriteErrorLogged(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	w := &failingWriter{header: http.Header{}}
	newController(staticSource{table: drugsTable()}).ScreenDataset(w, httptest.NewRequest(http.MethodGet, "/compounds/screen?format=tsv", nil))

	assert.Equal(t, "text/tab-separated-values; charset=utf-8", w.header.Get("Content-Type"))
	assert.NotEmpty(t, w.header.Get("X-Run-ID"))
	assert.Contains(t, logs.String(), "写出TSV结果失败")
	assert.Contains(t, logs.String(), "connection reset")
}
