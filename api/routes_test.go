package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ro5-service/service/compound"
	"ro5-service/service/descriptor"
	"ro5-service/service/models"
	"ro5-service/service/rate_limiter"
	"ro5-service/service/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct{}

func (memorySource) Load(context.Context) (*models.CompoundTable, error) {
	return &models.CompoundTable{Records: []models.CompoundRecord{{Name: "Ethanol", Smiles: "CCO"}}}, nil
}

func (memorySource) Describe() string { return "memory" }

func newRouter(limiter rate_limiter.Limiter) *chi.Mux {
	svc := compound.NewService(memorySource{}, descriptor.NewToolkitCalculator(), nil, 1)
	r := chi.NewRouter()
	InitRoute(r, Dependencies{
		Compounds:         svc,
		SourceDescription: svc.SourceDescription,
		RateLimiter:       limiter,
	})
	return r
}

func TestInitRoute(t *testing.T) {
	r := newRouter(nil)

	testCases := []struct {
		method string
		path   string
		status int
	}{
		{method: http.MethodGet, path: "/health", status: http.StatusOK},
		{method: http.MethodGet, path: "/ready", status: http.StatusOK},
		{method: http.MethodGet, path: "/compounds/screen", status: http.StatusOK},
		{method: http.MethodGet, path: "/compounds/descriptors?smiles=c1ccccc1", status: http.StatusOK},
		{method: http.MethodGet, path: "/compounds/thresholds", status: http.StatusOK},
		{method: http.MethodGet, path: "/compounds/rules", status: http.StatusOK},
		{method: http.MethodDelete, path: "/compounds/screen", status: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/compounds/unknown", status: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestInitRoute_RateLimit(t *testing.T) {
	r := newRouter(rate_limiter.NewMemoryRateLimiter(1, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compounds/screen", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compounds/screen", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 元数据接口不限流
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compounds/rules", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitRoute_ReadyReportsRefreshStatus(t *testing.T) {
	svc := compound.NewService(memorySource{}, descriptor.NewToolkitCalculator(), nil, 1)
	refresher := scheduler.NewSchedulerService(svc, nil, "0 0 3 * * *")
	require.NoError(t, refresher.RunOnce(context.Background()))

	r := chi.NewRouter()
	InitRoute(r, Dependencies{
		Compounds:         svc,
		SourceDescription: svc.SourceDescription,
		RefreshStatus:     refresher.Status,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status  string                   `json:"status"`
		Refresh *scheduler.RefreshStatus `json:"refresh"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ready", response.Status)
	require.NotNil(t, response.Refresh)
	assert.Equal(t, "0 0 3 * * *", response.Refresh.Spec)
	assert.Equal(t, 1, response.Refresh.Runs)
	assert.Equal(t, 1, response.Refresh.Records)
	assert.Empty(t, response.Refresh.LastError)
	assert.NotNil(t, response.Refresh.LastRunAt)
}
