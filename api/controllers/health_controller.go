/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供服务健康状态与就绪检查
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/screening.md
 * @stateFlow HTTP请求处理流程
 * @rules 未配置数据来源时就绪检查返回 503，刷新失败只在响应中体现不影响就绪状态
 * @dependencies net/http
 * @refs service/compound, service/scheduler
 */

package controllers

import (
	"net/http"
	"time"

	"ro5-service/service/scheduler"

	"github.com/go-chi/render"
)

const (
	serviceName    = "ro5-service"
	serviceVersion = "1.0.0"
)

// HealthController 健康检查控制器
type HealthController struct {
	sourceDescription func() string
	refreshStatus     func() scheduler.RefreshStatus
}

// NewHealthController 创建健康检查控制器实例，sourceDescription 返回当前数据来源
func NewHealthController(sourceDescription func() string) *HealthController {
	return &HealthController{sourceDescription: sourceDescription}
}

// WithRefreshStatus 在就绪检查中附带数据集刷新状态
func (c *HealthController) WithRefreshStatus(status func() scheduler.RefreshStatus) *HealthController {
	c.refreshStatus = status
	return c
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"ro5-service"`
	Source    string    `json:"source,omitempty" example:"https://www.cureffi.org/wp-content/uploads/2013/10/drugs.txt"`

	Refresh *scheduler.RefreshStatus `json:"refresh,omitempty"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	})
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务是否已配置数据来源，并返回数据集定时刷新状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	}
	if c.sourceDescription != nil {
		response.Source = c.sourceDescription()
	}
	if c.refreshStatus != nil {
		status := c.refreshStatus()
		response.Refresh = &status
	}
	if response.Source == "" {
		response.Status = "unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}
