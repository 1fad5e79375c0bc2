/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/screening.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"ro5-service/api/controllers"
	"ro5-service/service/rate_limiter"
	"ro5-service/service/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	Compounds         controllers.CompoundScreener
	SourceDescription func() string
	// RateLimiter 为空时不限流
	RateLimiter rate_limiter.Limiter
	// RefreshStatus 为空时就绪检查不返回刷新状态
	RefreshStatus func() scheduler.RefreshStatus
}

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux, deps Dependencies) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Run-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController(deps.SourceDescription)
	if deps.RefreshStatus != nil {
		healthController.WithRefreshStatus(deps.RefreshStatus)
	}
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 化合物筛选
	r.Route("/compounds", func(r chi.Router) {
		compoundController := controllers.NewCompoundController(deps.Compounds)

		r.Get("/thresholds", compoundController.GetThresholds)
		r.Get("/rules", compoundController.GetRules)

		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(rate_limiter.Middleware(deps.RateLimiter))
			}
			r.Get("/screen", compoundController.ScreenDataset)
			r.Post("/screen", compoundController.ScreenSubmitted)
			r.Get("/descriptors", compoundController.GetDescriptors)
		})
	})
}
