package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"ro5-service/api"
	_ "ro5-service/docs"
	"ro5-service/service"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	PORT         = 80
	BASE_CONTEXT = ""
)

func init() {
	if val := os.Getenv("LISTEN_PORT"); val != "" {
		PORT, _ = strconv.Atoi(val)
	}

	if val := os.Getenv("BASE_CONTEXT"); val != "" {
		BASE_CONTEXT = val
	}
}

// @title Ro5 化合物筛选服务 API
// @version 1.0
// @description 按Lipinski五规则阈值筛选化合物数据集，提供描述符计算与筛选接口
// @BasePath /
func main() {
	defer service.GlobalSchedulerService.Stop()

	deps := api.Dependencies{
		Compounds:         service.GlobalCompoundService,
		SourceDescription: service.GlobalCompoundService.SourceDescription,
		RateLimiter:       service.GlobalRateLimiter,
		RefreshStatus:     service.GlobalSchedulerService.Status,
	}

	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if BASE_CONTEXT != "" {
		mux.Route(BASE_CONTEXT, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux, deps)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux, deps)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(PORT), mux)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}
}
