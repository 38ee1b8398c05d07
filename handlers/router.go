package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"devtrack/middleware"
	"devtrack/service"
	"devtrack/validation"
)

// NewRouter builds the HTTP surface. reg receives the request metrics and
// is what /metrics exposes.
func NewRouter(svc *service.Services, store Pinger, reg *prometheus.Registry, log *zap.Logger) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			log.Fatal("register binding validators", zap.Error(err))
		}
	}

	metrics := middleware.NewMetrics(reg)

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log), metrics.Handler())

	r.GET("/health", HealthCheck(store, log))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	api := r.Group("/api")
	{
		api.POST("/software", CreateSoftware(svc.Registry, log))
		api.GET("/software", ListSoftware(svc.Registry, log))
		api.GET("/software/:id", GetSoftware(svc.Registry, log))
		api.DELETE("/software/:id", DeleteSoftware(svc.Registry, log))

		api.POST("/activity", AppendActivity(svc.Ledger, log))
		api.GET("/activity/recent", RecentActivity(svc.Ledger, log))

		api.GET("/comments/:softwareId", ListComments(svc.Reviews, log))
		api.POST("/comments/:softwareId", CreateComment(svc.Reviews, log))

		api.GET("/summary/:softwareId", GetSummary(svc.Summaries, log))
		api.PUT("/summary/:softwareId", UpsertSummary(svc.Summaries, log))
	}

	return r
}
