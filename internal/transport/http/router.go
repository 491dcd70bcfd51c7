package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richardliu001/point-service/internal/config"
	"github.com/richardliu001/point-service/internal/service"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes. A nil gatherer leaves /metrics unrouted.
func NewRouter(svc *service.PointService, rl config.RateLimitConfig, log *zap.SugaredLogger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("")
	api.Use(RateLimitMiddleware(rl.RPS, rl.Burst))
	RegisterHandlers(api, svc)
	return r
}
