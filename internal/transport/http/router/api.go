package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-admin-api/internal/core/config"
	"user-admin-api/internal/core/limiter"
	"user-admin-api/internal/core/server"
	"user-admin-api/internal/transport/http/ez"
	"user-admin-api/internal/transport/http/handler"
	mdw "user-admin-api/internal/transport/http/middleware"
	resp "user-admin-api/internal/transport/http/response"
)

type Options struct {
	Name        string
	Mode        string
	BasePath    string
	CORSOrigins []string
	Limits      config.Limits
	PerIP       limiter.Limiter // 为空则不做单 IP 限速
	Tracing     bool
}

func NewAPIEngine(l *zap.Logger, o Options, health *handler.HealthHandler, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, server.Options{Name: o.Name, Mode: o.Mode, CORSOrigins: o.CORSOrigins})

	// 中间件
	r.Use(mdw.RequestID())
	if o.Tracing {
		r.Use(otelgin.Middleware(o.Name))
	}
	r.Use(
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.RateLimit(rate.Limit(o.Limits.RPS), o.Limits.Burst),
	)
	if o.PerIP != nil {
		r.Use(mdw.RateLimitPerIP(o.PerIP, l))
	}
	r.Use(
		mdw.ConcurrencyLimit(o.Limits.MaxInFlight, time.Second),
		mdw.MaxBodyBytes(o.Limits.MaxBodyBytes),
		mdw.Timeout(time.Duration(o.Limits.RequestTimeoutSec)*time.Second),
	)

	// 健康检查 / 就绪 / 指标
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(mdw.MetricsHandler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "route not found"))
	})

	// 前缀
	basePath := o.BasePath
	if basePath == "" {
		basePath = "/api/v1"
	}
	api := r.Group(basePath)
	reg.MountAll(ez.New(api, l))

	return r
}
