package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-admin-api/internal/core/limiter"
	resp "user-admin-api/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		rateLimited.WithLabelValues("global").Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}

// RateLimitPerIP 每 IP 限速；limiter 出错时放行（redis 不可用不影响业务）
func RateLimitPerIP(lim limiter.Limiter, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := lim.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			l.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if ok {
			c.Next()
			return
		}
		rateLimited.WithLabelValues("ip").Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}
