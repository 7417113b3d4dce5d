package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	resp "user-admin-api/internal/transport/http/response"
)

// Pinger 依赖探活（DB、redis）
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
	log     *zap.Logger
	sf      singleflight.Group
}

func NewHealthHandler(l *zap.Logger, timeout time.Duration, deps map[string]Pinger) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{deps: deps, timeout: timeout, log: l}
}

// Health 进程存活
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": 1})
}

// Ready 并发探针合并成一次依赖检查
func (h *HealthHandler) Ready(c *gin.Context) {
	v, _, _ := h.sf.Do("ready", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		failed := map[string]string{}
		for name, p := range h.deps {
			if err := p.Ping(ctx); err != nil {
				h.log.Warn("readiness check failed", zap.String("dep", name), zap.Error(err))
				failed[name] = err.Error()
			}
		}
		return failed, nil
	})
	failed := v.(map[string]string)
	if len(failed) > 0 {
		body := resp.Error(resp.CodeUnavailable, "dependencies unavailable")
		for name := range failed {
			body.Fields = append(body.Fields, resp.FieldError{Field: name, Message: "unreachable"})
		}
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": 1})
}
