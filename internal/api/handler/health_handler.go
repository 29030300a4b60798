package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cab-booking/backend/pkg/response"
)

const healthTimeout = 2 * time.Second

// HealthCheck 依赖探活项
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler 健康检查
type HealthHandler struct {
	checks []HealthCheck
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health 健康检查
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	components := make(map[string]string, len(h.checks))
	healthy := true
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			components[chk.Name] = "down"
			healthy = false
			continue
		}
		components[chk.Name] = "up"
	}

	if !healthy {
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, response.CodeUnavailable, "依赖服务不可用", components)
		return
	}
	response.OK(c, gin.H{"status": "ok", "components": components})
}
