package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthResponse reports the service and dependency status
type HealthResponse struct {
	Status       string            `json:"status"`
	Time         string            `json:"time"`
	Dependencies map[string]string `json:"dependencies"`
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a health handler probing the named checks
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Check godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:       "healthy",
		Dependencies: make(map[string]string, len(names)),
	}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed",
				zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[name] = "ok"
	}
	resp.Time = time.Now().Format(time.RFC3339)
	c.JSON(status, resp)
}
