package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Check(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("healthy", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", NewHealthHandler(map[string]HealthCheck{"database": ok}).Check)

		w := testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := testutil.JSONResponseAs[HealthResponse](t, w)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, map[string]string{"database": "ok"}, resp.Dependencies)
	})

	t.Run("failing dependency", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", NewHealthHandler(map[string]HealthCheck{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		}).Check)

		w := testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil, nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := testutil.JSONResponseAs[HealthResponse](t, w)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "error", resp.Dependencies["redis"])
		assert.Equal(t, "ok", resp.Dependencies["database"])
	})
}
