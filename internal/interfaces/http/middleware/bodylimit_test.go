package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/invoices", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	t.Run("allows a body within the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader("small"))
		w := serve(bodyLimitRouter(1024), req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a declared length over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("x", 200)))
		w := serve(bodyLimitRouter(100), req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeError(t, w).Code)
	})

	t.Run("cuts off an undeclared length while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", io.NopCloser(strings.NewReader(strings.Repeat("x", 200))))
		req.ContentLength = -1
		w := serve(bodyLimitRouter(100), req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(strings.Repeat("x", 200)))
		w := serve(bodyLimitRouter(0), req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
