package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		w := serve(swaggerRouter(SwaggerConfig{}, nil), swaggerRequest("10.0.0.1:4000"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("open", func(t *testing.T) {
		w := serve(swaggerRouter(SwaggerConfig{Enabled: true}, nil), swaggerRequest("10.0.0.1:4000"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ip allow list", func(t *testing.T) {
		router := swaggerRouter(SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"127.0.0.1", "10.1.0.0/16", "bogus"},
		}, nil)

		assert.Equal(t, http.StatusOK, serve(router, swaggerRequest("127.0.0.1:4000")).Code)
		assert.Equal(t, http.StatusOK, serve(router, swaggerRequest("10.1.20.3:4000")).Code)
		assert.Equal(t, http.StatusForbidden, serve(router, swaggerRequest("10.2.0.1:4000")).Code)
	})

	t.Run("auth required", func(t *testing.T) {
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
		w := serve(swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, deny), swaggerRequest("10.0.0.1:4000"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		allow := func(c *gin.Context) {}
		w = serve(swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, allow), swaggerRequest("10.0.0.1:4000"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
