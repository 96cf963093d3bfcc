package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimitMiddleware(rps, burst, testLogger()))
	router.POST("/api/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func rateLimitRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	router := setupRateLimitRouter(10, 5)

	for i := 0; i < 5; i++ {
		w := rateLimitRequest(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsOverLimit(t *testing.T) {
	// 1 rps with burst 2: third immediate request must be rejected
	router := setupRateLimitRouter(1, 2)

	assert.Equal(t, http.StatusOK, rateLimitRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, rateLimitRequest(router, "10.0.0.1:1234").Code)

	w := rateLimitRequest(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_LimitsPerIP(t *testing.T) {
	router := setupRateLimitRouter(1, 1)

	assert.Equal(t, http.StatusOK, rateLimitRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, rateLimitRequest(router, "10.0.0.1:1234").Code)

	// A different client IP has its own bucket
	assert.Equal(t, http.StatusOK, rateLimitRequest(router, "10.0.0.2:1234").Code)
}
