package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hcmaqi/aqidash/internal/api/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveFrom(handler http.Handler, remoteAddr, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIP_AllowsWithinLimit(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{
		RequestLimit: 5,
		WindowLength: time.Minute,
	})(okHandler())

	for i := 0; i < 5; i++ {
		rec := serveFrom(handler, "192.168.1.1:12345", "/v1/metadata/enums")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimitByIP_BlocksOverLimit(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{
		RequestLimit: 3,
		WindowLength: 30 * time.Second,
	})(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(handler, "10.0.0.1:12345", "/").Code)
	}

	rec := serveFrom(handler, "10.0.0.1:12345", "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestRateLimitByIP_DifferentIPsHaveSeparateLimits(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.RateLimitConfig{
		RequestLimit: 2,
		WindowLength: time.Minute,
	})(okHandler())

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(handler, "172.16.0.1:12345", "/").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(handler, "172.16.0.1:12345", "/").Code)
	assert.Equal(t, http.StatusOK, serveFrom(handler, "172.16.0.2:12345", "/").Code)
}

func TestRateLimitExceededResponse_Format(t *testing.T) {
	handler := middleware.RequestID(
		middleware.RateLimitByIP(middleware.RateLimitConfig{
			RequestLimit: 1,
			WindowLength: time.Minute,
		})(okHandler()),
	)

	assert.Equal(t, http.StatusOK, serveFrom(handler, "203.0.113.1:12345", "/v1/dashboard/forecast").Code)

	rec := serveFrom(handler, "203.0.113.1:12345", "/v1/dashboard/forecast")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	body := rec.Body.String()
	assert.Contains(t, body, "too-many-requests")
	assert.Contains(t, body, "/v1/dashboard/forecast")
	assert.Contains(t, body, rec.Header().Get("X-Request-Id"))
}

func TestDefaultRateLimitConfigs(t *testing.T) {
	assert.Equal(t, 30, middleware.ForecastRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.ForecastRateLimit.WindowLength)

	assert.Equal(t, 100, middleware.StandardRateLimit.RequestLimit)
	assert.Equal(t, time.Minute, middleware.StandardRateLimit.WindowLength)
}
