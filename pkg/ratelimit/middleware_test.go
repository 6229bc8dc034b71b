package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookingdesk/internal/shared/config"
	"bookingdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/api/v1/admin/bookings/sweep", RateLimitTypeAdmin},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/bookings/:id/status", RateLimitTypeBooking},
		{"/api/v1/events", RateLimitTypePublic},
		{"/api/v1/flights/:id", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestLimiterBypasses(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:         true,
		WindowDuration:  time.Minute,
		BookingRequests: 20,
		WhitelistedIPs:  []string{"10.0.0.1"},
	}
	limiter := NewRateLimiter(nil, cfg)

	res, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 20, res.Limit)

	// no client configured
	res, err = limiter.IsAllowed(context.Background(), "192.168.1.5", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(nil, config.RateLimitConfig{WindowDuration: time.Minute, PublicRequests: 100})

	r := gin.New()
	r.Use(Middleware(limiter, logger.Discard()))
	r.GET("/api/v1/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
