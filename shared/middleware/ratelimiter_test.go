package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
		wantErr    bool
	}{
		{name: "ipv4 with port", remoteAddr: "192.168.1.100:54321", expected: "192.168.1.100"},
		{name: "ipv6 with port", remoteAddr: "[2001:db8::1]:8080", expected: "2001:db8::1"},
		{name: "no port", remoteAddr: "10.0.0.7", expected: "10.0.0.7"},
		{
			name:       "ignores spoofed headers",
			remoteAddr: "203.0.113.50:12345",
			headers:    map[string]string{"X-Real-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.2, 10.0.0.3"},
			expected:   "203.0.113.50",
		},
		{name: "garbage", remoteAddr: "not-an-ip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			ip, err := GetIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ip)
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "identities are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled after a second")
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_ExpiresIdleIdentities(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.Len())

	now = now.Add(2 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(rl, GetIP)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.RemoteAddr = "198.51.100.1:1000"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded, try again later"}`, rr.Body.String())

	bad := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	bad.RemoteAddr = "nope"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
