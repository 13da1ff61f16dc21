package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/config"
	"helpdesk-automation/pkg/log"
)

func newRouter(mw Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.Trace(), mw.RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, log.TraceID(c.Request.Context()))
	})
	return r
}

func TestRateLimit(t *testing.T) {
	// 10 per minute gives a burst of one request
	r := newRouter(New(log.NewNop(), config.RateLimitConfig{Enabled: true, PerMinute: 10}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do("10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := do("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", code)
	}
	if code := do("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client = %d, want 200", code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRouter(New(log.NewNop(), config.RateLimitConfig{Enabled: false, PerMinute: 1}))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
}

func TestTrace(t *testing.T) {
	r := newRouter(New(log.NewNop(), config.RateLimitConfig{}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "req-42" || w.Header().Get(HeaderRequestID) != "req-42" {
		t.Errorf("body=%q header=%q", w.Body.String(), w.Header().Get(HeaderRequestID))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Body.String() == "" {
		t.Error("generated request id missing")
	}
}
