package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/config"
	"helpdesk-automation/pkg/log"
	"helpdesk-automation/pkg/response"
)

// levelLogger records which level each structured line was written at.
type levelLogger struct {
	mu     sync.Mutex
	levels []string
	traces []string
}

func (l *levelLogger) rec(ctx context.Context, level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels = append(l.levels, level)
	l.traces = append(l.traces, log.TraceID(ctx))
}

func (l *levelLogger) Debug(ctx context.Context, arg ...any)                    {}
func (l *levelLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (l *levelLogger) Info(ctx context.Context, arg ...any)                     { l.rec(ctx, "info") }
func (l *levelLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (l *levelLogger) Warn(ctx context.Context, arg ...any)                     { l.rec(ctx, "warn") }
func (l *levelLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (l *levelLogger) Error(ctx context.Context, arg ...any)                    { l.rec(ctx, "error") }
func (l *levelLogger) Errorf(ctx context.Context, template string, arg ...any)  { l.rec(ctx, "errorf") }
func (l *levelLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (l *levelLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (l *levelLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (l *levelLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (l *levelLogger) Panic(ctx context.Context, arg ...any)                    {}
func (l *levelLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := &levelLogger{}
	mw := New(l, config.RateLimitConfig{})

	r := gin.New()
	r.Use(mw.Trace(), mw.AccessLog())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, path := range []string{"/ok", "/missing", "/broken"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(HeaderRequestID, "req"+path)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	want := []string{"info", "warn", "error"}
	if len(l.levels) != len(want) {
		t.Fatalf("levels = %v, want %v", l.levels, want)
	}
	for i := range want {
		if l.levels[i] != want[i] {
			t.Errorf("levels[%d] = %s, want %s", i, l.levels[i], want[i])
		}
	}
	if l.traces[0] != "req/ok" {
		t.Errorf("trace id = %q, want req/ok", l.traces[0])
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := &levelLogger{}
	mw := New(l, config.RateLimitConfig{})

	r := gin.New()
	r.Use(mw.Trace(), mw.Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", w.Code)
	}
	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not the standard envelope: %v", err)
	}
	if resp.ErrorCode != response.InternalServerErrorCode || resp.Message != response.DefaultErrorMessage {
		t.Errorf("resp = %+v", resp)
	}
	if len(l.levels) != 1 || l.levels[0] != "errorf" {
		t.Errorf("levels = %v, want [errorf]", l.levels)
	}
}
