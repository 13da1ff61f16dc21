package llmprovider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mockProvider struct {
	name      string
	model     string
	failTimes int // fail this many calls, then succeed; -1 always fails
	text      string
	callCount int
	delay     time.Duration
	err       error
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.callCount++
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.failTimes < 0 || m.callCount <= m.failTimes {
		if m.err != nil {
			return nil, m.err
		}
		return nil, errors.New("mock provider error")
	}
	return &Response{
		Content:      Message{Role: "assistant", Text: m.text},
		ProviderName: m.name,
		ModelName:    m.model,
		Usage:        &Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

type mockLogger struct {
	mu           sync.Mutex
	infoMessages []string
	warnMessages []string
}

func (m *mockLogger) record(dst *[]string, arg []any) {
	if len(arg) == 0 {
		return
	}
	if msg, ok := arg[0].(string); ok {
		m.mu.Lock()
		*dst = append(*dst, msg)
		m.mu.Unlock()
	}
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     { m.record(&m.infoMessages, arg) }
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     { m.record(&m.warnMessages, arg) }
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func TestGenerateContent_SuccessWithPrimaryProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "primary-model", text: "automatico"}
	logger := &mockLogger{}
	manager := NewManager([]Provider{primary}, &Config{FallbackEnabled: true, RetryAttempts: 3}, logger)

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ProviderName != "primary" || resp.Text() != "automatico" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if primary.callCount != 1 {
		t.Errorf("Expected primary provider to be called once, got: %d", primary.callCount)
	}
	if len(logger.infoMessages) != 1 || len(logger.warnMessages) != 0 {
		t.Errorf("logs: info=%d warn=%d", len(logger.infoMessages), len(logger.warnMessages))
	}
}

func TestGenerateContent_RetriesBeforeSucceeding(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: 1, text: "ok"}
	manager := NewManager([]Provider{primary}, &Config{RetryAttempts: 2, RetryDelay: time.Millisecond}, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), UserPrompt("Hello")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if primary.callCount != 2 {
		t.Errorf("Expected 2 calls, got: %d", primary.callCount)
	}
}

func TestGenerateContent_FallbackToSecondaryProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: -1}
	secondary := &mockProvider{name: "secondary", text: "from secondary"}
	logger := &mockLogger{}
	manager := NewManager([]Provider{primary, secondary},
		&Config{FallbackEnabled: true, RetryAttempts: 2, RetryDelay: time.Millisecond}, logger)

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ProviderName != "secondary" {
		t.Errorf("Expected provider name 'secondary', got: %s", resp.ProviderName)
	}
	if primary.callCount != 2 || secondary.callCount != 1 {
		t.Errorf("calls: primary=%d secondary=%d", primary.callCount, secondary.callCount)
	}
	if len(logger.infoMessages) != 1 || len(logger.warnMessages) != 1 {
		t.Errorf("logs: info=%d warn=%d", len(logger.infoMessages), len(logger.warnMessages))
	}
}

func TestGenerateContent_AllProvidersFail(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: -1}
	secondary := &mockProvider{name: "secondary", failTimes: -1}
	logger := &mockLogger{}
	manager := NewManager([]Provider{primary, secondary},
		&Config{FallbackEnabled: true, RetryAttempts: 2, RetryDelay: time.Millisecond}, logger)

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("Expected ErrAllProvidersFailed, got: %v", err)
	}
	if resp != nil {
		t.Errorf("Expected nil response, got: %v", resp)
	}
	if len(logger.warnMessages) != 2 {
		t.Errorf("Expected 2 warn log messages, got: %d", len(logger.warnMessages))
	}
}

func TestGenerateContent_NoFallbackWhenDisabled(t *testing.T) {
	primary := &mockProvider{name: "primary", failTimes: -1}
	secondary := &mockProvider{name: "secondary", text: "unused"}
	manager := NewManager([]Provider{primary, secondary},
		&Config{FallbackEnabled: false, RetryAttempts: 2, RetryDelay: time.Millisecond}, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), UserPrompt("Hello")); err == nil {
		t.Fatal("Expected error when primary fails and fallback is disabled")
	}
	if secondary.callCount != 0 {
		t.Errorf("Expected secondary provider to NOT be called, got: %d calls", secondary.callCount)
	}
}

func TestGenerateContent_GlobalTimeout(t *testing.T) {
	slow := &mockProvider{name: "slow", delay: time.Second, text: "late"}
	manager := NewManager([]Provider{slow},
		&Config{RetryAttempts: 1, MaxTotalTimeout: 20 * time.Millisecond}, &mockLogger{})

	start := time.Now()
	_, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("Expected ErrAllProvidersFailed, got: %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("timeout was not applied, took %v", time.Since(start))
	}
}

func TestGenerateContent_NoProvidersConfigured(t *testing.T) {
	manager := NewManager(nil, &Config{RetryAttempts: 3}, &mockLogger{})

	_, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Errorf("Expected ErrNoProvidersConfigured, got: %v", err)
	}
}

func TestGenerateContent_InvalidRequest(t *testing.T) {
	manager := NewManager([]Provider{&mockProvider{name: "p"}}, nil, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), &Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got: %v", err)
	}
}

func TestGenerateContent_NonRetryableSkipsRetries(t *testing.T) {
	primary := &mockProvider{
		name:      "primary",
		failTimes: -1,
		err:       &ProviderError{Provider: "primary", StatusCode: 401, Err: errors.New("bad key")},
	}
	secondary := &mockProvider{name: "secondary", text: "ok"}
	manager := NewManager([]Provider{primary, secondary},
		&Config{FallbackEnabled: true, RetryAttempts: 3, RetryDelay: time.Millisecond}, &mockLogger{})

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("Hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ProviderName != "secondary" {
		t.Errorf("Expected secondary, got: %s", resp.ProviderName)
	}
	if primary.callCount != 1 {
		t.Errorf("Expected a single call to primary, got: %d", primary.callCount)
	}
}

func TestGenerateContent_RateLimitIsRetried(t *testing.T) {
	primary := &mockProvider{
		name:      "primary",
		failTimes: 2,
		text:      "ok",
		err:       &ProviderError{Provider: "primary", StatusCode: 429, Err: errors.New("slow down")},
	}
	manager := NewManager([]Provider{primary}, &Config{RetryAttempts: 3, RetryDelay: time.Millisecond}, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), UserPrompt("Hello")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if primary.callCount != 3 {
		t.Errorf("Expected 3 calls, got: %d", primary.callCount)
	}
}

func TestBackoff_Doubles(t *testing.T) {
	m := NewManager(nil, &Config{RetryDelay: 10 * time.Millisecond}, &mockLogger{})

	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	for i, w := range want {
		if got := m.backoff(i + 1); got != w {
			t.Errorf("backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}
