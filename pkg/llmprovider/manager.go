package llmprovider

import (
	"context"
	"fmt"
	"time"

	"helpdesk-automation/pkg/log"
)

// Manager tries providers in priority order. Each provider gets up to
// RetryAttempts calls with exponential backoff; a failure that is not
// Retryable moves straight on to the next provider.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration // first backoff step, doubled per retry
	MaxTotalTimeout time.Duration // bounds the whole fallback chain
}

func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	if config == nil {
		config = &Config{RetryAttempts: 1}
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Providers reports how many providers are configured.
func (m *Manager) Providers() int {
	return len(m.providers)
}

func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	if m.config.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	for i, provider := range m.providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w after %d provider(s): %v", ErrAllProvidersFailed, i, err)
		}

		resp, attempts, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp, attempts)
			return resp, nil
		}

		m.logFailure(ctx, provider, attempts, err)
		lastErr = err

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry returns the response or last error of one provider
// together with the number of calls made.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, int, error) {
	attempts := m.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(m.backoff(attempt)):
			case <-ctx.Done():
				return nil, attempt, ctx.Err()
			}
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, attempt + 1, nil
		}
		lastErr = err
		if !Retryable(err) {
			return nil, attempt + 1, err
		}
	}

	return nil, attempts, lastErr
}

func (m *Manager) backoff(attempt int) time.Duration {
	return m.config.RetryDelay << (attempt - 1)
}

func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response, attempts int) {
	var in, out int
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Info(ctx, "LLM generation successful",
		"provider", provider.Name(),
		"model", provider.Model(),
		"attempts", attempts,
		"input_tokens", in,
		"output_tokens", out,
	)
}

func (m *Manager) logFailure(ctx context.Context, provider Provider, attempts int, err error) {
	m.logger.Warn(ctx, "LLM generation failed",
		"provider", provider.Name(),
		"model", provider.Model(),
		"attempts", attempts,
		"retryable", Retryable(err),
		"error", err.Error(),
	)
}
