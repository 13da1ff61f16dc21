package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"helpdesk-automation/config"
	"helpdesk-automation/pkg/deepseek"
	"helpdesk-automation/pkg/gemini"
	"helpdesk-automation/pkg/log"

	"github.com/anthropics/anthropic-sdk-go/option"
)

type builder func(cfg config.ProviderConfig, timeout time.Duration) (Provider, error)

var builders = map[string]builder{
	"anthropic": buildAnthropic,
	"claude":    buildAnthropic,
	"deepseek":  buildDeepSeek,
	"gemini":    buildGemini,
}

// InitializeProviders creates Provider instances from config.LLMConfig,
// sorted by ascending priority with disabled providers filtered out.
// A provider that fails to initialize is skipped.
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, l log.Logger) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var providers []Provider
	var initErrors []string
	for _, p := range enabled {
		provider, err := createProvider(p)
		if err != nil {
			initErrors = append(initErrors, err.Error())
			l.Warnf(ctx, "llmprovider: skipping %s (priority %d): %v", p.Name, p.Priority, err)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}

	return providers, nil
}

func createProvider(cfg config.ProviderConfig) (Provider, error) {
	build, ok := builders[strings.ToLower(cfg.Name)]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", cfg.Name)
	}

	var timeout time.Duration
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("provider %s: invalid timeout %q", cfg.Name, cfg.Timeout)
		}
		timeout = d
	}

	return build(cfg, timeout)
}

// buildAnthropic disables the SDK's own retries; the Manager owns them.
func buildAnthropic(cfg config.ProviderConfig, timeout time.Duration) (Provider, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return NewAnthropicAdapter(cfg.APIKey, cfg.Model, opts...), nil
}

func buildDeepSeek(cfg config.ProviderConfig, timeout time.Duration) (Provider, error) {
	client, err := deepseek.New(deepseek.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return NewDeepSeekAdapter(client), nil
}

func buildGemini(cfg config.ProviderConfig, timeout time.Duration) (Provider, error) {
	gcfg := gemini.Config{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		APIURL: cfg.BaseURL,
	}
	if timeout > 0 {
		gcfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	client, err := gemini.New(gcfg)
	if err != nil {
		return nil, err
	}
	return NewGeminiAdapter(client), nil
}
