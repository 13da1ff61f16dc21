package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Classifier.FallbackThreshold != 0.60 {
		t.Errorf("fallback threshold = %v, want 0.60", cfg.Classifier.FallbackThreshold)
	}
	if cfg.Retrieval.K != 2 || cfg.Retrieval.FetchK != 20 || cfg.Retrieval.DiversityLambda != 0.7 {
		t.Errorf("retrieval defaults = %+v", cfg.Retrieval)
	}
	if cfg.Chat.TokenBudget != 4000 {
		t.Errorf("token budget = %d, want 4000", cfg.Chat.TokenBudget)
	}
	if len(cfg.LLM.Providers) != 0 {
		t.Errorf("expected no providers by default, got %d", len(cfg.LLM.Providers))
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Retrieval:  RetrievalConfig{K: 2, FetchK: 20, DiversityLambda: 0.7},
			Classifier: ClassifierConfig{FallbackThreshold: 0.6},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "fetch_k below k", mutate: func(c *Config) { c.Retrieval.FetchK = 1 }, wantErr: true},
		{name: "lambda out of range", mutate: func(c *Config) { c.Retrieval.DiversityLambda = 1.5 }, wantErr: true},
		{name: "threshold out of range", mutate: func(c *Config) { c.Classifier.FallbackThreshold = -0.1 }, wantErr: true},
		{
			name: "duplicate priority",
			mutate: func(c *Config) {
				c.LLM.Providers = []ProviderConfig{
					{Name: "anthropic", Enabled: true, Priority: 1, Model: "m"},
					{Name: "gemini", Enabled: true, Priority: 1, Model: "m"},
				}
			},
			wantErr: true,
		},
		{
			name: "memory checkpoints in production",
			mutate: func(c *Config) {
				c.Environment.Name = "production"
				c.Checkpoint.Driver = "memory"
			},
			wantErr: true,
		},
		{
			name: "memory checkpoints in development",
			mutate: func(c *Config) {
				c.Environment.Name = "development"
				c.Checkpoint.Driver = "memory"
			},
		},
		{
			name: "disabled provider skips checks",
			mutate: func(c *Config) {
				c.LLM.Providers = []ProviderConfig{{Name: "deepseek", Enabled: false}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
