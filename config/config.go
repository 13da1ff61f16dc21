package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"helpdesk-automation/internal/model"
)

type Config struct {
	Environment EnvironmentConfig

	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	LLM        LLMConfig
	Completion CompletionConfig

	Retrieval  RetrievalConfig
	Classifier ClassifierConfig
	Checkpoint CheckpointConfig
	Memory     MemoryConfig
	Chat       ChatConfig
	Registry   RegistryConfig
	RateLimit  RateLimitConfig

	Qdrant    QdrantConfig
	Voyage    VoyageConfig
	Embedding EmbeddingConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// CompletionConfig bounds a single prompt/response exchange.
type CompletionConfig struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

type RetrievalConfig struct {
	Backend         string // chromem | qdrant
	Collection      string
	PersistPath     string
	K               int
	FetchK          int
	DiversityLambda float64
	Timeout         time.Duration
}

type ClassifierConfig struct {
	FallbackThreshold float64
}

type CheckpointConfig struct {
	Driver string // sqlite | memory
	Path   string
}

type MemoryConfig struct {
	MinImportance int
	SearchK       int
}

type ChatConfig struct {
	TokenBudget int
	TitleMaxLen int
	HistorySize int
}

type RegistryConfig struct {
	DataDir string
	IdleTTL time.Duration
}

type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
}

type QdrantConfig struct {
	URL        string
	VectorSize int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

type EmbeddingConfig struct {
	Provider   string // voyage | hash
	Dimensions int
	CacheSize  int64
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/helpdesk/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")
	cfg.LLM.Providers = loadProviders()

	cfg.Completion.Timeout = viper.GetDuration("completion.timeout")
	cfg.Completion.Temperature = viper.GetFloat64("completion.temperature")
	cfg.Completion.MaxTokens = viper.GetInt("completion.max_tokens")

	cfg.Retrieval.Backend = viper.GetString("retrieval.backend")
	cfg.Retrieval.Collection = viper.GetString("retrieval.collection")
	cfg.Retrieval.PersistPath = viper.GetString("retrieval.persist_path")
	cfg.Retrieval.K = viper.GetInt("retrieval.k")
	cfg.Retrieval.FetchK = viper.GetInt("retrieval.fetch_k")
	cfg.Retrieval.DiversityLambda = viper.GetFloat64("retrieval.diversity_lambda")
	cfg.Retrieval.Timeout = viper.GetDuration("retrieval.timeout")

	cfg.Classifier.FallbackThreshold = viper.GetFloat64("classifier.fallback_threshold")

	cfg.Checkpoint.Driver = viper.GetString("checkpoint.driver")
	cfg.Checkpoint.Path = viper.GetString("checkpoint.path")

	cfg.Memory.MinImportance = viper.GetInt("memory.min_importance")
	cfg.Memory.SearchK = viper.GetInt("memory.search_k")

	cfg.Chat.TokenBudget = viper.GetInt("chat.token_budget")
	cfg.Chat.TitleMaxLen = viper.GetInt("chat.title_max_len")
	cfg.Chat.HistorySize = viper.GetInt("chat.history_size")

	cfg.Registry.DataDir = viper.GetString("registry.data_dir")
	cfg.Registry.IdleTTL = viper.GetDuration("registry.idle_ttl")

	cfg.RateLimit.Enabled = viper.GetBool("rate_limit.enabled")
	cfg.RateLimit.PerMinute = viper.GetInt("rate_limit.per_minute")

	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = viper.GetString("voyage.api_key")
	cfg.Voyage.Model = viper.GetString("voyage.model")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}

	cfg.Embedding.Provider = viper.GetString("embedding.provider")
	cfg.Embedding.Dimensions = viper.GetInt("embedding.dimensions")
	cfg.Embedding.CacheSize = viper.GetInt64("embedding.cache_size")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", string(model.EnvironmentDevelopment))
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 2)
	viper.SetDefault("llm.retry_delay", "500ms")
	viper.SetDefault("llm.max_total_timeout", "30s")

	viper.SetDefault("completion.timeout", "20s")
	viper.SetDefault("completion.temperature", 0.1)
	viper.SetDefault("completion.max_tokens", 1024)

	viper.SetDefault("retrieval.backend", "chromem")
	viper.SetDefault("retrieval.collection", "helpdesk_knowledge")
	viper.SetDefault("retrieval.persist_path", "./data/knowledge")
	viper.SetDefault("retrieval.k", 2)
	viper.SetDefault("retrieval.fetch_k", 20)
	viper.SetDefault("retrieval.diversity_lambda", 0.7)
	viper.SetDefault("retrieval.timeout", "10s")

	viper.SetDefault("classifier.fallback_threshold", 0.60)

	viper.SetDefault("checkpoint.driver", "sqlite")
	viper.SetDefault("checkpoint.path", "./data/helpdesk.db")

	viper.SetDefault("memory.min_importance", 2)
	viper.SetDefault("memory.search_k", 3)

	viper.SetDefault("chat.token_budget", 4000)
	viper.SetDefault("chat.title_max_len", 50)
	viper.SetDefault("chat.history_size", 50)

	viper.SetDefault("registry.data_dir", "./data/users")
	viper.SetDefault("registry.idle_ttl", "30m")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.per_minute", 120)

	viper.SetDefault("qdrant.url", "http://localhost:6333")
	viper.SetDefault("qdrant.vector_size", 1024)

	viper.SetDefault("voyage.model", "voyage-3")

	viper.SetDefault("embedding.provider", "hash")
	viper.SetDefault("embedding.dimensions", 384)
	viper.SetDefault("embedding.cache_size", 10000)
}

func (c *Config) validate() error {
	if c.Retrieval.K <= 0 {
		return fmt.Errorf("retrieval.k must be positive")
	}
	if c.Retrieval.FetchK < c.Retrieval.K {
		return fmt.Errorf("retrieval.fetch_k (%d) must be >= retrieval.k (%d)", c.Retrieval.FetchK, c.Retrieval.K)
	}
	if c.Retrieval.DiversityLambda < 0 || c.Retrieval.DiversityLambda > 1 {
		return fmt.Errorf("retrieval.diversity_lambda must be in [0,1]")
	}
	if c.Classifier.FallbackThreshold < 0 || c.Classifier.FallbackThreshold > 1 {
		return fmt.Errorf("classifier.fallback_threshold must be in [0,1]")
	}
	// suspended threads must survive a restart
	if c.Environment.Name == string(model.EnvironmentProduction) && c.Checkpoint.Driver == "memory" {
		return fmt.Errorf("checkpoint.driver memory is not allowed in production")
	}
	return validateLLMConfig(&c.LLM)
}

func loadProviders() []ProviderConfig {
	if !viper.IsSet("llm.providers") {
		return nil
	}

	var providers []ProviderConfig
	providersList, ok := viper.Get("llm.providers").([]interface{})
	if !ok {
		return nil
	}
	for _, p := range providersList {
		providerMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		providers = append(providers, ProviderConfig{
			Name:     getStringFromMap(providerMap, "name"),
			Enabled:  getBoolFromMap(providerMap, "enabled"),
			Priority: getIntFromMap(providerMap, "priority"),
			APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
			BaseURL:  getStringFromMap(providerMap, "base_url"),
			Model:    getStringFromMap(providerMap, "model"),
			Timeout:  getStringFromMap(providerMap, "timeout"),
		})
	}
	return providers
}

// expandEnvVar resolves values of the form ${NAME}.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}

// validateLLMConfig accepts an empty provider list: every completion caller
// has a deterministic fallback, so the service can run fully offline.
func validateLLMConfig(cfg *LLMConfig) error {
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if !provider.Enabled {
			continue
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}
		if provider.Priority <= 0 {
			return fmt.Errorf("provider %s: priority must be positive", provider.Name)
		}
		if priorityMap[provider.Priority] {
			return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
		}
		priorityMap[provider.Priority] = true
	}

	return nil
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
