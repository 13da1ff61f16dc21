package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-automation/config"
	"helpdesk-automation/internal/chat"
	chatUC "helpdesk-automation/internal/chat/usecase"
	"helpdesk-automation/internal/checkpoint"
	checkpointMemory "helpdesk-automation/internal/checkpoint/repository/memory"
	"helpdesk-automation/internal/checkpoint/repository/sqlite"
	"helpdesk-automation/internal/classifier"
	"helpdesk-automation/internal/completion"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/helpdesk/engine"
	helpdeskUC "helpdesk-automation/internal/helpdesk/usecase"
	memoryUC "helpdesk-automation/internal/memory/usecase"
	"helpdesk-automation/internal/registry"
	"helpdesk-automation/internal/retrieval"
	retrievalRepo "helpdesk-automation/internal/retrieval/repository"
	retrievalChromem "helpdesk-automation/internal/retrieval/repository/chromem"
	retrievalQdrant "helpdesk-automation/internal/retrieval/repository/qdrant"
	retrievalUC "helpdesk-automation/internal/retrieval/usecase"
	"helpdesk-automation/pkg/embedding"
	"helpdesk-automation/pkg/llmprovider"
	"helpdesk-automation/pkg/log"
	pkgQdrant "helpdesk-automation/pkg/qdrant"
	"helpdesk-automation/pkg/voyage"
)

const (
	checkpointSQLite = "sqlite"
	checkpointMem    = "memory"

	backendChromem = "chromem"
	backendQdrant  = "qdrant"

	embeddingVoyage = "voyage"
)

// app holds the wired domains of one process.
type app struct {
	l        log.Logger
	helpdesk helpdesk.UseCase
	chat     chat.UseCase
	registry *registry.Registry
	closers  []func() error
}

func newLogger(cfg *config.Config) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
}

func build(ctx context.Context, cfg *config.Config, logger log.Logger) (*app, error) {
	a := &app{l: logger}

	svc, err := newCompletion(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	embedder, closeEmbedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { closeEmbedder(); return nil })

	retriever, err := newRetrieval(ctx, cfg, logger, embedder)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	store, err := newCheckpointStore(ctx, cfg, logger)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	decider := classifier.New(svc, cfg.Classifier.FallbackThreshold, logger)
	eng := engine.New(logger, retriever, decider)
	a.helpdesk = helpdeskUC.New(logger, eng, store)

	a.registry = registry.New(logger, registry.Config{
		DataDir: cfg.Registry.DataDir,
		IdleTTL: cfg.Registry.IdleTTL,
	}, registry.DiskOpener(logger, registry.StoreOptions{
		Completion: svc,
		Embedder:   embedder,
		Memory:     memoryUC.Options{MinImportance: cfg.Memory.MinImportance},
	}))
	a.closers = append(a.closers, func() error { a.registry.Close(); return nil })

	a.chat = chatUC.New(logger, a.registry, svc, chatUC.Options{
		TokenBudget: cfg.Chat.TokenBudget,
		TitleMaxLen: cfg.Chat.TitleMaxLen,
		SearchK:     cfg.Memory.SearchK,
		HistorySize: cfg.Chat.HistorySize,
	})

	logger.Infof(ctx, "Helpdesk initialized: retrieval=%s checkpoint=%s embedding=%s",
		cfg.Retrieval.Backend, cfg.Checkpoint.Driver, cfg.Embedding.Provider)
	return a, nil
}

// close releases resources in reverse order of creation.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.l.Warnf(ctx, "close: %v", err)
		}
	}
	a.closers = nil
}

// newCompletion returns nil when no LLM provider is configured; every caller
// then takes its deterministic fallback.
func newCompletion(ctx context.Context, cfg *config.Config, logger log.Logger) (completion.Service, error) {
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, logger)
	if errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
		logger.Warn(ctx, "No LLM provider configured, running with fallbacks only")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("initialize LLM providers: %w", err)
	}

	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, 500*time.Millisecond),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 30*time.Second),
	}, logger)
	logger.Infof(ctx, "LLM providers initialized: %d", manager.Providers())

	return completion.New(manager, completion.Options{
		Timeout:     cfg.Completion.Timeout,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
	}, logger), nil
}

// newEmbedder returns the configured embedder behind a ristretto cache and
// the function that releases the cache.
func newEmbedder(cfg *config.Config) (embedding.Embedder, func(), error) {
	var inner embedding.Embedder
	switch cfg.Embedding.Provider {
	case embeddingVoyage:
		client, err := voyage.New(cfg.Voyage.APIKey)
		if err != nil {
			return nil, nil, err
		}
		inner = client.WithModel(cfg.Voyage.Model)
	default:
		inner = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}

	if cfg.Embedding.CacheSize <= 0 {
		return inner, func() {}, nil
	}
	cached, err := embedding.NewCached(inner, cfg.Embedding.CacheSize)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding cache: %w", err)
	}
	return cached, cached.Close, nil
}

func newRetrieval(ctx context.Context, cfg *config.Config, logger log.Logger, embedder embedding.Embedder) (retrieval.UseCase, error) {
	var (
		index retrievalRepo.Index
		err   error
	)
	switch cfg.Retrieval.Backend {
	case backendQdrant:
		client := pkgQdrant.NewClient(cfg.Qdrant.URL)
		index, err = retrievalQdrant.New(ctx, client, cfg.Retrieval.Collection, cfg.Qdrant.VectorSize, logger)
	case backendChromem, "":
		index, err = retrievalChromem.Open(cfg.Retrieval.PersistPath, cfg.Retrieval.Collection, logger)
	default:
		err = fmt.Errorf("unknown retrieval backend %q", cfg.Retrieval.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieval index: %w", err)
	}

	params := retrieval.Params{
		K:               cfg.Retrieval.K,
		FetchK:          cfg.Retrieval.FetchK,
		DiversityLambda: cfg.Retrieval.DiversityLambda,
	}
	return retrievalUC.New(logger, index, embedder, params, cfg.Retrieval.Timeout), nil
}

func newCheckpointStore(ctx context.Context, cfg *config.Config, logger log.Logger) (checkpoint.Store, error) {
	switch cfg.Checkpoint.Driver {
	case checkpointMem:
		logger.Warn(ctx, "Checkpoints are kept in memory and lost on restart")
		return checkpointMemory.New(), nil
	case checkpointSQLite, "":
		return sqlite.Open(ctx, cfg.Checkpoint.Path, logger)
	default:
		return nil, fmt.Errorf("unknown checkpoint driver %q", cfg.Checkpoint.Driver)
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
