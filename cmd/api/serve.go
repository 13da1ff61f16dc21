package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"helpdesk-automation/config"
	"helpdesk-automation/internal/httpserver"
	"helpdesk-automation/internal/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Logger
	logger := newLogger(cfg)
	logger.Info(ctx, "Starting Helpdesk Automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Domains
	a, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize: %v", err)
		return err
	}
	defer a.close(ctx)

	go a.registry.Run(ctx)

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		Middleware:  middleware.New(logger, cfg.RateLimit),
		Helpdesk:    a.helpdesk,
		Chat:        a.chat,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize HTTP server: %v", err)
		return err
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return err
	}

	logger.Info(ctx, "Server stopped gracefully")
	return nil
}
