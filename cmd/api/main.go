package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ressKim-io/shopper-predict/api-service/internal/adapter/client"
	"github.com/ressKim-io/shopper-predict/api-service/internal/adapter/http/router"
	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
	"github.com/ressKim-io/shopper-predict/api-service/internal/infrastructure/awsclient"
	"github.com/ressKim-io/shopper-predict/api-service/internal/infrastructure/config"
	"github.com/ressKim-io/shopper-predict/api-service/internal/infrastructure/logger"
	"github.com/ressKim-io/shopper-predict/api-service/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize endpoint client
	endpoint, err := newEndpoint(context.Background(), &cfg.Endpoint)
	if err != nil {
		log.Error("Failed to initialize endpoint client", zap.Error(err))
		return fmt.Errorf("failed to initialize endpoint client: %w", err)
	}
	if endpoint.Name() == "" {
		log.Warn("Endpoint name is empty, service will report not ready")
	}
	log.Info("Endpoint client initialized",
		zap.String("backend", cfg.Endpoint.Backend),
		zap.String("endpoint", endpoint.Name()),
		zap.String("region", cfg.Endpoint.Region),
	)

	// Setup router
	r := router.Setup(router.Deps{
		Version:  cfg.App.Version,
		Endpoint: endpoint,
		RetryPolicy: usecase.RetryPolicy{
			MaxAttempts:   cfg.Retry.MaxAttempts,
			SlowThreshold: cfg.Retry.SlowThreshold,
			SlowPause:     cfg.Retry.SlowPause,
			BackoffUnit:   cfg.Retry.BackoffUnit,
		},
		FeatureCount: cfg.Model.FeatureCount,
		Logger:       log,
	})

	// Create HTTP server
	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr), zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

func newEndpoint(ctx context.Context, cfg *config.EndpointConfig) (service.Endpoint, error) {
	if cfg.Backend == config.BackendContainer {
		return client.NewContainerClient(cfg.Name, cfg.BaseURL, cfg.Timeout), nil
	}

	runtime, err := awsclient.NewSageMakerRuntime(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.NewSageMakerClient(runtime, cfg.Name, cfg.Timeout), nil
}
