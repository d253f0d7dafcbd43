package bootstrap

import (
	"context"
	"fmt"

	"trackflow/internal/clients/kommo"
	"trackflow/internal/config"
	"trackflow/internal/observability"
	performanceHandler "trackflow/internal/performance/handler"
	performanceProcessor "trackflow/internal/performance/processor"
	kommoSource "trackflow/internal/sources/kommo"
	metaSource "trackflow/internal/sources/meta"
	"trackflow/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Handlers
	PerformanceHandler performanceHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize clients
	kommoClient := kommo.NewClient(cfg.Kommo.BaseURL, logger)

	// Initialize source adapters
	kommoAdapter := kommoSource.New(kommoClient, logger)
	metaAdapter := metaSource.New(&deps.Store, logger)

	// Initialize performance processor and handler
	processor := performanceProcessor.New(kommoAdapter, metaAdapter, &deps.Store, logger)
	deps.PerformanceHandler = performanceHandler.New(processor, logger)

	logger.Info(ctx, "Dependencies initialized")
	return deps, nil
}

// Cleanup releases resources held by the dependencies
func (d *Dependencies) Cleanup() {
	if db := d.Store.DB(); db != nil {
		_ = db.Close()
	}
}
