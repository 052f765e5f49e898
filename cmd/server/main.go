package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grocerycompare/backend/config"
	httpDelivery "github.com/grocerycompare/backend/internal/delivery/http"
	"github.com/grocerycompare/backend/internal/domain"
	"github.com/grocerycompare/backend/internal/infrastructure/cache"
	"github.com/grocerycompare/backend/internal/infrastructure/grocer"
	"github.com/grocerycompare/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	setupLogger(cfg)

	slog.Info("starting grocery-compare backend",
		"version", httpDelivery.Version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"stores", cfg.Stores.Enabled)

	// Initialize infrastructure dependencies
	storeClient := grocer.NewClient(grocer.ClientConfig{
		BaseURLs:          cfg.StoreBaseURLs(),
		UserAgent:         cfg.Stores.UserAgent,
		Timeout:           cfg.Stores.Timeout,
		RequestsPerSecond: cfg.Stores.RequestsPerSecond,
		Burst:             cfg.Stores.Burst,
		MaxRetries:        cfg.Stores.MaxRetries,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		storeClient.SetDebug(true)
	}

	var catalogCache domain.CatalogCache
	if cfg.Cache.Enabled {
		catalogCache = cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		slog.Info("catalog cache enabled", "max_entries", cfg.Cache.MaxEntries, "ttl", cfg.Cache.TTL)
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(storeClient, catalogCache, usecase.CatalogServiceConfig{
		Stores:               cfg.EnabledStores(),
		MaxConcurrentFetches: cfg.Stores.MaxConcurrentFetches,
		EnableDebugLogging:   cfg.Matching.EnableDebugLogging,
	})
	comparisonService := usecase.NewComparisonService(catalogService, usecase.ComparisonServiceConfig{
		DeliveryFees:       cfg.DeliveryFees(),
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown gracefully", "err", err)
	}
}

// setupLogger installs the default slog logger: text in development, JSON elsewhere
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	var handler slog.Handler
	if cfg.Server.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
