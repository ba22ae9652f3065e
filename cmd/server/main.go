package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jrmart12/nayos/internal"
	"github.com/jrmart12/nayos/internal/cart"
	"github.com/jrmart12/nayos/internal/catalog"
	"github.com/jrmart12/nayos/internal/checkout"
	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/handler/storefront"
	"github.com/jrmart12/nayos/internal/middleware"
	"github.com/jrmart12/nayos/internal/receipt"
	"github.com/jrmart12/nayos/internal/router"
	"github.com/jrmart12/nayos/internal/settings"
	"github.com/jrmart12/nayos/internal/snapshot"
	"github.com/jrmart12/nayos/internal/storage"
	"github.com/jrmart12/nayos/internal/telemetry"
	"github.com/jrmart12/nayos/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Snapshot store: Postgres when a database is configured, local files
	// otherwise.
	var store snapshot.Store
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		store = snapshot.NewPostgresStore(pool)
	} else {
		logger.Info("No database configured, using file snapshot store", "path", cfg.SnapshotPath)
		local, err := snapshot.NewLocalStore(cfg.SnapshotPath)
		if err != nil {
			return fmt.Errorf("failed to initialize snapshot store: %w", err)
		}
		store = local
	}

	// Catalog
	logger.Info("Loading catalog...", "path", cfg.CatalogPath)
	menu, err := catalog.NewFileCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Merchant settings
	settingsService, err := settings.New(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Receipt storage
	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	uploader := receipt.NewUploader(blobs)

	// Delivery pricing
	quoter := delivery.NewBridgeZoneQuoter(delivery.LaCeibaBridges, cfg.Delivery)

	// Cart and checkout services
	carts := cart.NewService(store, logger)
	checkouts := checkout.NewManager(carts, store, settingsService, quoter, logger, checkout.Config{
		ClearCartOnHandoff: cfg.ClearCartOnHandoff,
	})

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("nayos")
	funnel := telemetry.NewBusinessMetrics("nayos")

	storefrontHandler := storefront.NewHandler(menu, carts, checkouts, uploader, settingsService, logger, storefront.Config{
		SecureCookies: cfg.Env == "prod",
		Metrics:       funnel,
	})

	// Stale carts and customer snapshots are swept in the background.
	if purger, ok := store.(snapshot.Purger); ok {
		sweeper := worker.NewSweeper(purger, logger, worker.Config{})
		go func() {
			if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("snapshot sweeper stopped", "error", err)
			}
		}()
	}

	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		middleware.AccessLog,
		middleware.Recovery,
		metrics.Middleware,
	)

	// Metrics endpoint (protect in production via firewall)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Locally stored receipt uploads are served by this process; R2 serves
	// its own public URLs.
	if cfg.Storage.Provider == "local" {
		r.Static(cfg.Storage.LocalURL+"/", cfg.Storage.LocalPath)
	}

	storefrontHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
