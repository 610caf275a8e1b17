package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/OpenNSW/tariff/internal/cache"
	"github.com/OpenNSW/tariff/internal/config"
	"github.com/OpenNSW/tariff/internal/database"
	"github.com/OpenNSW/tariff/internal/middleware"
	"github.com/OpenNSW/tariff/internal/observability"
	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/tariff"
	"github.com/OpenNSW/tariff/internal/tariff/reference"
	"github.com/OpenNSW/tariff/internal/tariff/service"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_enabled", cfg.Database.Enabled,
		"db_driver", cfg.Database.Driver,
		"reference_source", cfg.Reference.Source,
		"storage_type", cfg.Storage.Type,
		"cache_enabled", cfg.Cache.RedisAddr != "",
		"telemetry_enabled", cfg.Telemetry.Enabled,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
	)

	obs, err := observability.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown telemetry", "error", err)
		}
	}()

	// Initialize storage for journal exports and the storage reference source
	driver, err := storage.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	exports := storage.NewExportService(driver)

	// Initialize the optional database connection
	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()

		// Perform health check
		if err := database.HealthCheck(db); err != nil {
			log.Fatalf("database health check failed: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	// Load the reference dataset once before serving
	source, err := reference.NewSourceFromConfig(cfg.Reference, driver, db)
	if err != nil {
		log.Fatalf("failed to configure reference source: %v", err)
	}
	ref := reference.NewHolder(source)
	if _, err := ref.Get(ctx); err != nil {
		log.Fatalf("failed to load reference dataset: %v", err)
	}

	var resultCache service.ResultCache
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisResultCache(cfg.Cache)
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis cache unreachable, calculations will not be cached until it recovers",
				"addr", cfg.Cache.RedisAddr, "error", err)
		}
		defer func() {
			if err := rc.Close(); err != nil {
				slog.Error("failed to close redis cache", "error", err)
			}
		}()
		resultCache = rc
	}

	tm := tariff.NewManager(ref, resultCache, db, exports)

	// Set up HTTP routes
	mux := http.NewServeMux()
	tm.RegisterRoutes(mux)

	// Set up graceful shutdown
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS, telemetry and request logging
	handler := middleware.CORS(&cfg.CORS)(obs.Middleware(middleware.RequestLogger(mux)))

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
