package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dealflowhq/dealflow/internal/config"
	_ "github.com/dealflowhq/dealflow/internal/entity" // Register all entity kinds
	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/dealflowhq/dealflow/internal/logging"
	"github.com/dealflowhq/dealflow/internal/store"
	"github.com/dealflowhq/dealflow/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"auth_required", cfg.Security.RequireAPIKey,
	)

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		slog.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	// Create service wired to the Postgres-backed draft store
	drafts := store.NewDraftStore(pool)
	service := importer.NewService(pool, drafts, importer.ServiceConfig{
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Timeout:       cfg.Import.Timeout,
	})

	slog.Info("entity kinds registered", "count", len(importer.All()))

	server, err := web.NewServer(service, cfg)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
