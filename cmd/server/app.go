package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dimitry-co/ai-study-buddy/internal/api"
	"github.com/dimitry-co/ai-study-buddy/internal/api/middleware"
	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/generation"
	"github.com/dimitry-co/ai-study-buddy/internal/platform/logger"
	openaiplatform "github.com/dimitry-co/ai-study-buddy/internal/platform/openai"
	"github.com/dimitry-co/ai-study-buddy/internal/platform/postgres"
	"github.com/dimitry-co/ai-study-buddy/internal/service/auth"
	"github.com/dimitry-co/ai-study-buddy/internal/service/entitlement"
)

// application wires together configuration, storage, services, and the HTTP
// server.
type application struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	server *http.Server
}

// newApplication loads configuration and builds the full dependency graph.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	authService, err := auth.NewService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth service: %w", err)
	}

	entStore := postgres.NewEntitlementStore(db)
	gate := entitlement.NewGate(cfg.Entitlement, entStore)

	invoker := openaiplatform.NewInvoker(cfg.LLM)
	genTimeout := time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second
	genService := generation.NewService(cfg.Generation, invoker, genTimeout)

	genHandler := api.NewGenerationHandler(genService, gate)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(genHandler, authMiddleware),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &application{
		cfg:    cfg,
		logger: appLogger,
		db:     db,
		server: server,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled, then
// drains in-flight requests within the configured shutdown timeout.
func (app *application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "addr", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutting down",
		"timeout_seconds", app.cfg.Server.ShutdownTimeoutSeconds)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(app.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}

	app.logger.Info("server stopped")
	return nil
}
