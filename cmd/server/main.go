// Package main implements the entry point for the TaskHive server, a
// collaborative task tracker with JWT authentication, audit logging and
// realtime update fan-out over websockets.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/platform/postgres"
	"github.com/taskhive/taskhive/internal/realtime"
	"github.com/taskhive/taskhive/internal/service"
	"github.com/taskhive/taskhive/internal/service/auth"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run initializes configuration, logging, the database, all services and
// the HTTP server, then blocks until shutdown completes.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations applied")

	// Stores
	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)
	txManager := postgres.NewTaskTxManager(db, taskStore)

	// Auth service
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}
	authService := auth.NewService(
		userStore,
		jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		cfg.Auth,
		log,
	)

	// Events and realtime fan-out. The hub receives every task lifecycle
	// event and broadcasts it to all connected websocket clients.
	emitter := events.NewInMemoryEventEmitter(log)
	hub := realtime.NewHub(log)
	emitter.RegisterHandler(hub)
	go hub.Run(ctx)

	taskService := service.NewTaskService(taskStore, txManager, emitter, log)

	wsHandler := realtime.NewHandler(hub, authService, cfg.Server.AllowedOrigins, log)

	router := newRouter(authService, taskService, wsHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
