// Package main is the entry point for the ELD backend API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/brdigitals4u/ttm-eld-backend/internal/clock"
	"github.com/brdigitals4u/ttm-eld-backend/internal/config"
	"github.com/brdigitals4u/ttm-eld-backend/internal/handler"
	"github.com/brdigitals4u/ttm-eld-backend/internal/middleware"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
	"github.com/brdigitals4u/ttm-eld-backend/internal/service"
	"github.com/brdigitals4u/ttm-eld-backend/internal/telemetry"
	"github.com/brdigitals4u/ttm-eld-backend/migrations"
)

// maxRequestBody bounds incoming JSON bodies. Status changes and
// certifications are small; 1MB leaves generous headroom.
const maxRequestBody = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// Apply pending migrations on startup so deploys never race the schema.
	// goose needs database/sql, so it gets its own short-lived connection.
	if err := migrateUp(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database schema up to date")

	// --- Services ---------------------------------------------------------
	events := repo.NewEventRepo(pool)
	logs := repo.NewDailyLogRepo(pool)
	settingsRepo := repo.NewSettingsRepo(pool)
	audit := repo.NewAuditRepo(pool)

	clk := clock.System{}
	locks := service.NewDriverLocks()
	settings := service.NewSettingsService(settingsRepo, cfg.HomeTerminalTZ)

	// The telemetry feed is optional: without a broker, status changes simply
	// carry only caller-supplied locations.
	var locations service.LocationProvider
	if cfg.MQTTBrokerURL != "" {
		feed, err := telemetry.New(cfg.MQTTBrokerURL, logger)
		if err != nil {
			slog.Error("failed to connect telemetry feed", "error", err)
			os.Exit(1)
		}
		defer feed.Close()
		locations = feed
		slog.Info("telemetry feed connected", "broker", cfg.MQTTBrokerURL)
	}

	status := service.NewStatusService(events, logs, settings, clk, locks, locations)
	clocks := service.NewClockService(events, logs, settings, clk)
	certs := service.NewCertificationService(events, logs, audit, settings, clk, locks)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	api := handler.NewServer(status, clocks, certs, settings)
	r.Mount("/", api.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrateUp applies all pending embedded migrations.
func migrateUp(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
