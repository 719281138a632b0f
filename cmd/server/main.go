package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/insulindose/interest-api/internal/api"
	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/metrics"
	"github.com/insulindose/interest-api/internal/notify"
	"github.com/insulindose/interest-api/internal/pkg/logger"
	"github.com/insulindose/interest-api/internal/repository/postgres"
	"github.com/insulindose/interest-api/internal/service/interest"
	"github.com/insulindose/interest-api/internal/turnstile"
)

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if cfg.Log.RedactPII != nil {
		logger.SetRedactPII(*cfg.Log.RedactPII)
	}

	if cfg.Database.URL == "" {
		logger.Error("database not configured: set database.url or DATABASE_URL")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		logger.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	if cfg.Admin.APIKey == "" {
		logger.Warn("ADMIN_API_KEY not set: admin listing endpoint will reject all requests")
	}

	m := metrics.New()

	verifier := turnstile.NewClient(cfg.Turnstile)
	if verifier == nil {
		logger.Info("turnstile verification disabled (no secret configured)")
	}

	notifier := notify.New(cfg.Notify, m)
	logger.Info("notifier selected", "provider", notifier.Provider())

	repo := postgres.NewInterestRepo(db)

	// interest.Verifier is satisfied by *turnstile.Client, but a typed nil
	// in the interface would dodge the service's nil check.
	var v interest.Verifier
	if verifier != nil {
		v = verifier
	}

	svc := interest.NewService(repo, v, notifier, m)
	handlers := api.NewHandlers(svc, m, !cfg.IsProduction())
	health := api.NewHealthChecker(db)

	router := api.SetupRoutes(handlers, health, cfg)
	server := api.NewServer(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "environment", cfg.Environment)
		errCh <- server.ListenAndServe(addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
