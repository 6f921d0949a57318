package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apexpest/crm-platform/internal/api/router"
	"github.com/apexpest/crm-platform/internal/app/bootstrap"
	"github.com/apexpest/crm-platform/internal/calls"
	appconfig "github.com/apexpest/crm-platform/internal/config"
	"github.com/apexpest/crm-platform/internal/customers"
	"github.com/apexpest/crm-platform/internal/events"
	"github.com/apexpest/crm-platform/internal/http/handlers"
	"github.com/apexpest/crm-platform/internal/leads"
	"github.com/apexpest/crm-platform/internal/notify"
	"github.com/apexpest/crm-platform/internal/observability/metrics"
	"github.com/apexpest/crm-platform/pkg/logging"
)

func main() {
	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting crm-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database not reachable", "error", err)
		os.Exit(1)
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	companyStore := bootstrap.BuildCompanyStore(pool, redisClient, cfg, logger)
	customerRepo := customers.NewPostgresRepository(pool)
	leadRepo := leads.NewPostgresRepository(pool)
	callRepo := calls.NewPostgresRepository(pool)
	processedStore := events.NewProcessedStore(pool)

	emailSender := bootstrap.BuildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, companyStore, logger)

	telephonyMetrics := metrics.NewTelephonyMetrics(nil)

	webhookHandler := handlers.NewRetellWebhookHandler(handlers.RetellWebhookConfig{
		Secret:        cfg.RetellWebhookSecret,
		Companies:     companyStore,
		Customers:     customerRepo,
		Leads:         leadRepo,
		Calls:         callRepo,
		Processed:     processedStore,
		Notifier:      notifier,
		Metrics:       telephonyMetrics,
		Logger:        logger,
		NotifyTimeout: cfg.NotifyTimeout,
	})

	r := router.New(&router.Config{
		Logger:            logger,
		RetellWebhook:     webhookHandler,
		WebhookRateLimit:  cfg.RetellRateLimit,
		WebhookRateWindow: cfg.RetellRateWindow,
		MetricsHandler:    promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
