/**
 * @description
 * This is the main entry point for the intent-service. Its primary role is
 * to start an HTTP server that serves the transfer orchestration API and
 * listens for incoming webhooks from the Chainrails platform.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Initializes a RabbitMQ producer to publish internal events based on
 *   verified webhooks.
 * - Runs a cron job that reconciles tracked intent statuses against the
 *   Chainrails API, in case webhook deliveries are lost.
 * - Implements graceful shutdown to ensure clean resource cleanup on
 *   termination.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: HTTP routing (wired in internal/api).
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - The service's internal packages for config, API handling, application
 *   logic, storage, and RabbitMQ integration.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chainrails/intent-service/internal/api"
	"github.com/chainrails/intent-service/internal/app"
	"github.com/chainrails/intent-service/internal/config"
	"github.com/chainrails/intent-service/internal/store"
	"github.com/chainrails/intent-service/pkg/chainrailsclient"
	"github.com/chainrails/intent-service/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	// Set up the RabbitMQ producer for internal intent events.
	producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, app.IntentEventsExchange)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer producer.Close()
	logger.Info("RabbitMQ producer connected", "exchange", app.IntentEventsExchange)

	// Wire the application: in-memory event log, webhook verifier, vendor
	// API client, and the orchestration service on top of them.
	eventLog := store.NewMemoryEventLog()
	verifier := app.NewVerifier(cfg.ChainrailsWebhookSecret, logger)
	client := chainrailsclient.NewClient(cfg.ChainrailsAPIURL, cfg.ChainrailsAPIKey)
	service := app.NewService(eventLog, verifier, producer, logger)

	// Start the intent status refresh job in the background.
	jobs := app.NewJobs(eventLog, client, producer, logger)
	scheduler := app.NewScheduler(jobs, logger)
	scheduler.Start(cfg.IntentRefreshSchedule)

	webhookHandler := api.NewWebhookHandler(service, logger)
	intentHandlers := api.NewIntentHandlers(client, service, logger)
	router := api.Routes(webhookHandler, intentHandlers, cfg.AllowedOrigins())

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("could not start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown logic.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("server gracefully stopped")
}
