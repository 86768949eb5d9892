package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bankcore-ledger/internal/api"
	"github.com/bankcore-ledger/internal/auth"
	"github.com/bankcore-ledger/internal/config"
	"github.com/bankcore-ledger/internal/data/postgres"
	"github.com/bankcore-ledger/internal/engine"
	"github.com/bankcore-ledger/internal/events"
	"github.com/bankcore-ledger/internal/logger"
	"github.com/bankcore-ledger/internal/platform/messaging/producers"
	"github.com/bankcore-ledger/internal/platform/persistence"
)

func main() {
	// Base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize PostgreSQL: the storage handle is opened once here, passed
	// into the repositories, and closed at shutdown
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for committed ledger events
	eventProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize ledger event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB.Pool())
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB.Pool())
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB.Pool())
	credentialRepo := postgres.NewCredentialRepository(log, postgresDB.Pool())

	// Initialize the ledger engine and the auth collaborator
	ledgerEngine := engine.New(log, postgresDB.Pool(), accountRepo, ledgerRepo, outboxRepo)
	authService := auth.NewService(log, postgresDB.Pool(), credentialRepo, accountRepo, cfg.Auth.BcryptCost)

	// Initialize the outbox poller
	poller, err := events.NewPoller(&cfg.Outbox, cfg.WorkerPool.Size, outboxRepo, eventProducer, log)
	if err != nil {
		log.Error("Failed to initialize outbox poller", "error", err)
		os.Exit(1)
	}
	go poller.Start(appCtx)

	// Initialize REST server
	server := api.NewServer(log, cfg, authService, ledgerEngine)
	log.Info("REST server initialized")

	// Error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context; this stops the outbox poller
	cancelAppCtx()

	// Shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new operations arrive
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Release the outbox worker pool and close the event producer
	poller.Shutdown()
	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing ledger event producer", "error", err)
	}

	// Close the storage handle last
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
