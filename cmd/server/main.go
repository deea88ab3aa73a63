package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/99redder/eastern-shore-ai/internal/config"
	"github.com/99redder/eastern-shore-ai/internal/data/postgres"
	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/99redder/eastern-shore-ai/internal/logger"
	"github.com/99redder/eastern-shore-ai/internal/platform/persistence"
	"github.com/99redder/eastern-shore-ai/internal/server"
)

func main() {
	// Create base context with cancellation
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

	// Initialize database with app context; runs schema and chart migrations
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	recordRepo := postgres.NewRecordRepository(log, postgresDB)
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)

	// Initialize ledger services
	chart := ledger.NewRegistry(log, accountRepo, journalRepo)
	generator := ledger.NewGenerator(log, postgresDB, accountRepo, journalRepo, recordRepo, cfg.WorkerPool.Size)
	facts := ledger.NewFacts(log, postgresDB, recordRepo, journalRepo, generator)
	payments := ledger.NewPoster(log, postgresDB, invoiceRepo, recordRepo, generator)
	closer := ledger.NewCloser(log, postgresDB, accountRepo, journalRepo)
	manual := ledger.NewManual(log, postgresDB, accountRepo, journalRepo)

	// Backfill any chart accounts the seed migration predates
	if err := chart.EnsureSeeded(appCtx); err != nil {
		log.Error("Failed to seed chart of accounts", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	srv := server.NewServer(log, cfg, chart, manual, closer, generator, facts, payments)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
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

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server before closing the pool it depends on
	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

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
