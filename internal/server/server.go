package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/99redder/eastern-shore-ai/internal/config"
	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/99redder/eastern-shore-ai/internal/server/handler"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// NewServer creates and configures a new HTTP server with the given ledger services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	chart ledger.ChartService,
	manual ledger.ManualEntryService,
	closer ledger.CloserService,
	generator ledger.GeneratorService,
	facts ledger.FactsService,
	payments ledger.PaymentService,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	journalHandler := handler.NewJournalHandler(log, chart, manual, closer, generator)
	factsHandler := handler.NewFactsHandler(log, facts)
	invoiceHandler := handler.NewInvoiceHandler(log, payments)
	webhookHandler := handler.NewWebhookHandler(log, payments)

	setupRouter(log, httpRouter, journalHandler, factsHandler, invoiceHandler, webhookHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
