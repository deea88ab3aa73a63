package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/server/handler"
	"github.com/99redder/eastern-shore-ai/internal/server/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	journalHandler *handler.JournalHandler,
	factsHandler *handler.FactsHandler,
	invoiceHandler *handler.InvoiceHandler,
	webhookHandler *handler.WebhookHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Journal operations
		journal := v1.Group("/journal")
		{
			journal.POST("/entries", journalHandler.CreateEntry)
			journal.GET("/accounts", journalHandler.ListAccounts)
			journal.GET("/accounts/:code/balance", journalHandler.GetBalance)
			journal.POST("/close-year", journalHandler.CloseYear)
			journal.POST("/rebuild", journalHandler.Rebuild)
		}

		// Business facts feeding the auto-journal
		expenses := v1.Group("/expenses")
		{
			expenses.POST("", factsHandler.CreateExpense)
			expenses.GET("", factsHandler.ListExpenses)
			expenses.DELETE("/:id", factsHandler.DeleteExpense)
		}
		income := v1.Group("/income")
		{
			income.POST("", factsHandler.CreateIncome)
			income.GET("", factsHandler.ListIncome)
			income.DELETE("/:id", factsHandler.DeleteIncome)
		}
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", factsHandler.CreateTransfer)
			transfers.GET("", factsHandler.ListTransfers)
			transfers.DELETE("/:id", factsHandler.DeleteTransfer)
		}

		// Invoice operations
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("/:id", invoiceHandler.GetByID)
			invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
		}

		// Payment gateway webhook
		v1.POST("/webhooks/payments", webhookHandler.PaymentEvent)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
