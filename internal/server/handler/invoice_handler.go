package handler

import (
	"log/slog"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles HTTP requests for invoices and the admin "record
// payment" action
type InvoiceHandler struct {
	payments ledger.PaymentService
	logger   *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, payments ledger.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{
		payments: payments,
		logger:   logger,
	}
}

// Create handles creation of a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		d, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			RespondBadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		dueDate = &d
	}

	inv, err := h.payments.CreateInvoice(c.Request.Context(), req.CustomerName, req.TotalCents, dueDate)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, inv)
}

// GetByID retrieves an invoice by its ID, returning 404 if not found
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	inv, err := h.payments.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, inv)
}

// RecordPayment applies a manually recorded payment to an invoice. Retries
// with the same external event id return the current invoice state with
// duplicate_event set instead of double-posting.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := parseInvoiceID(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != "" {
		t, err := time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			RespondBadRequest(c, "Invalid occurred_at, expected YYYY-MM-DD")
			return
		}
		occurredAt = t
	}

	result, err := h.payments.ApplyInvoicePayment(c.Request.Context(), ledger.PaymentRequest{
		InvoiceID:       id,
		AmountCents:     req.AmountCents,
		ExternalEventID: req.ExternalEventID,
		Category:        req.Category,
		SourceTag:       "manual",
		OccurredAt:      occurredAt,
	})
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, result)
}

// parseInvoiceID parses the :id path parameter, responding 400 on failure
func parseInvoiceID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return uuid.Nil, false
	}
	return id, true
}
