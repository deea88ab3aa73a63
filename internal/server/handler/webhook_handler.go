package handler

import (
	"log/slog"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// eventCheckoutCompleted is the only gateway event type that posts money
const eventCheckoutCompleted = "checkout.session.completed"

// WebhookHandler handles payment-gateway webhook deliveries. Gateways retry
// aggressively, so the handler leans on the payment service's event-level
// idempotency and always acknowledges events it has already seen.
type WebhookHandler struct {
	payments ledger.PaymentService
	logger   *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *slog.Logger, payments ledger.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		payments: payments,
		logger:   logger,
	}
}

// PaymentEvent ingests one gateway event. Event types other than completed
// checkout sessions are acknowledged and ignored.
func (h *WebhookHandler) PaymentEvent(c *gin.Context) {
	var req PaymentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid webhook payload", "error", err)
		RespondBadRequest(c, "Invalid webhook payload: "+err.Error())
		return
	}

	if req.EventType != eventCheckoutCompleted {
		h.logger.Info("Ignoring webhook event", "eventType", req.EventType, "eventID", req.EventID)
		RespondOK(c, gin.H{"ignored": true, "event_type": req.EventType})
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	occurredAt := time.Now().UTC()
	if req.CreatedAt > 0 {
		occurredAt = time.Unix(req.CreatedAt, 0).UTC()
	}

	sourceTag := req.SessionID
	if sourceTag == "" {
		sourceTag = req.EventID
	}

	result, err := h.payments.ApplyInvoicePayment(c.Request.Context(), ledger.PaymentRequest{
		InvoiceID:       invoiceID,
		AmountCents:     req.AmountCents,
		ExternalEventID: req.EventID,
		SourceTag:       sourceTag,
		OccurredAt:      occurredAt,
	})
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	if result.DuplicateEvent {
		h.logger.Info("Duplicate webhook delivery absorbed", "eventID", req.EventID, "invoiceID", invoiceID.String())
	}
	RespondOK(c, result)
}
