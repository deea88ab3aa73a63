package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FactsHandler handles HTTP requests for the business facts that feed the
// auto-journal: expenses, income and owner transfers.
type FactsHandler struct {
	facts  ledger.FactsService
	logger *slog.Logger
}

// NewFactsHandler creates a new facts handler
func NewFactsHandler(logger *slog.Logger, facts ledger.FactsService) *FactsHandler {
	return &FactsHandler{
		facts:  facts,
		logger: logger,
	}
}

// CreateExpense records an expense fact and projects it into the journal
func (h *FactsHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	rec := &record.ExpenseRecord{
		ID:          uuid.New(),
		Date:        date,
		Category:    req.Category,
		AmountCents: *req.AmountCents,
		PaidVia:     req.PaidVia,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.facts.RecordExpense(c.Request.Context(), rec); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, rec)
}

// ListExpenses returns a page of expense facts
func (h *FactsHandler) ListExpenses(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, total, err := h.facts.ListExpenses(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, records, params.Page, params.PerPage, int(total))
}

// DeleteExpense removes an expense fact and its journal generation
func (h *FactsHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	if err := h.facts.DeleteExpense(c.Request.Context(), id); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

// CreateIncome records an income fact and projects it into the journal. When
// the owner_funded flag is omitted it is inferred from the category and
// source tag, matching how legacy rows were classified.
func (h *FactsHandler) CreateIncome(c *gin.Context) {
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	ownerFunded := record.OwnerFundedHint(req.Category, req.SourceTag)
	if req.OwnerFunded != nil {
		ownerFunded = *req.OwnerFunded
	}

	rec := &record.IncomeRecord{
		ID:          uuid.New(),
		Date:        date,
		Category:    req.Category,
		AmountCents: *req.AmountCents,
		SourceTag:   req.SourceTag,
		OwnerFunded: ownerFunded,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.facts.RecordIncome(c.Request.Context(), rec); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, rec)
}

// ListIncome returns a page of income facts
func (h *FactsHandler) ListIncome(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, total, err := h.facts.ListIncome(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, records, params.Page, params.PerPage, int(total))
}

// DeleteIncome removes an income fact and its journal generation
func (h *FactsHandler) DeleteIncome(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	if err := h.facts.DeleteIncome(c.Request.Context(), id); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

// CreateTransfer records an owner transfer and projects it into the journal
func (h *FactsHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	tr := &record.OwnerTransfer{
		ID:          uuid.New(),
		Date:        date,
		Type:        record.TransferType(req.Type),
		AmountCents: req.AmountCents,
		Notes:       req.Notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.facts.RecordTransfer(c.Request.Context(), tr); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, tr)
}

// ListTransfers returns a page of owner transfers
func (h *FactsHandler) ListTransfers(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	transfers, err := h.facts.ListTransfers(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, transfers)
}

// DeleteTransfer removes an owner transfer and its journal generation
func (h *FactsHandler) DeleteTransfer(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}

	if err := h.facts.DeleteTransfer(c.Request.Context(), id); err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

// parseRecordID parses the :id path parameter, responding 400 on failure
func parseRecordID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid record ID")
		return uuid.Nil, false
	}
	return id, true
}
