package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/gin-gonic/gin"
)

// JournalHandler handles HTTP requests for the journal surface: manual
// entries, the chart of accounts, derived balances, year-end closing and
// full rebuilds.
type JournalHandler struct {
	chart     ledger.ChartService
	manual    ledger.ManualEntryService
	closer    ledger.CloserService
	generator ledger.GeneratorService
	logger    *slog.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(
	logger *slog.Logger,
	chart ledger.ChartService,
	manual ledger.ManualEntryService,
	closer ledger.CloserService,
	generator ledger.GeneratorService,
) *JournalHandler {
	return &JournalHandler{
		chart:     chart,
		manual:    manual,
		closer:    closer,
		generator: generator,
		logger:    logger,
	}
}

// CreateEntry posts an admin manual journal entry
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	var req CreateManualEntryRequest
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

	entryID, err := h.manual.PostManualEntry(c.Request.Context(), date, req.Memo, req.DebitCode, req.CreditCode, req.AmountCents)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondCreated(c, ManualEntryResponse{EntryID: entryID})
}

// ListAccounts returns the active chart of accounts
func (h *JournalHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.chart.ListAccounts(c.Request.Context())
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// GetBalance derives one account's balance from the journal, optionally
// restricted to a calendar year via the ?year query parameter
func (h *JournalHandler) GetBalance(c *gin.Context) {
	code := c.Param("code")

	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid year")
			return
		}
		year = &y
	}

	acc, balance, err := h.chart.AccountBalance(c.Request.Context(), code, year)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, AccountBalanceResponse{
		Code:         acc.Code,
		Name:         acc.Name,
		NormalSide:   string(acc.NormalSide),
		BalanceCents: balance,
		Year:         year,
	})
}

// CloseYear previews or applies the year-end close for one calendar year
func (h *JournalHandler) CloseYear(c *gin.Context) {
	var req CloseYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.closer.CloseFiscalYear(c.Request.Context(), req.Year, req.Apply)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, result)
}

// Rebuild re-derives every auto-generated journal entry from the stored facts
func (h *JournalHandler) Rebuild(c *gin.Context) {
	report, err := h.generator.RebuildAll(c.Request.Context())
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	RespondOK(c, report)
}

// mapAccountToResponse maps a chart account to its response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		Code:       acc.Code,
		Name:       acc.Name,
		Type:       string(acc.Type),
		NormalSide: string(acc.NormalSide),
		IsSystem:   acc.IsSystem,
		Active:     acc.Active,
	}
}
