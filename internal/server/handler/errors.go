package handler

import (
	"errors"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/99redder/eastern-shore-ai/internal/ledger"
	"github.com/gin-gonic/gin"
)

// respondLedgerError maps core ledger errors onto the HTTP error taxonomy:
// missing schema is a 503 deployment precondition, unknown entities are 404,
// validation failures are 4xx, everything else is a 500.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	var accNotFound account.ErrAccountNotFound
	var invNotFound invoice.ErrInvoiceNotFound
	var recNotFound record.ErrRecordNotFound
	var unbalanced journal.ErrUnbalancedEntry

	switch {
	case errors.Is(err, account.ErrLedgerNotProvisioned):
		RespondServiceUnavailable(c, err.Error())

	case errors.As(err, &accNotFound),
		errors.As(err, &invNotFound),
		errors.As(err, &recNotFound):
		RespondNotFound(c, err.Error())

	case errors.As(err, &unbalanced),
		errors.Is(err, journal.ErrNoLines),
		errors.Is(err, journal.ErrNegativeLine),
		errors.Is(err, journal.ErrAmbiguousLineSide),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, record.ErrInvalidTransferType),
		errors.Is(err, record.ErrInvalidAmount),
		errors.Is(err, invoice.ErrInvalidPayment),
		errors.Is(err, invoice.ErrMissingEventID),
		errors.Is(err, invoice.ErrEmptyCustomer),
		errors.Is(err, invoice.ErrInvalidTotal),
		errors.Is(err, account.ErrInactiveAccount):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, invoice.ErrAlreadyPaid),
		errors.Is(err, invoice.ErrInvoiceVoid):
		RespondConflict(c, err.Error())

	default:
		logger.Error("Unhandled ledger error", "error", err)
		RespondInternalError(c)
	}
}
