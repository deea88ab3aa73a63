// Package ledger implements the double-entry accounting core: the chart
// registry, the auto-journal generator, the idempotent invoice payment
// poster, and the year-end closer. Every mutation of journal or invoice
// state is funneled through the services here, each executing as a single
// transaction against the relational store.
package ledger

import (
	"context"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxRunner runs a function inside a single database transaction.
// *persistence.PostgresDB satisfies it.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ChartService exposes the account registry
type ChartService interface {
	// EnsureSeeded inserts any missing chart rows; idempotent
	EnsureSeeded(ctx context.Context) error

	// ListAccounts returns the active chart of accounts ordered by code
	ListAccounts(ctx context.Context) ([]*account.Account, error)

	// AccountBalance derives an account's balance from the journal,
	// optionally restricted to one calendar year
	AccountBalance(ctx context.Context, code string, year *int) (*account.Account, int64, error)
}

// GeneratorService derives journal entries from business facts
type GeneratorService interface {
	// UpsertExpense regenerates the journal projection of one expense fact
	UpsertExpense(ctx context.Context, rec *record.ExpenseRecord) error

	// UpsertIncome regenerates the journal projection of one income fact
	UpsertIncome(ctx context.Context, rec *record.IncomeRecord) error

	// UpsertTransfer regenerates the journal projection of one owner transfer
	UpsertTransfer(ctx context.Context, tr *record.OwnerTransfer) error

	// RebuildAll re-derives every auto-journal in the system. This is the
	// recovery path after a mapping-policy change or a failed projection.
	RebuildAll(ctx context.Context) (*RebuildReport, error)
}

// FactsService records business facts and keeps their journal projections current
type FactsService interface {
	RecordExpense(ctx context.Context, rec *record.ExpenseRecord) error
	RecordIncome(ctx context.Context, rec *record.IncomeRecord) error
	RecordTransfer(ctx context.Context, tr *record.OwnerTransfer) error

	ListExpenses(ctx context.Context, page, perPage int) ([]*record.ExpenseRecord, int64, error)
	ListIncome(ctx context.Context, page, perPage int) ([]*record.IncomeRecord, int64, error)
	ListTransfers(ctx context.Context, page, perPage int) ([]*record.OwnerTransfer, error)

	// Delete operations remove the fact and its journal generation atomically
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	DeleteIncome(ctx context.Context, id uuid.UUID) error
	DeleteTransfer(ctx context.Context, id uuid.UUID) error
}

// PaymentRequest carries one payment event from either the admin action or
// the payment-gateway webhook. The external event id makes retries of the
// same event idempotent.
type PaymentRequest struct {
	InvoiceID       uuid.UUID
	AmountCents     int64
	ExternalEventID string
	Category        string    // income category, defaults to Service Revenue
	SourceTag       string    // e.g. gateway session id or "manual"
	OccurredAt      time.Time // when the payment actually happened
}

// PaymentResult reports the invoice state after a payment application
type PaymentResult struct {
	InvoiceID       uuid.UUID      `json:"invoice_id"`
	AppliedCents    int64          `json:"applied_cents"`
	AmountPaidCents int64          `json:"amount_paid_cents"`
	BalanceDueCents int64          `json:"balance_due_cents"`
	Status          invoice.Status `json:"status"`
	DuplicateEvent  bool           `json:"duplicate_event"`
}

// PaymentService applies payments to invoices exactly once per external event
type PaymentService interface {
	CreateInvoice(ctx context.Context, customerName string, totalCents int64, dueDate *time.Time) (*invoice.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)

	// ApplyInvoicePayment applies a payment to the invoice and the books
	// exactly once per (invoiceID, externalEventID). Safe to retry.
	ApplyInvoicePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// ClosingStep describes one planned or applied closing entry
type ClosingStep struct {
	Sequence    int    `json:"sequence"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// ClosingResult reports a year-end close preview or application
type ClosingResult struct {
	Year              int           `json:"year"`
	IncomeTotalCents  int64         `json:"income_total_cents"`
	ExpenseTotalCents int64         `json:"expense_total_cents"`
	NetCents          int64         `json:"net_cents"`
	Steps             []ClosingStep `json:"steps"`
	Applied           bool          `json:"applied"`
}

// CloserService performs the year-end closing procedure
type CloserService interface {
	// CloseFiscalYear previews or applies the close for one calendar year.
	// Re-applying the same year deletes and reposts the closing entries.
	CloseFiscalYear(ctx context.Context, year int, apply bool) (*ClosingResult, error)
}

// ManualEntryService posts admin-entered journal entries
type ManualEntryService interface {
	// PostManualEntry posts a simple two-line balanced entry.
	// Fails if the amount is not positive or both codes are the same.
	PostManualEntry(ctx context.Context, date time.Time, memo, debitCode, creditCode string, amountCents int64) (int64, error)
}
