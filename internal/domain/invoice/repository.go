package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines invoice persistence operations
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves an invoice by its ID
	// Returns ErrInvoiceNotFound if the invoice doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// LockForUpdate acquires a row lock on the invoice for payment application.
	// Must be called within a transaction.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// UpdatePayment persists the paid/balance/status/paid-date fields after a
	// payment application
	UpdatePayment(ctx context.Context, inv *Invoice) error

	WithTx(tx pgx.Tx) Repository
}

// ErrInvoiceNotFound indicates a missing invoice
type ErrInvoiceNotFound struct {
	InvoiceID uuid.UUID
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.InvoiceID.String()
}
