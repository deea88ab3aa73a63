package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_name, total_cents, amount_paid_cents, balance_due_cents, status, due_date, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		inv.ID,
		inv.CustomerName,
		inv.TotalCents,
		inv.AmountPaidCents,
		inv.BalanceDueCents,
		inv.Status,
		inv.DueDate,
		inv.PaidDate,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", "id", inv.ID.String(), "error", err)
		return fmt.Errorf("failed to create invoice: %w", mapSchemaErr(err))
	}

	return nil
}

// GetByID retrieves an invoice by its ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT id, customer_name, total_cents, amount_paid_cents, balance_due_cents, status, due_date, paid_date, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	return r.getOne(ctx, query, id)
}

// LockForUpdate obtains a row lock on the invoice for payment application.
// Must run inside a transaction so the idempotency check and the field update
// are not interleaved with a concurrent payment for the same invoice.
func (r *InvoiceRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT id, customer_name, total_cents, amount_paid_cents, balance_due_cents, status, due_date, paid_date, created_at, updated_at
		FROM invoices
		WHERE id = $1
		FOR UPDATE
	`

	return r.getOne(ctx, query, id)
}

// UpdatePayment persists the payment-mutable fields after ApplyPayment
func (r *InvoiceRepository) UpdatePayment(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET amount_paid_cents = $1, balance_due_cents = $2, status = $3, paid_date = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.querier.Exec(ctx, query,
		inv.AmountPaidCents,
		inv.BalanceDueCents,
		inv.Status,
		inv.PaidDate,
		inv.UpdatedAt,
		inv.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice payment fields", "id", inv.ID.String(), "error", err)
		return fmt.Errorf("failed to update invoice payment fields: %w", mapSchemaErr(err))
	}

	if result.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound{InvoiceID: inv.ID}
	}

	return nil
}

func (r *InvoiceRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&inv.ID,
		&inv.CustomerName,
		&inv.TotalCents,
		&inv.AmountPaidCents,
		&inv.BalanceDueCents,
		&inv.Status,
		&inv.DueDate,
		&inv.PaidDate,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound{InvoiceID: id}
		}
		r.logger.Error("Failed to get invoice", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get invoice: %w", mapSchemaErr(err))
	}

	return &inv, nil
}
