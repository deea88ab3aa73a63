package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines persistence for income/expense facts and owner transfers
type Repository interface {
	CreateIncome(ctx context.Context, rec *IncomeRecord) error
	GetIncomeByID(ctx context.Context, id uuid.UUID) (*IncomeRecord, error)

	// GetIncomeByDedupeKey looks up the income record carrying a payment
	// idempotency key. Returns nil, nil when no such record exists.
	GetIncomeByDedupeKey(ctx context.Context, key string) (*IncomeRecord, error)

	ListIncome(ctx context.Context, limit, offset int) ([]*IncomeRecord, error)
	CountIncome(ctx context.Context) (int64, error)
	DeleteIncome(ctx context.Context, id uuid.UUID) error

	CreateExpense(ctx context.Context, rec *ExpenseRecord) error
	GetExpenseByID(ctx context.Context, id uuid.UUID) (*ExpenseRecord, error)
	ListExpenses(ctx context.Context, limit, offset int) ([]*ExpenseRecord, error)
	CountExpenses(ctx context.Context) (int64, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreateTransfer(ctx context.Context, tr *OwnerTransfer) error
	GetTransferByID(ctx context.Context, id uuid.UUID) (*OwnerTransfer, error)
	ListTransfers(ctx context.Context, limit, offset int) ([]*OwnerTransfer, error)
	DeleteTransfer(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrRecordNotFound indicates a missing income/expense/transfer record
type ErrRecordNotFound struct {
	Kind string
	ID   uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return e.Kind + " record not found: " + e.ID.String()
}
