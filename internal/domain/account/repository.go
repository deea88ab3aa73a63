package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrLedgerNotProvisioned indicates the ledger schema migrations have not been
// applied. This is a deployment precondition failure, not a recoverable state.
var ErrLedgerNotProvisioned = errors.New("ledger not provisioned: schema migrations have not been applied")

// Repository defines chart-of-accounts persistence operations
type Repository interface {
	// GetByCode retrieves an account by its chart code
	// Returns ErrAccountNotFound if no such account exists
	GetByCode(ctx context.Context, code string) (*Account, error)

	// EnsureByCode gets or creates an account, used for self-healing system
	// accounts such as Income Summary (3900)
	EnsureByCode(ctx context.Context, code, name string, accType Type, side NormalSide) (*Account, error)

	// EnsureSeeded inserts any missing rows of the fixed chart. Idempotent;
	// rows already present are left untouched.
	EnsureSeeded(ctx context.Context) error

	// ListActive returns all active accounts ordered by code
	ListActive(ctx context.Context) ([]*Account, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates a chart code with no matching account
type ErrAccountNotFound struct {
	Code string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found for code: " + e.Code
}
