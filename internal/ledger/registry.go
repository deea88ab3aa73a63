package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
)

// Registry implements the ChartService interface over the account repository
type Registry struct {
	accounts account.Repository
	journal  journal.Repository
	logger   *slog.Logger
}

// NewRegistry creates a new chart-of-accounts registry service
func NewRegistry(logger *slog.Logger, accounts account.Repository, journalRepo journal.Repository) ChartService {
	return &Registry{
		accounts: accounts,
		journal:  journalRepo,
		logger:   logger,
	}
}

// EnsureSeeded inserts any missing rows of the fixed chart. Run once at
// startup, after migrations; not on the request path.
func (r *Registry) EnsureSeeded(ctx context.Context) error {
	if err := r.accounts.EnsureSeeded(ctx); err != nil {
		return err
	}
	r.logger.Info("Chart of accounts verified", "accounts", len(account.Chart))
	return nil
}

// ListAccounts returns the active chart of accounts ordered by code
func (r *Registry) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return r.accounts.ListActive(ctx)
}

// AccountBalance derives an account's balance on its normal side by summing
// journal lines, optionally restricted to one calendar year
func (r *Registry) AccountBalance(ctx context.Context, code string, year *int) (*account.Account, int64, error) {
	acc, err := r.accounts.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}

	var dateRange *journal.DateRange
	if year != nil {
		yr := journal.YearRange(*year)
		dateRange = &yr
	}

	balance, err := r.journal.Balance(ctx, acc.ID, dateRange)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compute balance for account %s: %w", code, err)
	}

	return acc, balance, nil
}

// resolveAccount looks up an account by code and enforces the invariant that
// journal lines reference only active accounts
func resolveAccount(ctx context.Context, accounts account.Repository, code string) (*account.Account, error) {
	acc, err := accounts.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !acc.Active {
		return nil, fmt.Errorf("account %s: %w", code, account.ErrInactiveAccount)
	}
	return acc, nil
}
