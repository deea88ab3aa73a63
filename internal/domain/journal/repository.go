package journal

import (
	"context"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/jackc/pgx/v5"
)

// DateRange bounds a balance query to [From, To] inclusive. A zero value on
// either side leaves that side unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// YearRange returns the calendar-year range for a fiscal year
func YearRange(year int) DateRange {
	return DateRange{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// AccountBalance pairs an account with its derived balance over some range
type AccountBalance struct {
	Account      *account.Account
	BalanceCents int64
}

// SourceRef names one source tuple, used to exclude a generation of entries
// from a balance query
type SourceRef struct {
	Type SourceType
	ID   string
}

// Repository defines journal persistence operations. Balances are always
// derived by summing journal lines; no cached balance column exists to drift
// from the journal of record.
type Repository interface {
	// PostEntry validates and inserts a balanced entry with its lines.
	// Returns the new entry id.
	PostEntry(ctx context.Context, entry *Entry) (int64, error)

	// GetBySource retrieves all entries (with lines) for one source tuple
	GetBySource(ctx context.Context, sourceType SourceType, sourceID string) ([]*Entry, error)

	// DeleteBySource removes all lines then entries for one source tuple.
	// Called before every regeneration of an auto-journal.
	DeleteBySource(ctx context.Context, sourceType SourceType, sourceID string) error

	// Balance computes an account's balance on its normal side by summing
	// journal lines, optionally bounded by a date range
	Balance(ctx context.Context, accountID int64, dateRange *DateRange) (int64, error)

	// BalancesByType computes nonzero balances for every account of a type
	// over a date range, ordered by code. Entries matching excludeSource are
	// left out, so a close preview can ignore a prior close of the same year.
	BalancesByType(ctx context.Context, accType account.Type, dateRange *DateRange, excludeSource *SourceRef) ([]AccountBalance, error)

	// TrialBalance returns total debits minus total credits across every
	// journal line ever posted. Zero on a consistent ledger.
	TrialBalance(ctx context.Context) (int64, error)

	WithTx(tx pgx.Tx) Repository
}
