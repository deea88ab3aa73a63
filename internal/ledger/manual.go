package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/jackc/pgx/v5"
)

// Manual-entry validation errors
var (
	ErrNonPositiveAmount = errors.New("manual entry amount must be positive")
	ErrSameAccount       = errors.New("debit and credit accounts must differ")
)

// Manual implements the ManualEntryService interface for admin-entered
// journal entries
type Manual struct {
	db       TxRunner
	accounts account.Repository
	journal  journal.Repository
	logger   *slog.Logger
}

// NewManual creates a new manual journal entry service
func NewManual(logger *slog.Logger, db TxRunner, accounts account.Repository, journalRepo journal.Repository) ManualEntryService {
	return &Manual{
		db:       db,
		accounts: accounts,
		journal:  journalRepo,
		logger:   logger,
	}
}

// PostManualEntry posts a two-line balanced entry debiting one account and
// crediting another
func (m *Manual) PostManualEntry(ctx context.Context, date time.Time, memo, debitCode, creditCode string, amountCents int64) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrNonPositiveAmount
	}
	if debitCode == creditCode {
		return 0, ErrSameAccount
	}

	var entryID int64
	err := m.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		ar := m.accounts.WithTx(tx)
		debitAcc, err := resolveAccount(ctx, ar, debitCode)
		if err != nil {
			return err
		}
		creditAcc, err := resolveAccount(ctx, ar, creditCode)
		if err != nil {
			return err
		}

		entry, err := journal.NewEntry(date, memo, journal.SourceManual, nil, []journal.Line{
			journal.DebitLine(debitAcc.ID, amountCents),
			journal.CreditLine(creditAcc.ID, amountCents),
		})
		if err != nil {
			return err
		}

		entryID, err = m.journal.WithTx(tx).PostEntry(ctx, entry)
		return err
	})
	if err != nil {
		return 0, err
	}

	m.logger.Info("Manual journal entry posted",
		"entry_id", entryID,
		"debit_code", debitCode,
		"credit_code", creditCode,
		"amount_cents", amountCents,
	)

	return entryID, nil
}
