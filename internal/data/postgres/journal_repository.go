package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// JournalRepository implements the journal.Repository interface for PostgreSQL
type JournalRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewJournalRepository creates a new PostgreSQL journal repository
func NewJournalRepository(logger *slog.Logger, db *persistence.PostgresDB) journal.Repository {
	return &JournalRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *JournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return &JournalRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// PostEntry validates the balance invariant and inserts the entry with its
// lines. The invariant is checked on every write; an unbalanced entry never
// reaches the database.
func (r *JournalRepository) PostEntry(ctx context.Context, entry *journal.Entry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, err
	}

	entryQuery := `
		INSERT INTO journal_entries (entry_date, memo, source_type, source_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var entryID int64
	err := r.querier.QueryRow(ctx, entryQuery,
		entry.Date,
		entry.Memo,
		entry.SourceType,
		entry.SourceID,
	).Scan(&entryID)
	if err != nil {
		r.logger.Error("Failed to insert journal entry", "source_type", entry.SourceType, "error", err)
		return 0, fmt.Errorf("failed to insert journal entry: %w", mapSchemaErr(err))
	}

	lineQuery := `
		INSERT INTO journal_lines (entry_id, account_id, debit_cents, credit_cents)
		VALUES ($1, $2, $3, $4)
	`

	for _, line := range entry.Lines {
		if _, err := r.querier.Exec(ctx, lineQuery, entryID, line.AccountID, line.DebitCents, line.CreditCents); err != nil {
			r.logger.Error("Failed to insert journal line", "entry_id", entryID, "account_id", line.AccountID, "error", err)
			return 0, fmt.Errorf("failed to insert journal line: %w", mapSchemaErr(err))
		}
	}

	entry.ID = entryID
	return entryID, nil
}

// GetBySource retrieves all entries with their lines for one source tuple
func (r *JournalRepository) GetBySource(ctx context.Context, sourceType journal.SourceType, sourceID string) ([]*journal.Entry, error) {
	entryQuery := `
		SELECT id, entry_date, memo, source_type, source_id, created_at
		FROM journal_entries
		WHERE source_type = $1 AND source_id = $2
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, entryQuery, sourceType, sourceID)
	if err != nil {
		r.logger.Error("Failed to get journal entries by source", "source_type", sourceType, "source_id", sourceID, "error", err)
		return nil, fmt.Errorf("failed to get journal entries by source: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var entries []*journal.Entry
	for rows.Next() {
		var entry journal.Entry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Memo, &entry.SourceType, &entry.SourceID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over journal entries: %w", err)
	}
	rows.Close()

	lineQuery := `
		SELECT id, entry_id, account_id, debit_cents, credit_cents
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY id ASC
	`

	for _, entry := range entries {
		lineRows, err := r.querier.Query(ctx, lineQuery, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get journal lines: %w", mapSchemaErr(err))
		}

		for lineRows.Next() {
			var line journal.Line
			if err := lineRows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.DebitCents, &line.CreditCents); err != nil {
				lineRows.Close()
				return nil, fmt.Errorf("failed to scan journal line: %w", err)
			}
			entry.Lines = append(entry.Lines, line)
		}
		if err := lineRows.Err(); err != nil {
			lineRows.Close()
			return nil, fmt.Errorf("error iterating over journal lines: %w", err)
		}
		lineRows.Close()
	}

	return entries, nil
}

// DeleteBySource removes all lines then entries for one source tuple. Used
// before every regeneration so at most one generation exists per source.
func (r *JournalRepository) DeleteBySource(ctx context.Context, sourceType journal.SourceType, sourceID string) error {
	lineQuery := `
		DELETE FROM journal_lines
		WHERE entry_id IN (
			SELECT id FROM journal_entries WHERE source_type = $1 AND source_id = $2
		)
	`

	if _, err := r.querier.Exec(ctx, lineQuery, sourceType, sourceID); err != nil {
		r.logger.Error("Failed to delete journal lines by source", "source_type", sourceType, "source_id", sourceID, "error", err)
		return fmt.Errorf("failed to delete journal lines by source: %w", mapSchemaErr(err))
	}

	entryQuery := `
		DELETE FROM journal_entries
		WHERE source_type = $1 AND source_id = $2
	`

	if _, err := r.querier.Exec(ctx, entryQuery, sourceType, sourceID); err != nil {
		r.logger.Error("Failed to delete journal entries by source", "source_type", sourceType, "source_id", sourceID, "error", err)
		return fmt.Errorf("failed to delete journal entries by source: %w", mapSchemaErr(err))
	}

	return nil
}

// Balance computes an account's balance on its normal side by summing journal
// lines. Never read from a cached column; the journal is the source of truth.
func (r *JournalRepository) Balance(ctx context.Context, accountID int64, dateRange *journal.DateRange) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN a.normal_side = 'debit'
				THEN l.debit_cents - l.credit_cents
				ELSE l.credit_cents - l.debit_cents
			END
		), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE l.account_id = $1
	`

	args := []interface{}{accountID}
	if dateRange != nil {
		if !dateRange.From.IsZero() {
			args = append(args, dateRange.From)
			query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
		}
		if !dateRange.To.IsZero() {
			args = append(args, dateRange.To)
			query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
		}
	}

	var balance int64
	if err := r.querier.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		r.logger.Error("Failed to compute account balance", "account_id", accountID, "error", err)
		return 0, fmt.Errorf("failed to compute account balance: %w", mapSchemaErr(err))
	}

	return balance, nil
}

// BalancesByType computes the nonzero balance of every account of a type over
// a date range. Used by the year-end closer for income and expense totals;
// the closer passes its own source tuple as excludeSource so a preview is not
// distorted by a previously applied close.
func (r *JournalRepository) BalancesByType(ctx context.Context, accType account.Type, dateRange *journal.DateRange, excludeSource *journal.SourceRef) ([]journal.AccountBalance, error) {
	query := `
		SELECT a.id, a.code, a.name, a.type, a.normal_side, a.is_system, a.active, a.created_at,
			COALESCE(SUM(
				CASE WHEN a.normal_side = 'debit'
					THEN l.debit_cents - l.credit_cents
					ELSE l.credit_cents - l.debit_cents
				END
			), 0) AS balance
		FROM accounts a
		JOIN journal_lines l ON l.account_id = a.id
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE a.type = $1
	`

	args := []interface{}{accType}
	if dateRange != nil {
		if !dateRange.From.IsZero() {
			args = append(args, dateRange.From)
			query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
		}
		if !dateRange.To.IsZero() {
			args = append(args, dateRange.To)
			query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
		}
	}
	if excludeSource != nil {
		args = append(args, excludeSource.Type, excludeSource.ID)
		query += fmt.Sprintf(" AND (e.source_type <> $%d OR e.source_id IS DISTINCT FROM $%d)", len(args)-1, len(args))
	}
	query += `
		GROUP BY a.id, a.code, a.name, a.type, a.normal_side, a.is_system, a.active, a.created_at
		HAVING COALESCE(SUM(
			CASE WHEN a.normal_side = 'debit'
				THEN l.debit_cents - l.credit_cents
				ELSE l.credit_cents - l.debit_cents
			END
		), 0) <> 0
		ORDER BY a.code ASC
	`

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to compute balances by type", "type", accType, "error", err)
		return nil, fmt.Errorf("failed to compute balances by type: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var balances []journal.AccountBalance
	for rows.Next() {
		var acc account.Account
		var balance int64
		err := rows.Scan(
			&acc.ID,
			&acc.Code,
			&acc.Name,
			&acc.Type,
			&acc.NormalSide,
			&acc.IsSystem,
			&acc.Active,
			&acc.CreatedAt,
			&balance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		balances = append(balances, journal.AccountBalance{Account: &acc, BalanceCents: balance})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over account balances: %w", err)
	}

	return balances, nil
}

// TrialBalance returns total debits minus total credits across all journal
// lines. A consistent ledger reconciles to zero.
func (r *JournalRepository) TrialBalance(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(debit_cents), 0) - COALESCE(SUM(credit_cents), 0)
		FROM journal_lines
	`

	var net int64
	if err := r.querier.QueryRow(ctx, query).Scan(&net); err != nil {
		r.logger.Error("Failed to compute trial balance", "error", err)
		return 0, fmt.Errorf("failed to compute trial balance: %w", mapSchemaErr(err))
	}

	return net, nil
}
