package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/99redder/eastern-shore-ai/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRepository implements the record.Repository interface for PostgreSQL
type RecordRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRecordRepository creates a new PostgreSQL business-fact repository
func NewRecordRepository(logger *slog.Logger, db *persistence.PostgresDB) record.Repository {
	return &RecordRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *RecordRepository) WithTx(tx pgx.Tx) record.Repository {
	return &RecordRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateIncome stores a new income record. The unique index on the
// idempotency key makes a duplicate payment insert fail with a constraint
// violation the poster recovers from.
func (r *RecordRepository) CreateIncome(ctx context.Context, rec *record.IncomeRecord) error {
	query := `
		INSERT INTO income_records (id, record_date, category, amount_cents, source_tag, idempotency_key, owner_funded, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		rec.ID,
		rec.Date,
		rec.Category,
		rec.AmountCents,
		rec.SourceTag,
		rec.IdempotencyKey,
		rec.OwnerFunded,
		rec.Notes,
		rec.CreatedAt,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			r.logger.Error("Failed to create income record", "id", rec.ID.String(), "error", err)
		}
		return fmt.Errorf("failed to create income record: %w", mapSchemaErr(err))
	}

	return nil
}

// GetIncomeByID retrieves an income record by its ID
func (r *RecordRepository) GetIncomeByID(ctx context.Context, id uuid.UUID) (*record.IncomeRecord, error) {
	query := incomeSelect + ` WHERE id = $1`

	rec, err := r.scanIncome(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound{Kind: "income", ID: id}
		}
		r.logger.Error("Failed to get income record", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get income record: %w", mapSchemaErr(err))
	}

	return rec, nil
}

// GetIncomeByDedupeKey looks up the income record carrying a payment
// idempotency key. Returns nil, nil when no such record exists.
func (r *RecordRepository) GetIncomeByDedupeKey(ctx context.Context, key string) (*record.IncomeRecord, error) {
	query := incomeSelect + ` WHERE idempotency_key = $1`

	rec, err := r.scanIncome(r.querier.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get income record by dedupe key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get income record by dedupe key: %w", mapSchemaErr(err))
	}

	return rec, nil
}

// ListIncome returns income records newest first
func (r *RecordRepository) ListIncome(ctx context.Context, limit, offset int) ([]*record.IncomeRecord, error) {
	query := incomeSelect + ` ORDER BY record_date DESC, created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list income records", "error", err)
		return nil, fmt.Errorf("failed to list income records: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var records []*record.IncomeRecord
	for rows.Next() {
		rec, err := r.scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over income records: %w", err)
	}

	return records, nil
}

// CountIncome returns the total number of income records
func (r *RecordRepository) CountIncome(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM income_records`)
}

// DeleteIncome removes an income record
func (r *RecordRepository) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	return r.deleteOne(ctx, `DELETE FROM income_records WHERE id = $1`, "income", id)
}

// CreateExpense stores a new expense record
func (r *RecordRepository) CreateExpense(ctx context.Context, rec *record.ExpenseRecord) error {
	query := `
		INSERT INTO expense_records (id, record_date, category, amount_cents, paid_via, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		rec.ID,
		rec.Date,
		rec.Category,
		rec.AmountCents,
		rec.PaidVia,
		rec.Notes,
		rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense record", "id", rec.ID.String(), "error", err)
		return fmt.Errorf("failed to create expense record: %w", mapSchemaErr(err))
	}

	return nil
}

// GetExpenseByID retrieves an expense record by its ID
func (r *RecordRepository) GetExpenseByID(ctx context.Context, id uuid.UUID) (*record.ExpenseRecord, error) {
	query := expenseSelect + ` WHERE id = $1`

	rec, err := r.scanExpense(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound{Kind: "expense", ID: id}
		}
		r.logger.Error("Failed to get expense record", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get expense record: %w", mapSchemaErr(err))
	}

	return rec, nil
}

// ListExpenses returns expense records newest first
func (r *RecordRepository) ListExpenses(ctx context.Context, limit, offset int) ([]*record.ExpenseRecord, error) {
	query := expenseSelect + ` ORDER BY record_date DESC, created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list expense records", "error", err)
		return nil, fmt.Errorf("failed to list expense records: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var records []*record.ExpenseRecord
	for rows.Next() {
		rec, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over expense records: %w", err)
	}

	return records, nil
}

// CountExpenses returns the total number of expense records
func (r *RecordRepository) CountExpenses(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM expense_records`)
}

// DeleteExpense removes an expense record
func (r *RecordRepository) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return r.deleteOne(ctx, `DELETE FROM expense_records WHERE id = $1`, "expense", id)
}

// CreateTransfer stores a new owner transfer
func (r *RecordRepository) CreateTransfer(ctx context.Context, tr *record.OwnerTransfer) error {
	query := `
		INSERT INTO owner_transfers (id, transfer_date, transfer_type, amount_cents, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		tr.ID,
		tr.Date,
		tr.Type,
		tr.AmountCents,
		tr.Notes,
		tr.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create owner transfer", "id", tr.ID.String(), "error", err)
		return fmt.Errorf("failed to create owner transfer: %w", mapSchemaErr(err))
	}

	return nil
}

// GetTransferByID retrieves an owner transfer by its ID
func (r *RecordRepository) GetTransferByID(ctx context.Context, id uuid.UUID) (*record.OwnerTransfer, error) {
	query := transferSelect + ` WHERE id = $1`

	tr, err := r.scanTransfer(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound{Kind: "transfer", ID: id}
		}
		r.logger.Error("Failed to get owner transfer", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get owner transfer: %w", mapSchemaErr(err))
	}

	return tr, nil
}

// ListTransfers returns owner transfers newest first
func (r *RecordRepository) ListTransfers(ctx context.Context, limit, offset int) ([]*record.OwnerTransfer, error) {
	query := transferSelect + ` ORDER BY transfer_date DESC, created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list owner transfers", "error", err)
		return nil, fmt.Errorf("failed to list owner transfers: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var transfers []*record.OwnerTransfer
	for rows.Next() {
		tr, err := r.scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner transfer: %w", err)
		}
		transfers = append(transfers, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over owner transfers: %w", err)
	}

	return transfers, nil
}

// DeleteTransfer removes an owner transfer
func (r *RecordRepository) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	return r.deleteOne(ctx, `DELETE FROM owner_transfers WHERE id = $1`, "transfer", id)
}

const (
	incomeSelect   = `SELECT id, record_date, category, amount_cents, source_tag, idempotency_key, owner_funded, notes, created_at FROM income_records`
	expenseSelect  = `SELECT id, record_date, category, amount_cents, paid_via, notes, created_at FROM expense_records`
	transferSelect = `SELECT id, transfer_date, transfer_type, amount_cents, notes, created_at FROM owner_transfers`
)

func (r *RecordRepository) scanIncome(row pgx.Row) (*record.IncomeRecord, error) {
	var rec record.IncomeRecord
	err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.Category,
		&rec.AmountCents,
		&rec.SourceTag,
		&rec.IdempotencyKey,
		&rec.OwnerFunded,
		&rec.Notes,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) scanExpense(row pgx.Row) (*record.ExpenseRecord, error) {
	var rec record.ExpenseRecord
	err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.Category,
		&rec.AmountCents,
		&rec.PaidVia,
		&rec.Notes,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepository) scanTransfer(row pgx.Row) (*record.OwnerTransfer, error) {
	var tr record.OwnerTransfer
	err := row.Scan(
		&tr.ID,
		&tr.Date,
		&tr.Type,
		&tr.AmountCents,
		&tr.Notes,
		&tr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *RecordRepository) count(ctx context.Context, query string) (int64, error) {
	var total int64
	if err := r.querier.QueryRow(ctx, query).Scan(&total); err != nil {
		r.logger.Error("Failed to count records", "error", err)
		return 0, fmt.Errorf("failed to count records: %w", mapSchemaErr(err))
	}
	return total, nil
}

func (r *RecordRepository) deleteOne(ctx context.Context, query, kind string, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete record", "kind", kind, "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete %s record: %w", kind, mapSchemaErr(err))
	}
	if result.RowsAffected() == 0 {
		return record.ErrRecordNotFound{Kind: kind, ID: id}
	}
	return nil
}
