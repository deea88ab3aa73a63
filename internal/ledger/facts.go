package ledger

import (
	"context"
	"log/slog"

	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Facts implements the FactsService interface. Facts are the system of
// record; their journal projections are derived and regenerable. A failed
// projection never blocks the fact itself from being recorded, and RebuildAll
// is the recovery path.
type Facts struct {
	db        TxRunner
	records   record.Repository
	journal   journal.Repository
	generator *Generator
	logger    *slog.Logger
}

// NewFacts creates a new business-facts service
func NewFacts(
	logger *slog.Logger,
	db TxRunner,
	records record.Repository,
	journalRepo journal.Repository,
	generator *Generator,
) FactsService {
	return &Facts{
		db:        db,
		records:   records,
		journal:   journalRepo,
		generator: generator,
		logger:    logger,
	}
}

// RecordExpense persists an expense fact, then projects it into the journal
func (f *Facts) RecordExpense(ctx context.Context, rec *record.ExpenseRecord) error {
	if err := f.records.CreateExpense(ctx, rec); err != nil {
		return err
	}

	if err := f.generator.UpsertExpense(ctx, rec); err != nil {
		f.logger.Error("Journal projection failed for expense record", "id", rec.ID.String(), "error", err)
	}
	return nil
}

// RecordIncome persists an income fact, then projects it into the journal
func (f *Facts) RecordIncome(ctx context.Context, rec *record.IncomeRecord) error {
	if err := f.records.CreateIncome(ctx, rec); err != nil {
		return err
	}

	if err := f.generator.UpsertIncome(ctx, rec); err != nil {
		f.logger.Error("Journal projection failed for income record", "id", rec.ID.String(), "error", err)
	}
	return nil
}

// RecordTransfer persists an owner transfer, then projects it into the journal
func (f *Facts) RecordTransfer(ctx context.Context, tr *record.OwnerTransfer) error {
	if !record.ValidTransferType(tr.Type) {
		return record.ErrInvalidTransferType
	}
	if tr.AmountCents <= 0 {
		return record.ErrInvalidAmount
	}

	if err := f.records.CreateTransfer(ctx, tr); err != nil {
		return err
	}

	if err := f.generator.UpsertTransfer(ctx, tr); err != nil {
		f.logger.Error("Journal projection failed for owner transfer", "id", tr.ID.String(), "error", err)
	}
	return nil
}

// ListExpenses returns a page of expense facts with the total count
func (f *Facts) ListExpenses(ctx context.Context, page, perPage int) ([]*record.ExpenseRecord, int64, error) {
	offset := (page - 1) * perPage

	records, err := f.records.ListExpenses(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := f.records.CountExpenses(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListIncome returns a page of income facts with the total count
func (f *Facts) ListIncome(ctx context.Context, page, perPage int) ([]*record.IncomeRecord, int64, error) {
	offset := (page - 1) * perPage

	records, err := f.records.ListIncome(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := f.records.CountIncome(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListTransfers returns a page of owner transfers
func (f *Facts) ListTransfers(ctx context.Context, page, perPage int) ([]*record.OwnerTransfer, error) {
	offset := (page - 1) * perPage
	return f.records.ListTransfers(ctx, perPage, offset)
}

// DeleteExpense removes the fact and its journal generation atomically
func (f *Facts) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return f.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := f.journal.WithTx(tx).DeleteBySource(ctx, journal.SourceTaxExpense, id.String()); err != nil {
			return err
		}
		return f.records.WithTx(tx).DeleteExpense(ctx, id)
	})
}

// DeleteIncome removes the fact and its journal generation atomically
func (f *Facts) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	return f.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := f.journal.WithTx(tx).DeleteBySource(ctx, journal.SourceTaxIncome, id.String()); err != nil {
			return err
		}
		return f.records.WithTx(tx).DeleteIncome(ctx, id)
	})
}

// DeleteTransfer removes the fact and its journal generation atomically
func (f *Facts) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	return f.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := f.journal.WithTx(tx).DeleteBySource(ctx, journal.SourceOwnerTransfer, id.String()); err != nil {
			return err
		}
		return f.records.WithTx(tx).DeleteTransfer(ctx, id)
	})
}
