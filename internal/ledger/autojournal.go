package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/jackc/pgx/v5"
	"github.com/panjf2000/ants/v2"
)

// rebuildPageSize bounds how many facts are loaded per page during RebuildAll
const rebuildPageSize = 200

// Generator implements the GeneratorService interface. It maps each business
// fact to a balanced journal entry and keeps the mapping regenerable: every
// upsert deletes the prior generation for the fact's source tuple before
// reposting, so re-running it is always safe.
type Generator struct {
	db       TxRunner
	accounts account.Repository
	journal  journal.Repository
	records  record.Repository
	workers  int
	logger   *slog.Logger
}

// NewGenerator creates a new auto-journal generator. workers bounds the
// RebuildAll fan-out.
func NewGenerator(
	logger *slog.Logger,
	db TxRunner,
	accounts account.Repository,
	journalRepo journal.Repository,
	records record.Repository,
	workers int,
) *Generator {
	return &Generator{
		db:       db,
		accounts: accounts,
		journal:  journalRepo,
		records:  records,
		workers:  workers,
		logger:   logger,
	}
}

// expenseDebitCode chooses the expense account for a category
func expenseDebitCode(category string) string {
	if strings.EqualFold(category, "Payment Processing Fees") {
		return account.CodeProcessingFees
	}
	return account.CodeOfficeExpense
}

// expenseCreditCode chooses the offset account from the free-text payment
// method, in priority order. An expense paid some unattributable way is
// treated as owner-funded capital.
func expenseCreditCode(paidVia string) string {
	via := strings.ToLower(paidVia)
	for _, marker := range []string{"stripe", "cash", "checking", "bank"} {
		if strings.Contains(via, marker) {
			return account.CodeCashOnHand
		}
	}
	for _, marker := range []string{"business card", "corp card"} {
		if strings.Contains(via, marker) {
			return account.CodeCreditCardPayable
		}
	}
	return account.CodeOwnerContributions
}

// incomeCreditCode chooses the revenue-side account for an income fact
func incomeCreditCode(ownerFunded bool) string {
	if ownerFunded {
		return account.CodeOwnerContributions
	}
	return account.CodeServiceRevenue
}

// transferCodes returns the debit and credit account codes for a transfer type
func transferCodes(t record.TransferType) (debitCode, creditCode string, err error) {
	switch t {
	case record.TransferPersonalToBusiness:
		return account.CodeCashOnHand, account.CodeOwnerContributions, nil
	case record.TransferBusinessToPersonal:
		return account.CodeOwnerDraw, account.CodeCashOnHand, nil
	case record.TransferPersonalPaidBusinessCard:
		return account.CodeCreditCardPayable, account.CodeOwnerContributions, nil
	default:
		return "", "", fmt.Errorf("%w: %s", record.ErrInvalidTransferType, t)
	}
}

// ProjectExpense regenerates the journal projection of one expense fact
// inside the caller's transaction
func (g *Generator) ProjectExpense(ctx context.Context, tx pgx.Tx, rec *record.ExpenseRecord) error {
	jr := g.journal.WithTx(tx)
	if err := jr.DeleteBySource(ctx, journal.SourceTaxExpense, rec.ID.String()); err != nil {
		return err
	}

	// A zero or negative fact produces no ledger effect
	if rec.AmountCents <= 0 {
		g.logger.Debug("Skipping journal for non-positive expense", "id", rec.ID.String(), "amount_cents", rec.AmountCents)
		return nil
	}

	ar := g.accounts.WithTx(tx)
	debitAcc, err := resolveAccount(ctx, ar, expenseDebitCode(rec.Category))
	if err != nil {
		return err
	}
	creditAcc, err := resolveAccount(ctx, ar, expenseCreditCode(rec.PaidVia))
	if err != nil {
		return err
	}

	sourceID := rec.ID.String()
	entry, err := journal.NewEntry(rec.Date, "Expense: "+rec.Category, journal.SourceTaxExpense, &sourceID, []journal.Line{
		journal.DebitLine(debitAcc.ID, rec.AmountCents),
		journal.CreditLine(creditAcc.ID, rec.AmountCents),
	})
	if err != nil {
		return err
	}

	_, err = jr.PostEntry(ctx, entry)
	return err
}

// ProjectIncome regenerates the journal projection of one income fact inside
// the caller's transaction. Cash is always debited; the credit side depends
// on the owner-funded flag.
func (g *Generator) ProjectIncome(ctx context.Context, tx pgx.Tx, rec *record.IncomeRecord) error {
	jr := g.journal.WithTx(tx)
	if err := jr.DeleteBySource(ctx, journal.SourceTaxIncome, rec.ID.String()); err != nil {
		return err
	}

	if rec.AmountCents <= 0 {
		g.logger.Debug("Skipping journal for non-positive income", "id", rec.ID.String(), "amount_cents", rec.AmountCents)
		return nil
	}

	ar := g.accounts.WithTx(tx)
	debitAcc, err := resolveAccount(ctx, ar, account.CodeCashOnHand)
	if err != nil {
		return err
	}
	creditAcc, err := resolveAccount(ctx, ar, incomeCreditCode(rec.OwnerFunded))
	if err != nil {
		return err
	}

	sourceID := rec.ID.String()
	entry, err := journal.NewEntry(rec.Date, "Income: "+rec.Category, journal.SourceTaxIncome, &sourceID, []journal.Line{
		journal.DebitLine(debitAcc.ID, rec.AmountCents),
		journal.CreditLine(creditAcc.ID, rec.AmountCents),
	})
	if err != nil {
		return err
	}

	_, err = jr.PostEntry(ctx, entry)
	return err
}

// ProjectTransfer regenerates the journal projection of one owner transfer
// inside the caller's transaction
func (g *Generator) ProjectTransfer(ctx context.Context, tx pgx.Tx, tr *record.OwnerTransfer) error {
	jr := g.journal.WithTx(tx)
	if err := jr.DeleteBySource(ctx, journal.SourceOwnerTransfer, tr.ID.String()); err != nil {
		return err
	}

	if tr.AmountCents <= 0 {
		g.logger.Debug("Skipping journal for non-positive transfer", "id", tr.ID.String(), "amount_cents", tr.AmountCents)
		return nil
	}

	debitCode, creditCode, err := transferCodes(tr.Type)
	if err != nil {
		return err
	}

	ar := g.accounts.WithTx(tx)
	debitAcc, err := resolveAccount(ctx, ar, debitCode)
	if err != nil {
		return err
	}
	creditAcc, err := resolveAccount(ctx, ar, creditCode)
	if err != nil {
		return err
	}

	sourceID := tr.ID.String()
	entry, err := journal.NewEntry(tr.Date, "Owner transfer: "+string(tr.Type), journal.SourceOwnerTransfer, &sourceID, []journal.Line{
		journal.DebitLine(debitAcc.ID, tr.AmountCents),
		journal.CreditLine(creditAcc.ID, tr.AmountCents),
	})
	if err != nil {
		return err
	}

	_, err = jr.PostEntry(ctx, entry)
	return err
}

// UpsertExpense regenerates one expense projection in its own transaction
func (g *Generator) UpsertExpense(ctx context.Context, rec *record.ExpenseRecord) error {
	return g.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return g.ProjectExpense(ctx, tx, rec)
	})
}

// UpsertIncome regenerates one income projection in its own transaction
func (g *Generator) UpsertIncome(ctx context.Context, rec *record.IncomeRecord) error {
	return g.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return g.ProjectIncome(ctx, tx, rec)
	})
}

// UpsertTransfer regenerates one transfer projection in its own transaction
func (g *Generator) UpsertTransfer(ctx context.Context, tr *record.OwnerTransfer) error {
	return g.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return g.ProjectTransfer(ctx, tx, tr)
	})
}

// RebuildReport summarizes a RebuildAll run
type RebuildReport struct {
	ExpensesRebuilt  int      `json:"expenses_rebuilt"`
	IncomeRebuilt    int      `json:"income_rebuilt"`
	TransfersRebuilt int      `json:"transfers_rebuilt"`
	Failures         []string `json:"failures,omitempty"`
}

// RebuildAll re-derives the journal projection of every fact in the system.
// Each fact is an independent source tuple, so regeneration fans out over a
// bounded worker pool, one transaction per fact. Individual failures are
// collected, not fatal; re-running after fixing the cause converges the
// ledger. Running RebuildAll on an already-consistent ledger reproduces the
// same entries.
func (g *Generator) RebuildAll(ctx context.Context) (*RebuildReport, error) {
	pool, err := ants.NewPool(g.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create rebuild worker pool: %w", err)
	}
	defer pool.Release()

	report := &RebuildReport{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	submit := func(task func() error, counter *int, label string) error {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				report.Failures = append(report.Failures, label+": "+err.Error())
				mu.Unlock()
				return
			}
			mu.Lock()
			*counter++
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
		}
		return err
	}

	for offset := 0; ; offset += rebuildPageSize {
		expenses, err := g.records.ListExpenses(ctx, rebuildPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, rec := range expenses {
			rec := rec
			if err := submit(func() error { return g.UpsertExpense(ctx, rec) }, &report.ExpensesRebuilt, "expense "+rec.ID.String()); err != nil {
				return nil, err
			}
		}
		if len(expenses) < rebuildPageSize {
			break
		}
	}

	for offset := 0; ; offset += rebuildPageSize {
		incomes, err := g.records.ListIncome(ctx, rebuildPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, rec := range incomes {
			rec := rec
			if err := submit(func() error { return g.UpsertIncome(ctx, rec) }, &report.IncomeRebuilt, "income "+rec.ID.String()); err != nil {
				return nil, err
			}
		}
		if len(incomes) < rebuildPageSize {
			break
		}
	}

	for offset := 0; ; offset += rebuildPageSize {
		transfers, err := g.records.ListTransfers(ctx, rebuildPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, tr := range transfers {
			tr := tr
			if err := submit(func() error { return g.UpsertTransfer(ctx, tr) }, &report.TransfersRebuilt, "transfer "+tr.ID.String()); err != nil {
				return nil, err
			}
		}
		if len(transfers) < rebuildPageSize {
			break
		}
	}

	wg.Wait()

	g.logger.Info("Journal rebuild completed",
		"expenses", report.ExpensesRebuilt,
		"income", report.IncomeRebuilt,
		"transfers", report.TransfersRebuilt,
		"failures", len(report.Failures),
	)

	return report, nil
}

// isMappingError reports whether a projection failure is a per-fact mapping
// problem (unknown or inactive account) rather than a storage failure
func isMappingError(err error) bool {
	var notFound account.ErrAccountNotFound
	return errors.As(err, &notFound) ||
		errors.Is(err, account.ErrInactiveAccount) ||
		errors.Is(err, record.ErrInvalidTransferType)
}
