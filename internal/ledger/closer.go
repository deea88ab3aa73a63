package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/jackc/pgx/v5"
)

// Closer implements the CloserService interface: it zeroes the year's income
// and expense balances into owner equity through an Income Summary account.
type Closer struct {
	db       TxRunner
	accounts account.Repository
	journal  journal.Repository
	logger   *slog.Logger
}

// NewCloser creates a new year-end closer
func NewCloser(logger *slog.Logger, db TxRunner, accounts account.Repository, journalRepo journal.Repository) CloserService {
	return &Closer{
		db:       db,
		accounts: accounts,
		journal:  journalRepo,
		logger:   logger,
	}
}

// CloseFiscalYear previews or applies the close for one calendar year.
// Preview computes the three planned steps without writing. Apply deletes any
// prior closing entries for the year and reposts, all in one transaction, so
// re-closing after late-arriving facts converges to the same end state.
func (c *Closer) CloseFiscalYear(ctx context.Context, year int, apply bool) (*ClosingResult, error) {
	if !apply {
		incomeBalances, expenseBalances, err := c.yearBalances(ctx, c.journal, year)
		if err != nil {
			return nil, err
		}
		return buildResult(year, incomeBalances, expenseBalances, false), nil
	}

	var result *ClosingResult
	err := c.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		ar := c.accounts.WithTx(tx)
		jr := c.journal.WithTx(tx)
		sourceID := strconv.Itoa(year)

		// Idempotent re-close: drop the prior generation first
		if err := jr.DeleteBySource(ctx, journal.SourceYearClose, sourceID); err != nil {
			return err
		}

		incomeBalances, expenseBalances, err := c.yearBalances(ctx, jr, year)
		if err != nil {
			return err
		}
		result = buildResult(year, incomeBalances, expenseBalances, true)

		if result.IncomeTotalCents == 0 && result.ExpenseTotalCents == 0 && result.NetCents == 0 {
			return nil
		}

		// Income Summary is self-healing: created the first time a close runs
		summary, err := ar.EnsureByCode(ctx, account.CodeIncomeSummary, "Income Summary", account.TypeEquity, account.SideCredit)
		if err != nil {
			return err
		}
		equity, err := resolveAccount(ctx, ar, account.CodeOwnerEquity)
		if err != nil {
			return err
		}

		closeDate := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

		if result.IncomeTotalCents != 0 {
			lines := make([]journal.Line, 0, len(incomeBalances)+1)
			for _, ab := range incomeBalances {
				lines = append(lines, closingLine(ab.Account.ID, ab.BalanceCents, true))
			}
			lines = append(lines, closingLine(summary.ID, result.IncomeTotalCents, false))
			if err := c.postClosingEntry(ctx, jr, closeDate, fmt.Sprintf("Close %d revenue to Income Summary", year), sourceID, lines); err != nil {
				return err
			}
		}

		if result.ExpenseTotalCents != 0 {
			lines := make([]journal.Line, 0, len(expenseBalances)+1)
			lines = append(lines, closingLine(summary.ID, result.ExpenseTotalCents, true))
			for _, ab := range expenseBalances {
				lines = append(lines, closingLine(ab.Account.ID, ab.BalanceCents, false))
			}
			if err := c.postClosingEntry(ctx, jr, closeDate, fmt.Sprintf("Close %d expenses to Income Summary", year), sourceID, lines); err != nil {
				return err
			}
		}

		if net := result.NetCents; net != 0 {
			var lines []journal.Line
			if net > 0 {
				lines = []journal.Line{
					journal.DebitLine(summary.ID, net),
					journal.CreditLine(equity.ID, net),
				}
			} else {
				lines = []journal.Line{
					journal.DebitLine(equity.ID, -net),
					journal.CreditLine(summary.ID, -net),
				}
			}
			if err := c.postClosingEntry(ctx, jr, closeDate, fmt.Sprintf("Close %d net to Owner Equity", year), sourceID, lines); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Fiscal year closed",
		"year", year,
		"income_total_cents", result.IncomeTotalCents,
		"expense_total_cents", result.ExpenseTotalCents,
		"net_cents", result.NetCents,
	)

	return result, nil
}

// yearBalances computes the year's income and expense balances. Closing
// entries for the same year are excluded so a preview after an earlier apply
// still reports what a re-apply would repost.
func (c *Closer) yearBalances(ctx context.Context, jr journal.Repository, year int) ([]journal.AccountBalance, []journal.AccountBalance, error) {
	dateRange := journal.YearRange(year)
	exclude := &journal.SourceRef{Type: journal.SourceYearClose, ID: strconv.Itoa(year)}

	incomeBalances, err := jr.BalancesByType(ctx, account.TypeIncome, &dateRange, exclude)
	if err != nil {
		return nil, nil, err
	}
	expenseBalances, err := jr.BalancesByType(ctx, account.TypeExpense, &dateRange, exclude)
	if err != nil {
		return nil, nil, err
	}

	return incomeBalances, expenseBalances, nil
}

func (c *Closer) postClosingEntry(ctx context.Context, jr journal.Repository, date time.Time, memo, sourceID string, lines []journal.Line) error {
	entry, err := journal.NewEntry(date, memo, journal.SourceYearClose, &sourceID, lines)
	if err != nil {
		return err
	}
	_, err = jr.PostEntry(ctx, entry)
	return err
}

// closingLine builds a line that moves amount off an account. A negative
// balance (contra activity) flips to the other side so every line stays
// non-negative with exactly one side set.
func closingLine(accountID, amountCents int64, debitWhenPositive bool) journal.Line {
	if (amountCents > 0) == debitWhenPositive {
		if amountCents < 0 {
			amountCents = -amountCents
		}
		return journal.DebitLine(accountID, amountCents)
	}
	if amountCents < 0 {
		amountCents = -amountCents
	}
	return journal.CreditLine(accountID, amountCents)
}

func buildResult(year int, incomeBalances, expenseBalances []journal.AccountBalance, applied bool) *ClosingResult {
	var incomeTotal, expenseTotal int64
	for _, ab := range incomeBalances {
		incomeTotal += ab.BalanceCents
	}
	for _, ab := range expenseBalances {
		expenseTotal += ab.BalanceCents
	}
	net := incomeTotal - expenseTotal

	result := &ClosingResult{
		Year:              year,
		IncomeTotalCents:  incomeTotal,
		ExpenseTotalCents: expenseTotal,
		NetCents:          net,
		Applied:           applied,
	}

	if incomeTotal != 0 {
		result.Steps = append(result.Steps, ClosingStep{
			Sequence:    1,
			Description: "Close revenue accounts to Income Summary",
			AmountCents: incomeTotal,
		})
	}
	if expenseTotal != 0 {
		result.Steps = append(result.Steps, ClosingStep{
			Sequence:    2,
			Description: "Close expense accounts to Income Summary",
			AmountCents: expenseTotal,
		})
	}
	if net != 0 {
		result.Steps = append(result.Steps, ClosingStep{
			Sequence:    3,
			Description: "Close net income to Owner Equity",
			AmountCents: net,
		})
	}

	return result
}
