package journal

import (
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	ErrNoLines           = errors.New("journal entry must have at least one line")
	ErrNegativeLine      = errors.New("journal line amounts must not be negative")
	ErrAmbiguousLineSide = errors.New("journal line must have exactly one of debit or credit set")
)

// SourceType identifies what produced a journal entry. Auto-generated entries
// carry a source id; (SourceType, SourceID) is the idempotency key for a
// generation, replaced wholesale on rebuild.
type SourceType string

const (
	SourceManual        SourceType = "manual"
	SourceTaxExpense    SourceType = "tax_expense"
	SourceTaxIncome     SourceType = "tax_income"
	SourceOwnerTransfer SourceType = "owner_transfer"
	SourceYearClose     SourceType = "year_close"
)

// Line is a single debit or credit against one account. Exactly one of
// DebitCents/CreditCents is nonzero.
type Line struct {
	ID          int64 `json:"id"`
	EntryID     int64 `json:"entry_id"`
	AccountID   int64 `json:"account_id"`
	DebitCents  int64 `json:"debit_cents"`
	CreditCents int64 `json:"credit_cents"`
}

// Entry is an append-only balanced journal entry
type Entry struct {
	ID         int64      `json:"id"`
	Date       time.Time  `json:"date"`
	Memo       string     `json:"memo"`
	SourceType SourceType `json:"source_type"`
	SourceID   *string    `json:"source_id,omitempty"`
	Lines      []Line     `json:"lines"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ErrUnbalancedEntry indicates an entry whose debit and credit sums differ
type ErrUnbalancedEntry struct {
	DebitCents  int64
	CreditCents int64
}

func (e ErrUnbalancedEntry) Error() string {
	return fmt.Sprintf("unbalanced journal entry: debits %d != credits %d", e.DebitCents, e.CreditCents)
}

// DebitLine builds a line debiting the given account
func DebitLine(accountID, amountCents int64) Line {
	return Line{AccountID: accountID, DebitCents: amountCents}
}

// CreditLine builds a line crediting the given account
func CreditLine(accountID, amountCents int64) Line {
	return Line{AccountID: accountID, CreditCents: amountCents}
}

// NewEntry builds an entry and checks the balance invariant
func NewEntry(date time.Time, memo string, sourceType SourceType, sourceID *string, lines []Line) (*Entry, error) {
	e := &Entry{
		Date:       date,
		Memo:       memo,
		SourceType: sourceType,
		SourceID:   sourceID,
		Lines:      lines,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate enforces the double-entry invariant: every line carries exactly one
// positive side, and debit and credit totals are equal.
func (e *Entry) Validate() error {
	if len(e.Lines) == 0 {
		return ErrNoLines
	}

	var debitTotal, creditTotal int64
	for _, line := range e.Lines {
		if line.DebitCents < 0 || line.CreditCents < 0 {
			return ErrNegativeLine
		}
		if (line.DebitCents == 0) == (line.CreditCents == 0) {
			return ErrAmbiguousLineSide
		}
		debitTotal += line.DebitCents
		creditTotal += line.CreditCents
	}

	if debitTotal != creditTotal {
		return ErrUnbalancedEntry{DebitCents: debitTotal, CreditCents: creditTotal}
	}

	return nil
}
