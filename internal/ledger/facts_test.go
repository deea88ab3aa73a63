package ledger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type factsFixture struct {
	accounts *MockAccountRepo
	journal  *MockJournalRepo
	records  *MockRecordRepo
	facts    FactsService
}

func newFactsFixture() *factsFixture {
	logger := slog.Default()
	accounts := &MockAccountRepo{}
	journalRepo := &MockJournalRepo{}
	records := &MockRecordRepo{}
	gen := NewGenerator(logger, &fakeTxRunner{}, accounts, journalRepo, records, 2)
	return &factsFixture{
		accounts: accounts,
		journal:  journalRepo,
		records:  records,
		facts:    NewFacts(logger, &fakeTxRunner{}, records, journalRepo, gen),
	}
}

func TestFacts_RecordExpense(t *testing.T) {
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	t.Run("fact and projection both persist", func(t *testing.T) {
		f := newFactsFixture()
		rec := &record.ExpenseRecord{ID: uuid.New(), Date: date, Category: "Software", AmountCents: 4500, PaidVia: "cash"}

		office := testAccount(14, account.CodeOfficeExpense, account.TypeExpense, account.SideDebit)
		cash := testAccount(1, account.CodeCashOnHand, account.TypeAsset, account.SideDebit)

		f.records.On("CreateExpense", mock.Anything, rec).Return(nil)
		f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxExpense, rec.ID.String()).Return(nil)
		f.accounts.On("GetByCode", mock.Anything, account.CodeOfficeExpense).Return(office, nil)
		f.accounts.On("GetByCode", mock.Anything, account.CodeCashOnHand).Return(cash, nil)
		f.journal.On("PostEntry", mock.Anything, mock.Anything).Return(int64(1), nil)

		err := f.facts.RecordExpense(context.Background(), rec)
		require.NoError(t, err)
		f.records.AssertExpectations(t)
		f.journal.AssertExpectations(t)
	})

	t.Run("fact persists even when projection fails", func(t *testing.T) {
		f := newFactsFixture()
		rec := &record.ExpenseRecord{ID: uuid.New(), Date: date, Category: "Software", AmountCents: 4500, PaidVia: "cash"}

		f.records.On("CreateExpense", mock.Anything, rec).Return(nil)
		f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxExpense, rec.ID.String()).Return(nil)
		f.accounts.On("GetByCode", mock.Anything, mock.Anything).Return(nil, account.ErrAccountNotFound{Code: account.CodeOfficeExpense})

		err := f.facts.RecordExpense(context.Background(), rec)
		require.NoError(t, err)
		f.records.AssertExpectations(t)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		f := newFactsFixture()
		rec := &record.ExpenseRecord{ID: uuid.New(), Date: date, Category: "Software", AmountCents: 4500}

		storageErr := errors.New("connection reset")
		f.records.On("CreateExpense", mock.Anything, rec).Return(storageErr)

		err := f.facts.RecordExpense(context.Background(), rec)
		assert.ErrorIs(t, err, storageErr)
	})
}

func TestFacts_RecordTransfer_Validation(t *testing.T) {
	f := newFactsFixture()
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	err := f.facts.RecordTransfer(context.Background(), &record.OwnerTransfer{
		ID: uuid.New(), Date: date, Type: record.TransferType("wire"), AmountCents: 100,
	})
	assert.ErrorIs(t, err, record.ErrInvalidTransferType)

	err = f.facts.RecordTransfer(context.Background(), &record.OwnerTransfer{
		ID: uuid.New(), Date: date, Type: record.TransferPersonalToBusiness, AmountCents: 0,
	})
	assert.ErrorIs(t, err, record.ErrInvalidAmount)

	f.records.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything)
}

func TestFacts_ListExpenses(t *testing.T) {
	f := newFactsFixture()

	page := []*record.ExpenseRecord{
		{ID: uuid.New(), Category: "Software", AmountCents: 100},
		{ID: uuid.New(), Category: "Travel", AmountCents: 200},
	}
	f.records.On("ListExpenses", mock.Anything, 10, 10).Return(page, nil)
	f.records.On("CountExpenses", mock.Anything).Return(int64(12), nil)

	records, total, err := f.facts.ListExpenses(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int64(12), total)
}

func TestFacts_DeleteIncome(t *testing.T) {
	f := newFactsFixture()
	id := uuid.New()

	f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxIncome, id.String()).Return(nil)
	f.records.On("DeleteIncome", mock.Anything, id).Return(nil)

	err := f.facts.DeleteIncome(context.Background(), id)
	require.NoError(t, err)
	f.journal.AssertExpectations(t)
	f.records.AssertExpectations(t)
}

func TestFacts_DeleteExpense_MissingRecord(t *testing.T) {
	f := newFactsFixture()
	id := uuid.New()

	f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxExpense, id.String()).Return(nil)
	f.records.On("DeleteExpense", mock.Anything, id).Return(record.ErrRecordNotFound{Kind: "expense", ID: id})

	err := f.facts.DeleteExpense(context.Background(), id)
	var notFound record.ErrRecordNotFound
	assert.ErrorAs(t, err, &notFound)
}
