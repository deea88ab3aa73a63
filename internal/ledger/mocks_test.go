package ledger

import (
	"context"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the transactional function directly; repository mocks
// return themselves from WithTx so no real tx is needed
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) EnsureByCode(ctx context.Context, code, name string, accType account.Type, side account.NormalSide) (*account.Account, error) {
	args := m.Called(ctx, code, name, accType, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepo) EnsureSeeded(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAccountRepo) ListActive(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) account.Repository { return m }

type MockJournalRepo struct {
	mock.Mock
}

func (m *MockJournalRepo) PostEntry(ctx context.Context, entry *journal.Entry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepo) GetBySource(ctx context.Context, sourceType journal.SourceType, sourceID string) ([]*journal.Entry, error) {
	args := m.Called(ctx, sourceType, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Entry), args.Error(1)
}

func (m *MockJournalRepo) DeleteBySource(ctx context.Context, sourceType journal.SourceType, sourceID string) error {
	args := m.Called(ctx, sourceType, sourceID)
	return args.Error(0)
}

func (m *MockJournalRepo) Balance(ctx context.Context, accountID int64, dateRange *journal.DateRange) (int64, error) {
	args := m.Called(ctx, accountID, dateRange)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepo) BalancesByType(ctx context.Context, accType account.Type, dateRange *journal.DateRange, excludeSource *journal.SourceRef) ([]journal.AccountBalance, error) {
	args := m.Called(ctx, accType, dateRange, excludeSource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.AccountBalance), args.Error(1)
}

func (m *MockJournalRepo) TrialBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepo) WithTx(tx pgx.Tx) journal.Repository { return m }

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) CreateIncome(ctx context.Context, rec *record.IncomeRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepo) GetIncomeByID(ctx context.Context, id uuid.UUID) (*record.IncomeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.IncomeRecord), args.Error(1)
}

func (m *MockRecordRepo) GetIncomeByDedupeKey(ctx context.Context, key string) (*record.IncomeRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.IncomeRecord), args.Error(1)
}

func (m *MockRecordRepo) ListIncome(ctx context.Context, limit, offset int) ([]*record.IncomeRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*record.IncomeRecord), args.Error(1)
}

func (m *MockRecordRepo) CountIncome(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepo) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepo) CreateExpense(ctx context.Context, rec *record.ExpenseRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepo) GetExpenseByID(ctx context.Context, id uuid.UUID) (*record.ExpenseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.ExpenseRecord), args.Error(1)
}

func (m *MockRecordRepo) ListExpenses(ctx context.Context, limit, offset int) ([]*record.ExpenseRecord, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*record.ExpenseRecord), args.Error(1)
}

func (m *MockRecordRepo) CountExpenses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepo) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepo) CreateTransfer(ctx context.Context, tr *record.OwnerTransfer) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

func (m *MockRecordRepo) GetTransferByID(ctx context.Context, id uuid.UUID) (*record.OwnerTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.OwnerTransfer), args.Error(1)
}

func (m *MockRecordRepo) ListTransfers(ctx context.Context, limit, offset int) ([]*record.OwnerTransfer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*record.OwnerTransfer), args.Error(1)
}

func (m *MockRecordRepo) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepo) WithTx(tx pgx.Tx) record.Repository { return m }

type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) UpdatePayment(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) WithTx(tx pgx.Tx) invoice.Repository { return m }
