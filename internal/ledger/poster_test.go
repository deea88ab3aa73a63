package ledger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/domain/account"
	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/domain/journal"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type posterFixture struct {
	accounts *MockAccountRepo
	journal  *MockJournalRepo
	records  *MockRecordRepo
	invoices *MockInvoiceRepo
	poster   PaymentService
}

func newPosterFixture() *posterFixture {
	logger := slog.Default()
	accounts := &MockAccountRepo{}
	journalRepo := &MockJournalRepo{}
	records := &MockRecordRepo{}
	invoices := &MockInvoiceRepo{}
	gen := NewGenerator(logger, &fakeTxRunner{}, accounts, journalRepo, records, 2)
	return &posterFixture{
		accounts: accounts,
		journal:  journalRepo,
		records:  records,
		invoices: invoices,
		poster:   NewPoster(logger, &fakeTxRunner{}, invoices, records, gen),
	}
}

func (f *posterFixture) expectProjection() {
	cash := testAccount(1, account.CodeCashOnHand, account.TypeAsset, account.SideDebit)
	revenue := testAccount(10, account.CodeServiceRevenue, account.TypeIncome, account.SideCredit)
	f.accounts.On("GetByCode", mock.Anything, account.CodeCashOnHand).Return(cash, nil)
	f.accounts.On("GetByCode", mock.Anything, account.CodeServiceRevenue).Return(revenue, nil)
	f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxIncome, mock.Anything).Return(nil)
	f.journal.On("PostEntry", mock.Anything, mock.Anything).Return(int64(1), nil)
}

func paymentReq(invoiceID uuid.UUID, amount int64, eventID string) PaymentRequest {
	return PaymentRequest{
		InvoiceID:       invoiceID,
		AmountCents:     amount,
		ExternalEventID: eventID,
		SourceTag:       "manual",
		OccurredAt:      time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestPoster_ApplyInvoicePayment_Validation(t *testing.T) {
	f := newPosterFixture()
	id := uuid.New()

	_, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(id, 100, ""))
	assert.ErrorIs(t, err, invoice.ErrMissingEventID)

	_, err = f.poster.ApplyInvoicePayment(context.Background(), paymentReq(id, 0, "evt_1"))
	assert.ErrorIs(t, err, invoice.ErrInvalidPayment)

	_, err = f.poster.ApplyInvoicePayment(context.Background(), paymentReq(id, -5, "evt_1"))
	assert.ErrorIs(t, err, invoice.ErrInvalidPayment)
}

func TestPoster_ApplyInvoicePayment_FirstPayment(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	req := paymentReq(inv.ID, 40000, "evt_1")
	eventKey := record.PaymentDedupeKey(inv.ID, "evt_1")

	f.records.On("GetIncomeByDedupeKey", mock.Anything, eventKey).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)
	f.records.On("CreateIncome", mock.Anything, mock.MatchedBy(func(rec *record.IncomeRecord) bool {
		return rec.AmountCents == 40000 &&
			rec.Category == "Service Revenue" &&
			rec.IdempotencyKey != nil && *rec.IdempotencyKey == eventKey &&
			!rec.OwnerFunded &&
			rec.Date.Equal(req.OccurredAt)
	})).Return(nil)
	f.expectProjection()
	f.invoices.On("UpdatePayment", mock.Anything, mock.MatchedBy(func(i *invoice.Invoice) bool {
		return i.AmountPaidCents == 40000 && i.BalanceDueCents == 60000 && i.Status == invoice.StatusPartial
	})).Return(nil)

	result, err := f.poster.ApplyInvoicePayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), result.AppliedCents)
	assert.Equal(t, int64(60000), result.BalanceDueCents)
	assert.Equal(t, invoice.StatusPartial, result.Status)
	assert.False(t, result.DuplicateEvent)

	f.records.AssertExpectations(t)
	f.invoices.AssertExpectations(t)
}

func TestPoster_ApplyInvoicePayment_OverpaymentClamped(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	inv.AmountPaidCents = 70000
	inv.BalanceDueCents = 30000
	inv.Status = invoice.StatusPartial

	f.records.On("GetIncomeByDedupeKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)
	f.records.On("CreateIncome", mock.Anything, mock.MatchedBy(func(rec *record.IncomeRecord) bool {
		return rec.AmountCents == 30000
	})).Return(nil)
	f.expectProjection()
	f.invoices.On("UpdatePayment", mock.Anything, mock.Anything).Return(nil)

	result, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 50000, "evt_2"))
	require.NoError(t, err)
	assert.Equal(t, int64(30000), result.AppliedCents)
	assert.Equal(t, int64(0), result.BalanceDueCents)
	assert.Equal(t, invoice.StatusPaid, result.Status)
}

func TestPoster_ApplyInvoicePayment_DuplicateEvent(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	inv.AmountPaidCents = 40000
	inv.BalanceDueCents = 60000
	inv.Status = invoice.StatusPartial

	eventKey := record.PaymentDedupeKey(inv.ID, "evt_1")
	existing := &record.IncomeRecord{ID: uuid.New(), IdempotencyKey: &eventKey, AmountCents: 40000}

	f.records.On("GetIncomeByDedupeKey", mock.Anything, eventKey).Return(existing, nil)
	f.invoices.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)

	result, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 40000, "evt_1"))
	require.NoError(t, err)
	assert.True(t, result.DuplicateEvent)
	assert.Equal(t, int64(0), result.AppliedCents)
	assert.Equal(t, int64(40000), result.AmountPaidCents)
	assert.Equal(t, int64(60000), result.BalanceDueCents)

	f.invoices.AssertNotCalled(t, "LockForUpdate", mock.Anything, mock.Anything)
	f.records.AssertNotCalled(t, "CreateIncome", mock.Anything, mock.Anything)
}

func TestPoster_ApplyInvoicePayment_ConcurrentInsertRace(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 100000, nil)

	// the dedupe pre-check misses, then the unique index catches the race
	f.records.On("GetIncomeByDedupeKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)
	f.records.On("CreateIncome", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23505"})

	committed, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	committed.ID = inv.ID
	committed.AmountPaidCents = 100000
	committed.BalanceDueCents = 0
	committed.Status = invoice.StatusPaid
	f.invoices.On("GetByID", mock.Anything, inv.ID).Return(committed, nil)

	result, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 100000, "evt_1"))
	require.NoError(t, err)
	assert.True(t, result.DuplicateEvent)
	assert.Equal(t, int64(0), result.AppliedCents)
	assert.Equal(t, invoice.StatusPaid, result.Status)
}

func TestPoster_ApplyInvoicePayment_RaceCommittedBeforeLock(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	eventKey := record.PaymentDedupeKey(inv.ID, "evt_1")

	// the racer pays the invoice in full and commits between our dedupe
	// pre-check and our lock acquisition
	committed, _ := invoice.NewInvoice("Acme Corp", 100000, nil)
	committed.ID = inv.ID
	committed.AmountPaidCents = 100000
	committed.BalanceDueCents = 0
	committed.Status = invoice.StatusPaid

	racerIncome := &record.IncomeRecord{
		ID:             uuid.New(),
		AmountCents:    100000,
		IdempotencyKey: &eventKey,
	}

	f.records.On("GetIncomeByDedupeKey", mock.Anything, eventKey).Return(nil, nil).Once()
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(committed, nil)
	f.records.On("GetIncomeByDedupeKey", mock.Anything, eventKey).Return(racerIncome, nil).Once()

	result, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 100000, "evt_1"))
	require.NoError(t, err)
	assert.True(t, result.DuplicateEvent)
	assert.Equal(t, int64(0), result.AppliedCents)
	assert.Equal(t, int64(100000), result.AmountPaidCents)
	assert.Equal(t, invoice.StatusPaid, result.Status)

	f.records.AssertNotCalled(t, "CreateIncome", mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything)
	f.records.AssertExpectations(t)
}

func TestPoster_ApplyInvoicePayment_AlreadyPaid(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 50000, nil)
	inv.AmountPaidCents = 50000
	inv.BalanceDueCents = 0
	inv.Status = invoice.StatusPaid

	f.records.On("GetIncomeByDedupeKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)

	_, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 1000, "evt_9"))
	assert.ErrorIs(t, err, invoice.ErrAlreadyPaid)
	f.records.AssertNotCalled(t, "CreateIncome", mock.Anything, mock.Anything)
}

func TestPoster_ApplyInvoicePayment_MappingFailureDoesNotBlockPayment(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 20000, nil)

	f.records.On("GetIncomeByDedupeKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)
	f.records.On("CreateIncome", mock.Anything, mock.Anything).Return(nil)

	// the chart is missing the cash account: a mapping error, not a storage one
	f.journal.On("DeleteBySource", mock.Anything, journal.SourceTaxIncome, mock.Anything).Return(nil)
	f.accounts.On("GetByCode", mock.Anything, account.CodeCashOnHand).Return(nil, account.ErrAccountNotFound{Code: account.CodeCashOnHand})
	f.invoices.On("UpdatePayment", mock.Anything, mock.Anything).Return(nil)

	result, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 20000, "evt_1"))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), result.AppliedCents)
	assert.Equal(t, invoice.StatusPaid, result.Status)
	f.invoices.AssertExpectations(t)
}

func TestPoster_ApplyInvoicePayment_StorageFailureAborts(t *testing.T) {
	f := newPosterFixture()
	inv, _ := invoice.NewInvoice("Acme Corp", 20000, nil)

	storageErr := errors.New("connection reset")
	f.records.On("GetIncomeByDedupeKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.invoices.On("LockForUpdate", mock.Anything, inv.ID).Return(inv, nil)
	f.records.On("CreateIncome", mock.Anything, mock.Anything).Return(storageErr)

	_, err := f.poster.ApplyInvoicePayment(context.Background(), paymentReq(inv.ID, 20000, "evt_1"))
	assert.ErrorIs(t, err, storageErr)
	f.invoices.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything)
}

func TestPoster_CreateInvoice(t *testing.T) {
	f := newPosterFixture()

	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *invoice.Invoice) bool {
		return inv.CustomerName == "Acme Corp" && inv.TotalCents == 90000 && inv.Status == invoice.StatusDraft
	})).Return(nil)

	inv, err := f.poster.CreateInvoice(context.Background(), "Acme Corp", 90000, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), inv.BalanceDueCents)

	_, err = f.poster.CreateInvoice(context.Background(), "", 90000, nil)
	assert.ErrorIs(t, err, invoice.ErrEmptyCustomer)
}
