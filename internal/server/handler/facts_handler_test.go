package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFactsService struct {
	mock.Mock
}

func (m *MockFactsService) RecordExpense(ctx context.Context, rec *record.ExpenseRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFactsService) RecordIncome(ctx context.Context, rec *record.IncomeRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockFactsService) RecordTransfer(ctx context.Context, tr *record.OwnerTransfer) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

func (m *MockFactsService) ListExpenses(ctx context.Context, page, perPage int) ([]*record.ExpenseRecord, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*record.ExpenseRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockFactsService) ListIncome(ctx context.Context, page, perPage int) ([]*record.IncomeRecord, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*record.IncomeRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockFactsService) ListTransfers(ctx context.Context, page, perPage int) ([]*record.OwnerTransfer, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*record.OwnerTransfer), args.Error(1)
}

func (m *MockFactsService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFactsService) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFactsService) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestFactsHandler_CreateExpense(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockFactsService)
		handler := NewFactsHandler(testLogger(), mockService)

		mockService.On("RecordExpense", mock.Anything, mock.MatchedBy(func(rec *record.ExpenseRecord) bool {
			return rec.AmountCents == 4500 && rec.Category == "Software" && rec.PaidVia == "business card"
		})).Return(nil)

		router := setupTestRouter()
		router.POST("/expenses", handler.CreateExpense)

		body := []byte(`{"date":"2025-04-02","category":"Software","amount_cents":4500,"paid_via":"business card"}`)
		req, _ := http.NewRequest(http.MethodPost, "/expenses", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ZeroAmountRecorded", func(t *testing.T) {
		mockService := new(MockFactsService)
		handler := NewFactsHandler(testLogger(), mockService)

		mockService.On("RecordExpense", mock.Anything, mock.MatchedBy(func(rec *record.ExpenseRecord) bool {
			return rec.AmountCents == 0
		})).Return(nil)

		router := setupTestRouter()
		router.POST("/expenses", handler.CreateExpense)

		body := []byte(`{"date":"2025-04-02","category":"Voided charge","amount_cents":0}`)
		req, _ := http.NewRequest(http.MethodPost, "/expenses", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingAmountRejected", func(t *testing.T) {
		mockService := new(MockFactsService)
		handler := NewFactsHandler(testLogger(), mockService)

		router := setupTestRouter()
		router.POST("/expenses", handler.CreateExpense)

		body := []byte(`{"date":"2025-04-02","category":"Software"}`)
		req, _ := http.NewRequest(http.MethodPost, "/expenses", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "RecordExpense", mock.Anything, mock.Anything)
	})
}

func TestFactsHandler_CreateIncome_ZeroAmountRecorded(t *testing.T) {
	mockService := new(MockFactsService)
	handler := NewFactsHandler(testLogger(), mockService)

	mockService.On("RecordIncome", mock.Anything, mock.MatchedBy(func(rec *record.IncomeRecord) bool {
		return rec.AmountCents == 0 && !rec.OwnerFunded
	})).Return(nil)

	router := setupTestRouter()
	router.POST("/income", handler.CreateIncome)

	body := []byte(`{"date":"2025-04-02","category":"Refunded deposit","amount_cents":0}`)
	req, _ := http.NewRequest(http.MethodPost, "/income", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockService.AssertExpectations(t)
}
