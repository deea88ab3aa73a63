package handler

// CreateManualEntryRequest represents an admin manual journal entry
type CreateManualEntryRequest struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Memo        string `json:"memo" binding:"required"`
	DebitCode   string `json:"debit_code" binding:"required"`
	CreditCode  string `json:"credit_code" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

// ManualEntryResponse carries the id of a posted manual entry
type ManualEntryResponse struct {
	EntryID int64 `json:"entry_id"`
}

// AccountResponse represents a chart account in API responses
type AccountResponse struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	NormalSide string `json:"normal_side"`
	IsSystem   bool   `json:"is_system"`
	Active     bool   `json:"active"`
}

// AccountBalanceResponse carries a derived account balance
type AccountBalanceResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	NormalSide   string `json:"normal_side"`
	BalanceCents int64  `json:"balance_cents"`
	Year         *int   `json:"year,omitempty"`
}

// CreateExpenseRequest represents a new expense fact. AmountCents is a
// pointer so an explicit zero passes binding: zero and negative facts are
// recorded, they just produce no journal entry.
type CreateExpenseRequest struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Category    string `json:"category" binding:"required"`
	AmountCents *int64 `json:"amount_cents" binding:"required"`
	PaidVia     string `json:"paid_via,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CreateIncomeRequest represents a new income fact. OwnerFunded is a pointer
// so an omitted flag can fall back to the legacy free-text inference;
// AmountCents is a pointer for the same reason as on expenses.
type CreateIncomeRequest struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Category    string `json:"category" binding:"required"`
	AmountCents *int64 `json:"amount_cents" binding:"required"`
	SourceTag   string `json:"source_tag,omitempty"`
	OwnerFunded *bool  `json:"owner_funded,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CreateTransferRequest represents a new owner transfer
type CreateTransferRequest struct {
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Type        string `json:"type" binding:"required,oneof=personal_to_business business_to_personal personal_paid_business_card"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Notes       string `json:"notes,omitempty"`
}

// CreateInvoiceRequest represents a new invoice
type CreateInvoiceRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	TotalCents   int64  `json:"total_cents" binding:"min=0"`
	DueDate      string `json:"due_date,omitempty"`
}

// RecordPaymentRequest represents an admin "record payment" action.
// ExternalEventID is the caller's idempotency token; retries with the same id
// are absorbed.
type RecordPaymentRequest struct {
	AmountCents     int64  `json:"amount_cents" binding:"required,gt=0"`
	ExternalEventID string `json:"external_event_id" binding:"required"`
	Category        string `json:"category,omitempty"`
	OccurredAt      string `json:"occurred_at,omitempty"`
}

// PaymentEventRequest is the payment-gateway webhook payload for a completed
// checkout session
type PaymentEventRequest struct {
	EventID     string `json:"event_id" binding:"required"`
	EventType   string `json:"event_type" binding:"required"`
	SessionID   string `json:"session_id,omitempty"`
	InvoiceID   string `json:"invoice_id" binding:"required,uuid"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	CreatedAt   int64  `json:"created_at,omitempty"` // Unix seconds
}

// CloseYearRequest previews or applies a fiscal year close
type CloseYearRequest struct {
	Year  int  `json:"year" binding:"required,min=2000,max=2200"`
	Apply bool `json:"apply"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
