package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidTotal   = errors.New("invoice total must not be negative")
	ErrEmptyCustomer  = errors.New("invoice customer name cannot be empty")
	ErrInvoiceVoid    = errors.New("invoice is void")
	ErrAlreadyPaid    = errors.New("invoice is already fully paid")
	ErrInvalidPayment = errors.New("payment amount must be positive")
	ErrMissingEventID = errors.New("external event id is required")
)

// Status is the invoice payment lifecycle state. Paid/partial are a pure
// function of the balance; void is a terminal side-state set independently.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
	StatusVoid    Status = "void"
)

// Invoice tracks what a customer owes. AmountPaidCents + BalanceDueCents ==
// TotalCents holds after every successful payment application.
type Invoice struct {
	ID              uuid.UUID  `json:"id"`
	CustomerName    string     `json:"customer_name"`
	TotalCents      int64      `json:"total_cents"`
	AmountPaidCents int64      `json:"amount_paid_cents"`
	BalanceDueCents int64      `json:"balance_due_cents"`
	Status          Status     `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PaidDate        *time.Time `json:"paid_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewInvoice creates an invoice with the full total outstanding
func NewInvoice(customerName string, totalCents int64, dueDate *time.Time) (*Invoice, error) {
	if customerName == "" {
		return nil, ErrEmptyCustomer
	}
	if totalCents < 0 {
		return nil, ErrInvalidTotal
	}

	now := time.Now()
	return &Invoice{
		ID:              uuid.New(),
		CustomerName:    customerName,
		TotalCents:      totalCents,
		AmountPaidCents: 0,
		BalanceDueCents: totalCents,
		Status:          StatusDraft,
		DueDate:         dueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Remaining returns the unpaid portion of the total, never negative
func (inv *Invoice) Remaining() int64 {
	remaining := inv.TotalCents - inv.AmountPaidCents
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyPayment applies up to requestedCents against the remaining balance,
// clamping to what is still owed, and moves the invoice monotonically toward
// paid. The paid date is stamped the first time the balance reaches zero and
// never overwritten. Returns the amount actually applied.
func (inv *Invoice) ApplyPayment(requestedCents int64, paidAt time.Time) (int64, error) {
	if inv.Status == StatusVoid {
		return 0, ErrInvoiceVoid
	}
	if requestedCents <= 0 {
		return 0, ErrInvalidPayment
	}

	applied := inv.Remaining()
	if requestedCents < applied {
		applied = requestedCents
	}
	if applied <= 0 {
		return 0, ErrAlreadyPaid
	}

	inv.AmountPaidCents += applied
	inv.BalanceDueCents = inv.TotalCents - inv.AmountPaidCents
	if inv.BalanceDueCents <= 0 {
		inv.Status = StatusPaid
		if inv.PaidDate == nil {
			paidDate := paidAt
			inv.PaidDate = &paidDate
		}
	} else {
		inv.Status = StatusPartial
	}
	inv.UpdatedAt = time.Now()

	return applied, nil
}
