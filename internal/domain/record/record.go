package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidTransferType = errors.New("invalid owner transfer type")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// IncomeRecord is an externally-owned income fact the ledger projects into a
// journal entry. Invoice payments also create one as their cash-posting side
// effect, tagged with the payment's idempotency key.
type IncomeRecord struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	Category       string    `json:"category"`
	AmountCents    int64     `json:"amount_cents"`
	SourceTag      string    `json:"source_tag,omitempty"`
	IdempotencyKey *string   `json:"idempotency_key,omitempty"`
	OwnerFunded    bool      `json:"owner_funded"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ExpenseRecord is an externally-owned expense fact
type ExpenseRecord struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	PaidVia     string    `json:"paid_via,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferType enumerates the three fixed owner transfer shapes
type TransferType string

const (
	TransferPersonalToBusiness       TransferType = "personal_to_business"
	TransferBusinessToPersonal       TransferType = "business_to_personal"
	TransferPersonalPaidBusinessCard TransferType = "personal_paid_business_card"
)

// ValidTransferType reports whether t is one of the three fixed transfer types
func ValidTransferType(t TransferType) bool {
	switch t {
	case TransferPersonalToBusiness, TransferBusinessToPersonal, TransferPersonalPaidBusinessCard:
		return true
	}
	return false
}

// OwnerTransfer is an instruction moving money between the owner and the business
type OwnerTransfer struct {
	ID          uuid.UUID    `json:"id"`
	Date        time.Time    `json:"date"`
	Type        TransferType `json:"type"`
	AmountCents int64        `json:"amount_cents"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PaymentDedupeKey builds the idempotency key identifying one applied invoice
// payment. At most one income record may ever carry a given key.
func PaymentDedupeKey(invoiceID uuid.UUID, externalEventID string) string {
	return fmt.Sprintf("invoice-payment:%s:%s", invoiceID, externalEventID)
}

// ownerFundedMarkers are the free-text phrases legacy data used in place of
// the owner_funded flag.
var ownerFundedMarkers = []string{"owner funded", "non-revenue", "test"}

// OwnerFundedHint infers the owner-funded flag from free text. Kept only for
// backfilling legacy rows and requests that predate the explicit flag; new
// writers should set OwnerFunded directly.
func OwnerFundedHint(category, sourceTag string) bool {
	text := strings.ToLower(category + " " + sourceTag)
	for _, marker := range ownerFundedMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
