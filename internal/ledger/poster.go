package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/99redder/eastern-shore-ai/internal/data/postgres"
	"github.com/99redder/eastern-shore-ai/internal/domain/invoice"
	"github.com/99redder/eastern-shore-ai/internal/domain/record"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// defaultPaymentCategory is used when the payment event carries no category
const defaultPaymentCategory = "Service Revenue"

// errDuplicateRace aborts the payment transaction when a concurrent caller
// won the insert race on the idempotency key
var errDuplicateRace = errors.New("duplicate payment event inserted concurrently")

// Poster implements the PaymentService interface. It is the single code path
// for both the admin "record payment" action and the payment-gateway webhook,
// so both share one idempotency and journal-consistency guarantee.
type Poster struct {
	db        TxRunner
	invoices  invoice.Repository
	records   record.Repository
	generator *Generator
	logger    *slog.Logger
}

// NewPoster creates a new invoice payment poster
func NewPoster(
	logger *slog.Logger,
	db TxRunner,
	invoices invoice.Repository,
	records record.Repository,
	generator *Generator,
) PaymentService {
	return &Poster{
		db:        db,
		invoices:  invoices,
		records:   records,
		generator: generator,
		logger:    logger,
	}
}

// CreateInvoice creates a new invoice with the full total outstanding
func (p *Poster) CreateInvoice(ctx context.Context, customerName string, totalCents int64, dueDate *time.Time) (*invoice.Invoice, error) {
	inv, err := invoice.NewInvoice(customerName, totalCents, dueDate)
	if err != nil {
		return nil, err
	}

	if err := p.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// GetInvoice retrieves an invoice by its ID
func (p *Poster) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return p.invoices.GetByID(ctx, id)
}

// ApplyInvoicePayment applies a payment to an invoice and to the books
// exactly once per external event id. The idempotency check, income posting,
// journal generation, and invoice update all run in one transaction; a
// concurrent insert race on the idempotency key is recovered by re-reading
// the invoice and reporting the duplicate outcome.
func (p *Poster) ApplyInvoicePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.ExternalEventID == "" {
		return nil, invoice.ErrMissingEventID
	}
	if req.AmountCents <= 0 {
		return nil, invoice.ErrInvalidPayment
	}

	eventKey := record.PaymentDedupeKey(req.InvoiceID, req.ExternalEventID)

	var result *PaymentResult
	err := p.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		rr := p.records.WithTx(tx)
		ir := p.invoices.WithTx(tx)

		// Duplicate event: report current state, change nothing
		existing, err := rr.GetIncomeByDedupeKey(ctx, eventKey)
		if err != nil {
			return err
		}
		if existing != nil {
			inv, err := ir.GetByID(ctx, req.InvoiceID)
			if err != nil {
				return err
			}
			result = duplicateResult(inv)
			return nil
		}

		inv, err := ir.LockForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		// A racing caller may have committed between the dedupe check and
		// the lock acquisition; their income row is visible now that the
		// lock is held, so re-check before applying.
		existing, err = rr.GetIncomeByDedupeKey(ctx, eventKey)
		if err != nil {
			return err
		}
		if existing != nil {
			result = duplicateResult(inv)
			return nil
		}

		applied, err := inv.ApplyPayment(req.AmountCents, req.OccurredAt)
		if err != nil {
			return err
		}

		category := req.Category
		if category == "" {
			category = defaultPaymentCategory
		}

		// The income record is dated from the payment event itself, not the
		// invoice due date: the books reflect when cash actually arrived.
		incomeRec := &record.IncomeRecord{
			ID:             uuid.New(),
			Date:           req.OccurredAt,
			Category:       category,
			AmountCents:    applied,
			SourceTag:      req.SourceTag,
			IdempotencyKey: &eventKey,
			OwnerFunded:    false,
			Notes:          fmt.Sprintf("Payment on invoice %s", req.InvoiceID),
			CreatedAt:      time.Now(),
		}

		if err := rr.CreateIncome(ctx, incomeRec); err != nil {
			if postgres.IsUniqueViolation(err) {
				return errDuplicateRace
			}
			return err
		}

		// A mapping failure must not block the payment itself; the income
		// record persists and RebuildAll recovers the journal later.
		if err := p.generator.ProjectIncome(ctx, tx, incomeRec); err != nil {
			if !isMappingError(err) {
				return err
			}
			p.logger.Error("Journal projection failed for payment income record",
				"income_record_id", incomeRec.ID.String(),
				"invoice_id", req.InvoiceID.String(),
				"error", err,
			)
		}

		if err := ir.UpdatePayment(ctx, inv); err != nil {
			return err
		}

		result = &PaymentResult{
			InvoiceID:       inv.ID,
			AppliedCents:    applied,
			AmountPaidCents: inv.AmountPaidCents,
			BalanceDueCents: inv.BalanceDueCents,
			Status:          inv.Status,
			DuplicateEvent:  false,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errDuplicateRace) {
			// The racing caller committed first; adopt its outcome
			p.logger.Info("Concurrent duplicate payment event detected",
				"invoice_id", req.InvoiceID.String(),
				"external_event_id", req.ExternalEventID,
			)
			inv, readErr := p.invoices.GetByID(ctx, req.InvoiceID)
			if readErr != nil {
				return nil, readErr
			}
			return duplicateResult(inv), nil
		}
		return nil, err
	}

	if result.DuplicateEvent {
		p.logger.Info("Duplicate payment event absorbed",
			"invoice_id", req.InvoiceID.String(),
			"external_event_id", req.ExternalEventID,
		)
	} else {
		p.logger.Info("Invoice payment applied",
			"invoice_id", req.InvoiceID.String(),
			"external_event_id", req.ExternalEventID,
			"applied_cents", result.AppliedCents,
			"status", string(result.Status),
		)
	}

	return result, nil
}

func duplicateResult(inv *invoice.Invoice) *PaymentResult {
	return &PaymentResult{
		InvoiceID:       inv.ID,
		AppliedCents:    0,
		AmountPaidCents: inv.AmountPaidCents,
		BalanceDueCents: inv.BalanceDueCents,
		Status:          inv.Status,
		DuplicateEvent:  true,
	}
}
