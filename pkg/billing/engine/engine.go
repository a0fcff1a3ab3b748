package engine

import (
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/pkg/billing/ledger"
	"invoiceflow-be/pkg/clock"
)

// Transition is the outcome of a reconciliation step.
type Transition int

const (
	// TransitionNone means the invoice status did not change.
	TransitionNone Transition = iota
	// TransitionPaid means the invoice just became paid.
	TransitionPaid
	// TransitionReverted means a refund pushed a paid invoice back to pending.
	TransitionReverted
)

// Engine derives invoice status from the ledger and applies the allowed
// state transitions. All methods are pure decisions over the ledger:
// they mutate the in-memory invoice only and never touch storage or the
// network, so callers can wrap them in a transaction and abort cleanly.
//
// Callers must hold the per-invoice serialization point (row lock) while
// recomputing the ledger and applying a transition; the decision to mark
// an invoice paid is a function of the recomputed ledger, not of the
// triggering payment, so concurrent completions converge.
type Engine struct {
	clock     clock.Clock
	retention time.Duration
}

// New builds an Engine. retention is the paid-age window after which an
// invoice becomes archivable.
func New(clk clock.Clock, retention time.Duration) *Engine {
	return &Engine{clock: clk, retention: retention}
}

// Retention returns the paid-age window, so sweeps can pre-filter
// archive candidates at the query instead of loading every paid invoice.
func (e *Engine) Retention() time.Duration {
	return e.retention
}

// ApplyPayment reconciles an invoice after a payment completed. The
// payment must already be completed; the ledger must be recomputed from
// all of the invoice's payments and refunds.
func (e *Engine) ApplyPayment(inv *entity.Invoice, pay *entity.Payment, lg ledger.Ledger) (Transition, error) {
	if pay.Status != entity.PaymentStatusCompleted {
		return TransitionNone, &InvalidStateError{
			Op:      "record payment",
			Current: string(pay.Status),
			Reason:  "payment must be completed before reconciliation",
		}
	}
	switch inv.Status {
	case entity.InvoiceStatusCancelled, entity.InvoiceStatusArchived:
		return TransitionNone, &InvalidStateError{
			Op:      "record payment",
			Current: string(inv.Status),
			Reason:  "invoice is closed",
		}
	}
	return e.reconcile(inv, lg), nil
}

// ApplyRefund reconciles an invoice after a refund completed. A paid
// invoice with a reopened balance reverts to pending and loses its paid
// date.
func (e *Engine) ApplyRefund(inv *entity.Invoice, ref *entity.Refund, lg ledger.Ledger) (Transition, error) {
	if ref.Status != entity.RefundStatusCompleted {
		return TransitionNone, &InvalidStateError{
			Op:      "record refund",
			Current: string(ref.Status),
			Reason:  "refund must be completed before reconciliation",
		}
	}
	return e.reconcile(inv, lg), nil
}

// reconcile makes invoice status consistent with the ledger. Idempotent:
// applying the same ledger twice yields no second transition.
func (e *Engine) reconcile(inv *entity.Invoice, lg ledger.Ledger) Transition {
	settled := lg.Settled(inv.TotalAmount)

	if settled && inv.Status != entity.InvoiceStatusPaid {
		now := e.clock.Now()
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidDate = &now
		return TransitionPaid
	}

	if !settled && inv.Status == entity.InvoiceStatusPaid {
		inv.Status = entity.InvoiceStatusPending
		inv.PaidDate = nil
		return TransitionReverted
	}

	return TransitionNone
}

// Cancel closes a pending or overdue invoice, recording the reason and
// timestamp in metadata. Paid and already-cancelled invoices refuse.
func (e *Engine) Cancel(inv *entity.Invoice, reason string) error {
	switch inv.Status {
	case entity.InvoiceStatusPaid:
		return &InvalidStateError{Op: "cancel", Current: string(inv.Status), Reason: "paid invoices cannot be cancelled"}
	case entity.InvoiceStatusCancelled:
		return &InvalidStateError{Op: "cancel", Current: string(inv.Status), Reason: "invoice is already cancelled"}
	case entity.InvoiceStatusArchived:
		return &InvalidStateError{Op: "cancel", Current: string(inv.Status), Reason: "archived invoices cannot be cancelled"}
	}
	inv.Status = entity.InvoiceStatusCancelled
	if reason != "" {
		inv.SetMeta(entity.MetaCancellationReason, reason)
	}
	inv.SetMeta(entity.MetaCancelledAt, e.clock.Now().Format(time.RFC3339))
	return nil
}

// MarkOverdue flips a pending invoice past its due date to overdue.
// Returns false without error when the invoice is not eligible; the
// sweep calls this blindly over candidates.
func (e *Engine) MarkOverdue(inv *entity.Invoice) bool {
	if inv.Status != entity.InvoiceStatusPending {
		return false
	}
	if !inv.DueDate.Before(e.clock.Now()) {
		return false
	}
	inv.Status = entity.InvoiceStatusOverdue
	return true
}

// Archive moves a paid invoice whose paid date is older than the
// retention window to archived. No-op otherwise.
func (e *Engine) Archive(inv *entity.Invoice) bool {
	if inv.Status != entity.InvoiceStatusPaid || inv.PaidDate == nil {
		return false
	}
	if e.clock.Now().Sub(*inv.PaidDate) < e.retention {
		return false
	}
	inv.Status = entity.InvoiceStatusArchived
	return true
}
