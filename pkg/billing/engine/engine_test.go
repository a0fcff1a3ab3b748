package engine

import (
	"errors"
	"testing"
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/pkg/billing/ledger"
	"invoiceflow-be/pkg/clock"

	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newEngine() (*Engine, *clock.Fixed) {
	clk := &clock.Fixed{Instant: baseTime}
	return New(clk, 90*24*time.Hour), clk
}

func pendingInvoice(total string) *entity.Invoice {
	return &entity.Invoice{
		Status:      entity.InvoiceStatusPending,
		TotalAmount: decimal.RequireFromString(total),
		DueDate:     baseTime.Add(7 * 24 * time.Hour),
	}
}

func completedPayment(amount string) *entity.Payment {
	return &entity.Payment{
		Amount: decimal.RequireFromString(amount),
		Status: entity.PaymentStatusCompleted,
	}
}

func ledgerOf(paid, refunded string) ledger.Ledger {
	return ledger.Ledger{
		TotalPaid:     decimal.RequireFromString(paid),
		TotalRefunded: decimal.RequireFromString(refunded),
	}
}

func TestApplyPaymentSettles(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")

	tr, err := eng.ApplyPayment(inv, completedPayment("100.00"), ledgerOf("100.00", "0"))
	if err != nil {
		t.Fatalf("ApplyPayment returned error: %v", err)
	}
	if tr != TransitionPaid {
		t.Errorf("transition = %v, want TransitionPaid", tr)
	}
	if inv.Status != entity.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
	if inv.PaidDate == nil || !inv.PaidDate.Equal(baseTime) {
		t.Errorf("PaidDate = %v, want %v", inv.PaidDate, baseTime)
	}
}

func TestApplyPaymentPartialKeepsPending(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")

	tr, err := eng.ApplyPayment(inv, completedPayment("40.00"), ledgerOf("40.00", "0"))
	if err != nil {
		t.Fatalf("ApplyPayment returned error: %v", err)
	}
	if tr != TransitionNone {
		t.Errorf("transition = %v, want TransitionNone", tr)
	}
	if inv.Status != entity.InvoiceStatusPending {
		t.Errorf("status = %s, want pending", inv.Status)
	}
	if inv.PaidDate != nil {
		t.Errorf("PaidDate = %v, want nil", inv.PaidDate)
	}
}

func TestApplyPaymentOverpaymentSettles(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")

	tr, err := eng.ApplyPayment(inv, completedPayment("150.00"), ledgerOf("150.00", "0"))
	if err != nil {
		t.Fatalf("ApplyPayment returned error: %v", err)
	}
	if tr != TransitionPaid {
		t.Errorf("transition = %v, want TransitionPaid", tr)
	}
}

func TestApplyPaymentSettlesOverdueInvoice(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")
	inv.Status = entity.InvoiceStatusOverdue

	tr, err := eng.ApplyPayment(inv, completedPayment("100.00"), ledgerOf("100.00", "0"))
	if err != nil {
		t.Fatalf("ApplyPayment returned error: %v", err)
	}
	if tr != TransitionPaid {
		t.Errorf("transition = %v, want TransitionPaid", tr)
	}
	if inv.Status != entity.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
}

func TestApplyPaymentIdempotent(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")
	lg := ledgerOf("100.00", "0")
	pay := completedPayment("100.00")

	if tr, _ := eng.ApplyPayment(inv, pay, lg); tr != TransitionPaid {
		t.Fatalf("first apply: transition = %v, want TransitionPaid", tr)
	}
	firstPaid := *inv.PaidDate

	// Same ledger again: no second transition, paid date untouched.
	tr, err := eng.ApplyPayment(inv, pay, lg)
	if err != nil {
		t.Fatalf("second apply returned error: %v", err)
	}
	if tr != TransitionNone {
		t.Errorf("second apply: transition = %v, want TransitionNone", tr)
	}
	if !inv.PaidDate.Equal(firstPaid) {
		t.Errorf("PaidDate changed on idempotent apply: %v != %v", inv.PaidDate, firstPaid)
	}
}

// Two partial payments settle the invoice the same way regardless of the
// order they complete in; the decision comes from the recomputed ledger,
// not the triggering payment.
func TestApplyPaymentCommutes(t *testing.T) {
	orders := [][]string{
		{"60.00", "40.00"},
		{"40.00", "60.00"},
	}

	var final []*entity.Invoice
	for _, amounts := range orders {
		eng, _ := newEngine()
		inv := pendingInvoice("100.00")

		var completed []*entity.Payment
		for _, amount := range amounts {
			pay := completedPayment(amount)
			completed = append(completed, pay)

			tr, err := eng.ApplyPayment(inv, pay, ledger.Compute(completed, nil))
			if err != nil {
				t.Fatalf("order %v: ApplyPayment(%s) returned error: %v", amounts, amount, err)
			}
			wantTr := TransitionNone
			if len(completed) == len(amounts) {
				wantTr = TransitionPaid
			}
			if tr != wantTr {
				t.Errorf("order %v: transition after %s = %v, want %v", amounts, amount, tr, wantTr)
			}
		}
		final = append(final, inv)
	}

	a, b := final[0], final[1]
	if a.Status != b.Status {
		t.Errorf("final status differs by order: %s vs %s", a.Status, b.Status)
	}
	if a.Status != entity.InvoiceStatusPaid {
		t.Errorf("final status = %s, want paid", a.Status)
	}
	if a.PaidDate == nil || b.PaidDate == nil || !a.PaidDate.Equal(*b.PaidDate) {
		t.Errorf("paid date differs by order: %v vs %v", a.PaidDate, b.PaidDate)
	}
}

func TestApplyPaymentRejectsClosedInvoice(t *testing.T) {
	eng, _ := newEngine()

	for _, status := range []entity.InvoiceStatus{entity.InvoiceStatusCancelled, entity.InvoiceStatusArchived} {
		inv := pendingInvoice("100.00")
		inv.Status = status

		_, err := eng.ApplyPayment(inv, completedPayment("100.00"), ledgerOf("100.00", "0"))
		var stateErr *InvalidStateError
		if !errors.As(err, &stateErr) {
			t.Errorf("status %s: err = %v, want *InvalidStateError", status, err)
		}
	}
}

func TestApplyPaymentRejectsNonCompletedPayment(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")
	pay := completedPayment("100.00")
	pay.Status = entity.PaymentStatusPending

	_, err := eng.ApplyPayment(inv, pay, ledgerOf("0", "0"))
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want *InvalidStateError", err)
	}
}

func TestApplyRefundRevertsPaidInvoice(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")
	paid := baseTime
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidDate = &paid

	refund := &entity.Refund{
		Amount: decimal.RequireFromString("30.00"),
		Status: entity.RefundStatusCompleted,
	}

	tr, err := eng.ApplyRefund(inv, refund, ledgerOf("100.00", "30.00"))
	if err != nil {
		t.Fatalf("ApplyRefund returned error: %v", err)
	}
	if tr != TransitionReverted {
		t.Errorf("transition = %v, want TransitionReverted", tr)
	}
	if inv.Status != entity.InvoiceStatusPending {
		t.Errorf("status = %s, want pending", inv.Status)
	}
	if inv.PaidDate != nil {
		t.Errorf("PaidDate = %v, want nil after revert", inv.PaidDate)
	}
}

func TestApplyRefundWithinOverpaymentKeepsPaid(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")
	paid := baseTime
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidDate = &paid

	refund := &entity.Refund{
		Amount: decimal.RequireFromString("20.00"),
		Status: entity.RefundStatusCompleted,
	}

	// 120 paid - 20 refunded still covers the 100 total.
	tr, err := eng.ApplyRefund(inv, refund, ledgerOf("120.00", "20.00"))
	if err != nil {
		t.Fatalf("ApplyRefund returned error: %v", err)
	}
	if tr != TransitionNone {
		t.Errorf("transition = %v, want TransitionNone", tr)
	}
	if inv.Status != entity.InvoiceStatusPaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
}

func TestApplyRefundRejectsNonCompletedRefund(t *testing.T) {
	eng, _ := newEngine()
	inv := pendingInvoice("100.00")

	refund := &entity.Refund{
		Amount: decimal.RequireFromString("30.00"),
		Status: entity.RefundStatusPending,
	}

	_, err := eng.ApplyRefund(inv, refund, ledgerOf("100.00", "0"))
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("err = %v, want *InvalidStateError", err)
	}
}

func TestCancel(t *testing.T) {
	eng, _ := newEngine()

	t.Run("pending invoice cancels with reason", func(t *testing.T) {
		inv := pendingInvoice("100.00")

		if err := eng.Cancel(inv, "customer request"); err != nil {
			t.Fatalf("Cancel returned error: %v", err)
		}
		if inv.Status != entity.InvoiceStatusCancelled {
			t.Errorf("status = %s, want cancelled", inv.Status)
		}
		if inv.Metadata[entity.MetaCancellationReason] != "customer request" {
			t.Errorf("cancellation reason = %v", inv.Metadata[entity.MetaCancellationReason])
		}
		if !inv.HasMeta(entity.MetaCancelledAt) {
			t.Error("cancelled_at metadata missing")
		}
	})

	t.Run("overdue invoice cancels", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		inv.Status = entity.InvoiceStatusOverdue

		if err := eng.Cancel(inv, "written off"); err != nil {
			t.Fatalf("Cancel returned error: %v", err)
		}
	})

	t.Run("paid, cancelled and archived refuse", func(t *testing.T) {
		for _, status := range []entity.InvoiceStatus{
			entity.InvoiceStatusPaid,
			entity.InvoiceStatusCancelled,
			entity.InvoiceStatusArchived,
		} {
			inv := pendingInvoice("100.00")
			inv.Status = status

			err := eng.Cancel(inv, "too late")
			var stateErr *InvalidStateError
			if !errors.As(err, &stateErr) {
				t.Errorf("status %s: err = %v, want *InvalidStateError", status, err)
			}
		}
	})
}

func TestMarkOverdue(t *testing.T) {
	eng, clk := newEngine()

	t.Run("pending past due flips", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		clk.Instant = inv.DueDate.Add(time.Hour)

		if !eng.MarkOverdue(inv) {
			t.Fatal("MarkOverdue = false, want true")
		}
		if inv.Status != entity.InvoiceStatusOverdue {
			t.Errorf("status = %s, want overdue", inv.Status)
		}
	})

	t.Run("not yet due is a no-op", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		clk.Instant = inv.DueDate.Add(-time.Hour)

		if eng.MarkOverdue(inv) {
			t.Error("MarkOverdue = true, want false")
		}
	})

	t.Run("non-pending is a no-op", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		inv.Status = entity.InvoiceStatusPaid
		clk.Instant = inv.DueDate.Add(time.Hour)

		if eng.MarkOverdue(inv) {
			t.Error("MarkOverdue = true, want false")
		}
		if inv.Status != entity.InvoiceStatusPaid {
			t.Errorf("status = %s, want paid untouched", inv.Status)
		}
	})
}

func TestArchive(t *testing.T) {
	eng, clk := newEngine()

	t.Run("paid older than retention archives", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		paid := baseTime
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidDate = &paid
		clk.Instant = baseTime.Add(91 * 24 * time.Hour)

		if !eng.Archive(inv) {
			t.Fatal("Archive = false, want true")
		}
		if inv.Status != entity.InvoiceStatusArchived {
			t.Errorf("status = %s, want archived", inv.Status)
		}
	})

	t.Run("paid inside retention is a no-op", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		paid := baseTime
		inv.Status = entity.InvoiceStatusPaid
		inv.PaidDate = &paid
		clk.Instant = baseTime.Add(30 * 24 * time.Hour)

		if eng.Archive(inv) {
			t.Error("Archive = true, want false")
		}
	})

	t.Run("non-paid is a no-op", func(t *testing.T) {
		inv := pendingInvoice("100.00")
		clk.Instant = baseTime.Add(365 * 24 * time.Hour)

		if eng.Archive(inv) {
			t.Error("Archive = true, want false")
		}
	})
}
