package ledger

import (
	"invoiceflow-be/internal/entity"

	"github.com/shopspring/decimal"
)

// Ledger is the derived pair (total paid, total refunded) for one invoice.
// All arithmetic is exact decimal; float64 never touches money here.
type Ledger struct {
	TotalPaid     decimal.Decimal
	TotalRefunded decimal.Decimal
}

// Compute aggregates an invoice's payments and refunds. Only completed
// rows count; pending, processing and failed rows are invisible to the
// balance.
func Compute(payments []*entity.Payment, refunds []*entity.Refund) Ledger {
	lg := Ledger{
		TotalPaid:     decimal.Zero,
		TotalRefunded: decimal.Zero,
	}
	for _, p := range payments {
		if p.Status == entity.PaymentStatusCompleted || p.Status == entity.PaymentStatusRefunded {
			lg.TotalPaid = lg.TotalPaid.Add(p.Amount)
		}
	}
	for _, r := range refunds {
		if r.Status == entity.RefundStatusCompleted {
			lg.TotalRefunded = lg.TotalRefunded.Add(r.Amount)
		}
	}
	return lg
}

// NetPaid returns total paid minus total refunded.
func (l Ledger) NetPaid() decimal.Decimal {
	return l.TotalPaid.Sub(l.TotalRefunded)
}

// Remaining returns the open balance against the invoice total. A
// negative value means overpayment and still counts as settled.
func (l Ledger) Remaining(totalAmount decimal.Decimal) decimal.Decimal {
	return totalAmount.Sub(l.NetPaid())
}

// Settled reports whether the invoice total is covered, treating
// overpayment identically to an exact zero balance.
func (l Ledger) Settled(totalAmount decimal.Decimal) bool {
	return l.Remaining(totalAmount).LessThanOrEqual(decimal.Zero)
}

// RefundedOf sums the completed refunds recorded against one payment.
func RefundedOf(payment *entity.Payment, refunds []*entity.Refund) decimal.Decimal {
	total := decimal.Zero
	for _, r := range refunds {
		if r.PaymentId == payment.Id && r.Status == entity.RefundStatusCompleted {
			total = total.Add(r.Amount)
		}
	}
	return total
}
