package events

import (
	"time"

	"invoiceflow-be/internal/entity"
)

// The closed event catalog. Webhook subscriptions may only reference
// these names; other subsystems observe exactly this contract.
const (
	InvoiceCreated   = "invoice.created"
	InvoicePaid      = "invoice.paid"
	InvoiceOverdue   = "invoice.overdue"
	InvoiceCancelled = "invoice.cancelled"
	PaymentCompleted = "payment.completed"
	PaymentFailed    = "payment.failed"
	RefundCompleted  = "refund.completed"
)

// Catalog lists every valid event name, in emission-precedence order.
var Catalog = []string{
	InvoiceCreated,
	InvoicePaid,
	InvoiceOverdue,
	InvoiceCancelled,
	PaymentCompleted,
	PaymentFailed,
	RefundCompleted,
}

// IsKnown reports whether name belongs to the catalog.
func IsKnown(name string) bool {
	for _, n := range Catalog {
		if n == name {
			return true
		}
	}
	return false
}

// InvoiceSnapshot flattens the invoice fields subscribers may rely on.
// Monetary values are serialized as fixed-point strings.
func InvoiceSnapshot(inv *entity.Invoice) map[string]interface{} {
	snap := map[string]interface{}{
		"id":             inv.Id,
		"invoice_number": inv.InvoiceNumber,
		"customer_id":    inv.CustomerId,
		"provider_id":    inv.ProviderId,
		"amount":         inv.Amount.StringFixed(2),
		"tax_amount":     inv.TaxAmount.StringFixed(2),
		"total_amount":   inv.TotalAmount.StringFixed(2),
		"status":         string(inv.Status),
		"issue_date":     inv.IssueDate.Format(time.RFC3339),
		"due_date":       inv.DueDate.Format(time.RFC3339),
	}
	if inv.PaidDate != nil {
		snap["paid_date"] = inv.PaidDate.Format(time.RFC3339)
	}
	return snap
}

// PaymentSnapshot flattens the payment fields subscribers may rely on.
func PaymentSnapshot(p *entity.Payment) map[string]interface{} {
	snap := map[string]interface{}{
		"id":           p.Id,
		"reference":    p.Reference,
		"invoice_id":   p.InvoiceId,
		"amount":       p.Amount.StringFixed(2),
		"status":       string(p.Status),
		"payment_type": string(p.PaymentType),
		"gateway":      p.Gateway,
	}
	if p.GatewayTransactionId != "" {
		snap["gateway_transaction_id"] = p.GatewayTransactionId
	}
	return snap
}

// RefundSnapshot flattens the refund fields subscribers may rely on.
func RefundSnapshot(r *entity.Refund) map[string]interface{} {
	return map[string]interface{}{
		"id":          r.Id,
		"reference":   r.Reference,
		"payment_id":  r.PaymentId,
		"invoice_id":  r.InvoiceId,
		"amount":      r.Amount.StringFixed(2),
		"status":      string(r.Status),
		"refund_type": string(r.RefundType),
		"reason":      r.Reason,
	}
}

// CustomerSnapshot flattens the customer identity carried on every event.
func CustomerSnapshot(c *entity.Customer) map[string]interface{} {
	return map[string]interface{}{
		"id":        c.Id,
		"full_name": c.FullName,
		"email":     c.Email,
	}
}

// NewInvoiceEvent builds a catalog event for an invoice transition.
func NewInvoiceEvent(name string, inv *entity.Invoice, cust *entity.Customer, occurredAt time.Time) BaseEvent {
	data := map[string]interface{}{
		"provider_id": inv.ProviderId,
		"invoice":     InvoiceSnapshot(inv),
	}
	if cust != nil {
		data["customer"] = CustomerSnapshot(cust)
	}
	return BaseEvent{Type: name, Data: data, OccurredAt: occurredAt}
}

// NewPaymentEvent builds a catalog event for a payment transition.
func NewPaymentEvent(name string, inv *entity.Invoice, pay *entity.Payment, cust *entity.Customer, occurredAt time.Time) BaseEvent {
	evt := NewInvoiceEvent(name, inv, cust, occurredAt)
	evt.Data["payment"] = PaymentSnapshot(pay)
	return evt
}

// NewRefundEvent builds a catalog event for a refund completion.
func NewRefundEvent(inv *entity.Invoice, pay *entity.Payment, ref *entity.Refund, cust *entity.Customer, occurredAt time.Time) BaseEvent {
	evt := NewPaymentEvent(RefundCompleted, inv, pay, cust, occurredAt)
	evt.Data["refund"] = RefundSnapshot(ref)
	return evt
}
