package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusIs filters invoices/payments/refunds/deliveries by status.
type StatusIs struct {
	Status string
}

func (s StatusIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ForInvoice scopes payments and refunds to one invoice.
type ForInvoice struct {
	InvoiceID uuid.UUID
}

func (s ForInvoice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("invoice_id = ?", s.InvoiceID)
}

// ForPayment scopes refunds to one payment.
type ForPayment struct {
	PaymentID uuid.UUID
}

func (s ForPayment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_id = ?", s.PaymentID)
}

// ForCustomer scopes invoices and payments to one customer.
type ForCustomer struct {
	CustomerID uuid.UUID
}

func (s ForCustomer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}

// ForProvider scopes invoices, subscriptions and deliveries to one provider.
type ForProvider struct {
	ProviderID uuid.UUID
}

func (s ForProvider) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_id = ?", s.ProviderID)
}

// DueBefore selects invoices whose due date passed. The overdue sweep
// combines it with StatusIs{pending}.
type DueBefore struct {
	Instant time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("due_date < ?", s.Instant)
}

// PaidBefore selects invoices settled before the retention cutoff. The
// archive sweep combines it with StatusIs{paid}.
type PaidBefore struct {
	Instant time.Time
}

func (s PaidBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("paid_date IS NOT NULL AND paid_date < ?", s.Instant)
}

// RetryDue selects pending webhook deliveries whose next attempt is due.
type RetryDue struct {
	Instant time.Time
}

func (s RetryDue) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "pending", s.Instant)
}
