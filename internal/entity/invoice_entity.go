package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusArchived  InvoiceStatus = "archived"
)

// Metadata keys written by the sweeps and by Cancel.
const (
	MetaCancellationReason = "cancellation_reason"
	MetaCancelledAt        = "cancelled_at"
	MetaReminderSentAt     = "reminder_sent_at"
)

// Invoice is a billable obligation from a service provider to a customer.
// TotalAmount is always Amount + TaxAmount; it is computed at creation and
// never mutated independently.
type Invoice struct {
	Id            uuid.UUID
	InvoiceNumber string
	CustomerId    uuid.UUID
	ProviderId    uuid.UUID
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	PaidDate      *time.Time
	Metadata      map[string]interface{}
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetMeta writes a metadata key, allocating the map on first use.
func (i *Invoice) SetMeta(key string, value interface{}) {
	if i.Metadata == nil {
		i.Metadata = map[string]interface{}{}
	}
	i.Metadata[key] = value
}

// HasMeta reports whether a metadata key is present.
func (i *Invoice) HasMeta(key string) bool {
	_, ok := i.Metadata[key]
	return ok
}
