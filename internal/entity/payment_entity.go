package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the processing state of a payment.
// Only completed payments count toward an invoice's paid total.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// PaymentType marks whether a payment covers the full invoice total.
type PaymentType string

const (
	PaymentTypeFull    PaymentType = "full"
	PaymentTypePartial PaymentType = "partial"
)

// Payment is a monetary transaction applied toward one invoice.
// A completed payment is never deleted; it may be superseded by a refund.
type Payment struct {
	Id                   uuid.UUID
	Reference            string
	InvoiceId            uuid.UUID
	CustomerId           uuid.UUID
	PaymentMethod        string
	Amount               decimal.Decimal
	Status               PaymentStatus
	PaymentType          PaymentType
	Gateway              string
	GatewayTransactionId string
	ProcessedAt          *time.Time
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
