package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus represents the processing state of a refund.
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusFailed     RefundStatus = "failed"
	RefundStatusCancelled  RefundStatus = "cancelled"
)

// RefundType marks whether a refund reverses the whole parent payment.
type RefundType string

const (
	RefundTypeFull    RefundType = "full"
	RefundTypePartial RefundType = "partial"
)

// Refund is a monetary reversal against exactly one payment. The sum of
// completed refunds against a payment never exceeds that payment's amount.
type Refund struct {
	Id              uuid.UUID
	Reference       string
	PaymentId       uuid.UUID
	InvoiceId       uuid.UUID
	CustomerId      uuid.UUID
	ProcessedBy     *uuid.UUID
	Amount          decimal.Decimal
	Status          RefundStatus
	RefundType      RefundType
	Reason          string
	Gateway         string
	GatewayRefundId string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
