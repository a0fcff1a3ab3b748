package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRefundRequest struct {
	PaymentId uuid.UUID       `json:"payment_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reason    string          `json:"reason" validate:"required,min=5"`
}

type CreateRefundResponse struct {
	Id        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
}

type CompleteRefundRequest struct {
	Id              uuid.UUID
	GatewayRefundId string `json:"gateway_refund_id"`
}

type RefundResponse struct {
	Id              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	PaymentId       uuid.UUID  `json:"payment_id"`
	InvoiceId       uuid.UUID  `json:"invoice_id"`
	CustomerId      uuid.UUID  `json:"customer_id"`
	ProcessedBy     *uuid.UUID `json:"processed_by,omitempty"`
	Amount          string     `json:"amount"`
	Status          string     `json:"status"`
	RefundType      string     `json:"refund_type"`
	Reason          string     `json:"reason"`
	Gateway         string     `json:"gateway,omitempty"`
	GatewayRefundId string     `json:"gateway_refund_id,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RefundResultResponse reports what a completion did to the invoice.
type RefundResultResponse struct {
	Refund        RefundResponse `json:"refund"`
	InvoiceStatus string         `json:"invoice_status"`
	Remaining     string         `json:"remaining_amount"`
}
