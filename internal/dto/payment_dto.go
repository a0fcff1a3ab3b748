package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	InvoiceId     uuid.UUID       `json:"invoice_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Gateway       string          `json:"gateway"`
}

type CreatePaymentResponse struct {
	Id        uuid.UUID `json:"id"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
}

// CompletePaymentRequest marks a pending payment as settled by the
// gateway and triggers invoice reconciliation.
type CompletePaymentRequest struct {
	Id                   uuid.UUID
	GatewayTransactionId string `json:"gateway_transaction_id"`
}

type FailPaymentRequest struct {
	Id     uuid.UUID
	Reason string `json:"reason"`
}

type PaymentResponse struct {
	Id                   uuid.UUID  `json:"id"`
	Reference            string     `json:"reference"`
	InvoiceId            uuid.UUID  `json:"invoice_id"`
	CustomerId           uuid.UUID  `json:"customer_id"`
	PaymentMethod        string     `json:"payment_method"`
	Amount               string     `json:"amount"`
	Status               string     `json:"status"`
	PaymentType          string     `json:"payment_type"`
	Gateway              string     `json:"gateway,omitempty"`
	GatewayTransactionId string     `json:"gateway_transaction_id,omitempty"`
	ProcessedAt          *time.Time `json:"processed_at,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// PaymentResultResponse reports what a completion did to the invoice.
type PaymentResultResponse struct {
	Payment       PaymentResponse `json:"payment"`
	InvoiceStatus string          `json:"invoice_status"`
	Remaining     string          `json:"remaining_amount"`
}
