package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateInvoiceRequest struct {
	CustomerId uuid.UUID              `json:"customer_id" validate:"required"`
	ProviderId uuid.UUID              `json:"provider_id" validate:"required"`
	Amount     decimal.Decimal        `json:"amount" validate:"required"`
	TaxAmount  decimal.Decimal        `json:"tax_amount"`
	DueDate    time.Time              `json:"due_date" validate:"required"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

type CreateInvoiceResponse struct {
	Id            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// InvoiceResponse carries the invoice together with its derived balance.
// Monetary values are fixed-point strings, never floats.
type InvoiceResponse struct {
	Id            uuid.UUID              `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	CustomerId    uuid.UUID              `json:"customer_id"`
	ProviderId    uuid.UUID              `json:"provider_id"`
	Amount        string                 `json:"amount"`
	TaxAmount     string                 `json:"tax_amount"`
	TotalAmount   string                 `json:"total_amount"`
	TotalPaid     string                 `json:"total_paid"`
	TotalRefunded string                 `json:"total_refunded"`
	Remaining     string                 `json:"remaining_amount"`
	Status        string                 `json:"status"`
	IssueDate     time.Time              `json:"issue_date"`
	DueDate       time.Time              `json:"due_date"`
	PaidDate      *time.Time             `json:"paid_date,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type CancelInvoiceRequest struct {
	Id     uuid.UUID
	Reason string `json:"reason" validate:"required,min=5"`
}

type ListInvoicesRequest struct {
	CustomerId *uuid.UUID
	ProviderId *uuid.UUID
	Status     string
	Limit      int
	Offset     int
}
