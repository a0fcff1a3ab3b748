package events

import (
	"testing"
	"time"

	"invoiceflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestIsKnown(t *testing.T) {
	for _, name := range Catalog {
		if !IsKnown(name) {
			t.Errorf("IsKnown(%q) = false, want true", name)
		}
	}

	for _, name := range []string{"", "invoice.deleted", "payment.refunded", "INVOICE.CREATED"} {
		if IsKnown(name) {
			t.Errorf("IsKnown(%q) = true, want false", name)
		}
	}
}

func TestInvoiceSnapshotMoneyAsStrings(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Id:            uuid.New(),
		InvoiceNumber: "INV-202503-000001",
		Amount:        decimal.RequireFromString("100"),
		TaxAmount:     decimal.RequireFromString("10.5"),
		TotalAmount:   decimal.RequireFromString("110.5"),
		Status:        entity.InvoiceStatusPending,
		IssueDate:     now,
		DueDate:       now.Add(7 * 24 * time.Hour),
	}

	snap := InvoiceSnapshot(inv)

	// Fixed two-decimal strings regardless of the stored scale.
	if snap["amount"] != "100.00" {
		t.Errorf("amount = %v, want \"100.00\"", snap["amount"])
	}
	if snap["total_amount"] != "110.50" {
		t.Errorf("total_amount = %v, want \"110.50\"", snap["total_amount"])
	}
	if snap["status"] != "pending" {
		t.Errorf("status = %v", snap["status"])
	}
	if _, ok := snap["paid_date"]; ok {
		t.Error("paid_date present on unpaid invoice")
	}

	paid := now.Add(time.Hour)
	inv.PaidDate = &paid
	if snap := InvoiceSnapshot(inv); snap["paid_date"] != paid.Format(time.RFC3339) {
		t.Errorf("paid_date = %v", snap["paid_date"])
	}
}

func TestNewPaymentEventLayersSnapshots(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Id:          uuid.New(),
		ProviderId:  uuid.New(),
		TotalAmount: decimal.RequireFromString("100.00"),
		IssueDate:   now,
		DueDate:     now,
	}
	pay := &entity.Payment{
		Id:        uuid.New(),
		Reference: "PAY-202503-000001",
		Amount:    decimal.RequireFromString("100.00"),
		Status:    entity.PaymentStatusCompleted,
	}
	cust := &entity.Customer{Id: uuid.New(), FullName: "Jane Doe", Email: "jane@example.test"}

	evt := NewPaymentEvent(PaymentCompleted, inv, pay, cust, now)

	if evt.EventType() != PaymentCompleted {
		t.Errorf("EventType = %s", evt.EventType())
	}
	if !evt.Timestamp().Equal(now) {
		t.Errorf("Timestamp = %v", evt.Timestamp())
	}

	payload := evt.Payload()
	if payload["provider_id"] != inv.ProviderId {
		t.Error("provider_id missing from payload")
	}
	for _, key := range []string{"invoice", "payment", "customer"} {
		if _, ok := payload[key].(map[string]interface{}); !ok {
			t.Errorf("payload[%q] missing or not a snapshot", key)
		}
	}
}

func TestNewRefundEventCarriesAllSnapshots(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{Id: uuid.New(), TotalAmount: decimal.RequireFromString("100.00"), IssueDate: now, DueDate: now}
	pay := &entity.Payment{Id: uuid.New(), Amount: decimal.RequireFromString("100.00")}
	ref := &entity.Refund{
		Id:         uuid.New(),
		PaymentId:  pay.Id,
		Amount:     decimal.RequireFromString("25.00"),
		Status:     entity.RefundStatusCompleted,
		RefundType: entity.RefundTypePartial,
		Reason:     "damaged goods",
	}

	evt := NewRefundEvent(inv, pay, ref, nil, now)

	if evt.EventType() != RefundCompleted {
		t.Errorf("EventType = %s", evt.EventType())
	}

	refund, ok := evt.Payload()["refund"].(map[string]interface{})
	if !ok {
		t.Fatal("refund snapshot missing")
	}
	if refund["amount"] != "25.00" {
		t.Errorf("refund amount = %v", refund["amount"])
	}
	if refund["reason"] != "damaged goods" {
		t.Errorf("refund reason = %v", refund["reason"])
	}
	// Nil customer must not leave a key behind.
	if _, ok := evt.Payload()["customer"]; ok {
		t.Error("customer key present for nil customer")
	}
}
