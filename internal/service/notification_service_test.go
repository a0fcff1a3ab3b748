package service

import (
	"testing"
	"time"

	"invoiceflow-be/internal/model"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFlattenPayload(t *testing.T) {
	invoiceId := uuid.New()
	flat := flattenPayload(map[string]interface{}{
		"provider_id": "abc",
		"invoice": map[string]interface{}{
			"id":             invoiceId,
			"invoice_number": "INV-202503-000001",
		},
		"customer": map[string]interface{}{
			"full_name": "Jane Doe",
		},
	})

	assert.Equal(t, "abc", flat["provider_id"])
	assert.Equal(t, "INV-202503-000001", flat["invoice_number"])
	assert.Equal(t, "Jane Doe", flat["full_name"])
	// Nested maps are lifted, not kept.
	assert.NotContains(t, flat, "invoice")
}

func TestResolveRecipients(t *testing.T) {
	customerId := uuid.New()
	providerId := uuid.New()

	evt := events.BaseEvent{
		Type: events.InvoicePaid,
		Data: map[string]interface{}{
			"provider_id": providerId,
			"customer": map[string]interface{}{
				"id": customerId,
			},
		},
		OccurredAt: time.Now(),
	}

	svc := &NotificationService{}

	tests := []struct {
		target string
		want   []uuid.UUID
	}{
		{"CUSTOMER", []uuid.UUID{customerId}},
		{"PROVIDER", []uuid.UUID{providerId}},
		{"BOTH", []uuid.UUID{customerId, providerId}},
		{"ADMIN", nil},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got := svc.resolveRecipients(&model.NotificationType{TargetType: tt.target}, evt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRecipientsParsesStringIds(t *testing.T) {
	customerId := uuid.New()
	// Identities arrive as strings after a JSON round trip through NATS.
	evt := events.BaseEvent{
		Type: events.InvoiceCreated,
		Data: map[string]interface{}{
			"customer": map[string]interface{}{
				"id": customerId.String(),
			},
		},
	}

	svc := &NotificationService{}
	got := svc.resolveRecipients(&model.NotificationType{TargetType: "CUSTOMER"}, evt)
	assert.Equal(t, []uuid.UUID{customerId}, got)
}

func TestBuildNotification(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	invoiceId := uuid.New()
	userId := uuid.New()

	svc := &NotificationService{clock: &clock.Fixed{Instant: now}}

	config := &model.NotificationType{
		Code:        "invoice.paid",
		DisplayName: "Invoice Paid",
		Template:    "Invoice {invoice_number} has been paid in full",
	}
	evt := events.BaseEvent{
		Type: events.InvoicePaid,
		Data: map[string]interface{}{
			"invoice": map[string]interface{}{
				"id":             invoiceId.String(),
				"invoice_number": "INV-202503-000001",
			},
		},
		OccurredAt: now,
	}

	notif := svc.buildNotification(userId, config, evt)

	assert.Equal(t, userId, notif.UserID)
	assert.Equal(t, "invoice.paid", notif.TypeCode)
	assert.Equal(t, "Invoice Paid", notif.Title)
	assert.Equal(t, "Invoice INV-202503-000001 has been paid in full", notif.Message)
	assert.Equal(t, "invoice", notif.EntityType)
	if assert.NotNil(t, notif.EntityID) {
		assert.Equal(t, invoiceId, *notif.EntityID)
	}
	assert.Equal(t, now, notif.CreatedAt)
	assert.False(t, notif.IsRead)
}
