package webhook

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
)

func sampleEnvelope() Envelope {
	evt := events.BaseEvent{
		Type: events.InvoicePaid,
		Data: map[string]interface{}{
			"provider_id": uuid.New(),
			"invoice": map[string]interface{}{
				"invoice_number": "INV-202503-000001",
				"total_amount":   "110.50",
			},
			"customer": map[string]interface{}{
				"full_name": "Jane Doe",
			},
		},
		OccurredAt: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	return NewEnvelope(evt, uuid.New())
}

func TestEnvelopeBody(t *testing.T) {
	env := sampleEnvelope()

	raw, err := env.Body()
	if err != nil {
		t.Fatalf("Body returned error: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}

	if body["event"] != events.InvoicePaid {
		t.Errorf("event = %v", body["event"])
	}
	if body["timestamp"] != "2025-03-15T12:00:00Z" {
		t.Errorf("timestamp = %v", body["timestamp"])
	}
	if _, ok := body["invoice"].(map[string]interface{}); !ok {
		t.Error("invoice snapshot missing")
	}
	if _, ok := body["customer"].(map[string]interface{}); !ok {
		t.Error("customer snapshot missing")
	}
	// provider_id is routing metadata, not part of the wire payload.
	if _, ok := body["provider_id"]; ok {
		t.Error("provider_id leaked into wire body")
	}
	if _, ok := body["payment"]; ok {
		t.Error("absent snapshot key present in body")
	}
}

func TestEnvelopeBodyDeterministic(t *testing.T) {
	env := sampleEnvelope()

	first, err := env.Body()
	if err != nil {
		t.Fatalf("Body returned error: %v", err)
	}
	second, err := env.Body()
	if err != nil {
		t.Fatalf("Body returned error: %v", err)
	}

	// Retries re-sign the stored bytes, so rebuilds must be identical.
	if !bytes.Equal(first, second) {
		t.Error("Body not deterministic across calls")
	}
}
