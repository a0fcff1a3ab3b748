package webhook

import (
	"encoding/json"
	"time"

	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
)

// Envelope is the work item placed on the dispatch queue: one domain
// event addressed to one provider's subscription set.
type Envelope struct {
	Event      string                 `json:"event"`
	ProviderId uuid.UUID              `json:"provider_id"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewEnvelope wraps a domain event for the queue. The provider id is
// carried separately so the dispatcher can resolve subscriptions without
// digging through the payload.
func NewEnvelope(evt events.Event, providerId uuid.UUID) Envelope {
	return Envelope{
		Event:      evt.EventType(),
		ProviderId: providerId,
		Payload:    evt.Payload(),
		OccurredAt: evt.Timestamp(),
	}
}

// Body builds the exact wire payload sent to subscribers:
//
//	{"event": "...", "invoice": {...}, ..., "timestamp": "<ISO-8601>"}
//
// The returned bytes are what gets signed and what gets stored on the
// delivery row, so retries resend and re-sign identical bytes.
func (e Envelope) Body() ([]byte, error) {
	body := map[string]interface{}{
		"event":     e.Event,
		"timestamp": e.OccurredAt.UTC().Format(time.RFC3339),
	}
	for _, key := range []string{"invoice", "payment", "refund", "customer"} {
		if v, ok := e.Payload[key]; ok {
			body[key] = v
		}
	}
	return json.Marshal(body)
}
