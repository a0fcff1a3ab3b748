package entity

import (
	"time"

	"github.com/google/uuid"
)

// WebhookSubscription is a provider's configured external endpoint.
// Events holds the subscribed event names from the closed catalog.
type WebhookSubscription struct {
	Id         uuid.UUID
	ProviderId uuid.UUID
	Url        string
	Secret     string
	Active     bool
	Events     []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SubscribedTo reports whether the subscription wants eventName.
func (s *WebhookSubscription) SubscribedTo(eventName string) bool {
	for _, e := range s.Events {
		if e == eventName {
			return true
		}
	}
	return false
}

// DeliveryStatus represents the delivery state of a webhook attempt chain.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// WebhookDelivery records the delivery of one event to one subscription,
// including the retry schedule. One row per (event, subscription).
type WebhookDelivery struct {
	Id             uuid.UUID
	SubscriptionId uuid.UUID
	ProviderId     uuid.UUID
	EventName      string
	Url            string
	Payload        string
	Status         DeliveryStatus
	Attempts       int
	HTTPStatus     *int
	LastError      *string
	NextRetryAt    *time.Time
	DeliveredAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
