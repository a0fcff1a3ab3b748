package dto

import (
	"time"

	"github.com/google/uuid"
)

// WebhookSubscriptionRequest is one endpoint in a provider's settings.
type WebhookSubscriptionRequest struct {
	Url    string   `json:"url" validate:"required,url"`
	Secret string   `json:"secret"`
	Active bool     `json:"active"`
	Events []string `json:"events" validate:"required,min=1"`
}

// UpdateWebhookSettingsRequest replaces the provider's whole endpoint
// list in one write.
type UpdateWebhookSettingsRequest struct {
	ProviderId    uuid.UUID
	Subscriptions []WebhookSubscriptionRequest `json:"subscriptions" validate:"required,dive"`
}

type WebhookSubscriptionResponse struct {
	Id        uuid.UUID `json:"id"`
	Url       string    `json:"url"`
	Active    bool      `json:"active"`
	Events    []string  `json:"events"`
	CreatedAt time.Time `json:"created_at"`
}

type WebhookDeliveryResponse struct {
	Id             uuid.UUID  `json:"id"`
	SubscriptionId uuid.UUID  `json:"subscription_id"`
	EventName      string     `json:"event_name"`
	Url            string     `json:"url"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	HTTPStatus     *int       `json:"http_status,omitempty"`
	LastError      *string    `json:"last_error,omitempty"`
	NextRetryAt    *time.Time `json:"next_retry_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type WebhookDeliveryListResponse struct {
	Total      int64                     `json:"total"`
	Deliveries []WebhookDeliveryResponse `json:"deliveries"`
}

type ListDeliveriesRequest struct {
	ProviderId uuid.UUID
	Status     string
	EventName  string
	Limit      int
	Offset     int
}
