package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WebhookSubscription is the typed replacement for the old untyped
// settings blob: url, secret, active flag and subscribed event names,
// validated at write time.
type WebhookSubscription struct {
	Id         uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderId uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Url        string                      `gorm:"type:varchar(500);not null"`
	Secret     string                      `gorm:"type:varchar(255)"`
	Active     bool                        `gorm:"default:true"`
	Events     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime"`
	Provider   ServiceProvider             `gorm:"foreignKey:ProviderId"`
}

func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

// WebhookDelivery records one event's delivery chain to one subscription.
type WebhookDelivery struct {
	Id             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProviderId     uuid.UUID           `gorm:"type:uuid;not null;index"`
	EventName      string              `gorm:"type:varchar(50);not null;index"`
	Url            string              `gorm:"type:varchar(500);not null"`
	Payload        string              `gorm:"type:text;not null"`
	Status         string              `gorm:"type:varchar(20);not null;default:'pending';index:idx_deliveries_retry,priority:1"`
	Attempts       int                 `gorm:"default:0"`
	HTTPStatus     *int                ``
	LastError      *string             `gorm:"type:text"`
	NextRetryAt    *time.Time          `gorm:"index:idx_deliveries_retry,priority:2"`
	DeliveredAt    *time.Time          ``
	CreatedAt      time.Time           `gorm:"autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime"`
	Subscription   WebhookSubscription `gorm:"foreignKey:SubscriptionId"`
}

func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}

// SequenceCounter backs document number generation; one row per
// (prefix, period), bumped atomically.
type SequenceCounter struct {
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	Period    string    `gorm:"type:varchar(6);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
