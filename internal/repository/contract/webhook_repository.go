package contract

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WebhookSubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.WebhookSubscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebhookSubscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookSubscription, error)
	Update(ctx context.Context, sub *entity.WebhookSubscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceForProvider swaps a provider's whole subscription list in one
	// shot; the webhook settings endpoint writes the list atomically.
	ReplaceForProvider(ctx context.Context, providerId uuid.UUID, subs []*entity.WebhookSubscription) error
}

type WebhookDeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.WebhookDelivery) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebhookDelivery, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookDelivery, error)
	Update(ctx context.Context, delivery *entity.WebhookDelivery) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
