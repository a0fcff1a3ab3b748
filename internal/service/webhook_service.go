package service

import (
	"context"
	"fmt"

	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/billing/engine"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"
	"invoiceflow-be/pkg/webhook"

	"github.com/google/uuid"
)

type IWebhookService interface {
	GetSettings(ctx context.Context, providerId uuid.UUID) ([]*dto.WebhookSubscriptionResponse, error)
	UpdateSettings(ctx context.Context, req *dto.UpdateWebhookSettingsRequest) ([]*dto.WebhookSubscriptionResponse, error)
	ListDeliveries(ctx context.Context, req *dto.ListDeliveriesRequest) (*dto.WebhookDeliveryListResponse, error)
	ShowDelivery(ctx context.Context, providerId, deliveryId uuid.UUID) (*dto.WebhookDeliveryResponse, error)
	Redeliver(ctx context.Context, providerId, deliveryId uuid.UUID) (*dto.WebhookDeliveryResponse, error)
}

type webhookService struct {
	uowFactory unitofwork.RepositoryFactory
	dispatcher *webhook.Dispatcher
	clock      clock.Clock
	logger     logger.ILogger
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	dispatcher *webhook.Dispatcher,
	clk clock.Clock,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     log,
	}
}

func (s *webhookService) GetSettings(ctx context.Context, providerId uuid.UUID) ([]*dto.WebhookSubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.WebhookSubscriptionRepository().FindAll(ctx, specification.ForProvider{ProviderID: providerId})
	if err != nil {
		return nil, err
	}
	res := make([]*dto.WebhookSubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, toSubscriptionResponse(sub))
	}
	return res, nil
}

// UpdateSettings replaces the provider's endpoint list atomically.
// Event names are validated against the catalog at write time, so a
// subscription can never reference an event that will not fire.
func (s *webhookService) UpdateSettings(ctx context.Context, req *dto.UpdateWebhookSettingsRequest) ([]*dto.WebhookSubscriptionResponse, error) {
	now := s.clock.Now()
	subs := make([]*entity.WebhookSubscription, 0, len(req.Subscriptions))
	for _, in := range req.Subscriptions {
		for _, name := range in.Events {
			if !events.IsKnown(name) {
				return nil, &engine.ValidationError{
					Field:  "events",
					Reason: fmt.Sprintf("unknown event %q", name),
				}
			}
		}
		subs = append(subs, &entity.WebhookSubscription{
			Id:         uuid.New(),
			ProviderId: req.ProviderId,
			Url:        in.Url,
			Secret:     in.Secret,
			Active:     in.Active,
			Events:     in.Events,
			CreatedAt:  now,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.WebhookSubscriptionRepository().ReplaceForProvider(ctx, req.ProviderId, subs); err != nil {
		return nil, err
	}

	s.dispatcher.InvalidateSubscriptions(req.ProviderId)

	s.logger.Info("Webhook", "Settings updated", map[string]interface{}{
		"provider_id": req.ProviderId.String(),
		"endpoints":   len(subs),
	})

	res := make([]*dto.WebhookSubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		res = append(res, toSubscriptionResponse(sub))
	}
	return res, nil
}

func (s *webhookService) ListDeliveries(ctx context.Context, req *dto.ListDeliveriesRequest) (*dto.WebhookDeliveryListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	filters := []specification.Specification{
		specification.ForProvider{ProviderID: req.ProviderId},
	}
	if req.Status != "" {
		filters = append(filters, specification.StatusIs{Status: req.Status})
	}
	if req.EventName != "" {
		filters = append(filters, specification.Filter("event_name", req.EventName))
	}

	total, err := uow.WebhookDeliveryRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)

	deliveries, err := uow.WebhookDeliveryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := &dto.WebhookDeliveryListResponse{
		Total:      total,
		Deliveries: make([]dto.WebhookDeliveryResponse, 0, len(deliveries)),
	}
	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, *toDeliveryResponse(d))
	}
	return res, nil
}

func (s *webhookService) ShowDelivery(ctx context.Context, providerId, deliveryId uuid.UUID) (*dto.WebhookDeliveryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	delivery, err := uow.WebhookDeliveryRepository().FindOne(ctx,
		specification.ByID{ID: deliveryId},
		specification.ForProvider{ProviderID: providerId},
	)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, nil
	}
	return toDeliveryResponse(delivery), nil
}

// Redeliver puts a failed delivery back on the retry schedule with a
// fresh attempt budget. The stored payload bytes are reused, so the
// subscriber receives and verifies the exact original body.
func (s *webhookService) Redeliver(ctx context.Context, providerId, deliveryId uuid.UUID) (*dto.WebhookDeliveryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	delivery, err := uow.WebhookDeliveryRepository().FindOne(ctx,
		specification.ByID{ID: deliveryId},
		specification.ForProvider{ProviderID: providerId},
	)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("delivery %s not found", deliveryId)
	}
	if delivery.Status != entity.DeliveryStatusFailed {
		return nil, &engine.InvalidStateError{
			Op:      "redeliver",
			Current: string(delivery.Status),
			Reason:  "only failed deliveries can be redelivered",
		}
	}

	now := s.clock.Now()
	delivery.Status = entity.DeliveryStatusPending
	delivery.Attempts = 0
	delivery.NextRetryAt = &now
	delivery.LastError = nil
	if err := uow.WebhookDeliveryRepository().Update(ctx, delivery); err != nil {
		return nil, err
	}

	s.logger.Info("Webhook", "Delivery requeued", map[string]interface{}{
		"delivery_id": delivery.Id.String(),
		"event":       delivery.EventName,
	})

	return toDeliveryResponse(delivery), nil
}

func toSubscriptionResponse(sub *entity.WebhookSubscription) *dto.WebhookSubscriptionResponse {
	// The secret never leaves the server.
	return &dto.WebhookSubscriptionResponse{
		Id:        sub.Id,
		Url:       sub.Url,
		Active:    sub.Active,
		Events:    sub.Events,
		CreatedAt: sub.CreatedAt,
	}
}

func toDeliveryResponse(d *entity.WebhookDelivery) *dto.WebhookDeliveryResponse {
	return &dto.WebhookDeliveryResponse{
		Id:             d.Id,
		SubscriptionId: d.SubscriptionId,
		EventName:      d.EventName,
		Url:            d.Url,
		Status:         string(d.Status),
		Attempts:       d.Attempts,
		HTTPStatus:     d.HTTPStatus,
		LastError:      d.LastError,
		NextRetryAt:    d.NextRetryAt,
		DeliveredAt:    d.DeliveredAt,
		CreatedAt:      d.CreatedAt,
	}
}
