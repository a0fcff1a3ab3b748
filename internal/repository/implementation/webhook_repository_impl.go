package implementation

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/model"
	"invoiceflow-be/internal/repository/contract"
	"invoiceflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type webhookSubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookSubscriptionRepository(db *gorm.DB) contract.WebhookSubscriptionRepository {
	return &webhookSubscriptionRepositoryImpl{db: db}
}

func (r *webhookSubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.WebhookSubscription) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(sub)).Error
}

func (r *webhookSubscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebhookSubscription, error) {
	var m model.WebhookSubscription
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&m), nil
}

func (r *webhookSubscriptionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookSubscription, error) {
	var models []*model.WebhookSubscription
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var subs []*entity.WebhookSubscription
	for _, m := range models {
		subs = append(subs, r.mapToEntity(m))
	}

	return subs, nil
}

func (r *webhookSubscriptionRepositoryImpl) Update(ctx context.Context, sub *entity.WebhookSubscription) error {
	return r.db.WithContext(ctx).Model(&model.WebhookSubscription{}).
		Where("id = ?", sub.Id).
		Updates(map[string]interface{}{
			"url":    sub.Url,
			"secret": sub.Secret,
			"active": sub.Active,
			"events": datatypes.NewJSONSlice(sub.Events),
		}).Error
}

func (r *webhookSubscriptionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.WebhookSubscription{}, id).Error
}

func (r *webhookSubscriptionRepositoryImpl) ReplaceForProvider(ctx context.Context, providerId uuid.UUID, subs []*entity.WebhookSubscription) error {
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerId).
		Delete(&model.WebhookSubscription{}).Error; err != nil {
		return err
	}
	for _, sub := range subs {
		sub.ProviderId = providerId
		if err := r.db.WithContext(ctx).Create(r.mapToModel(sub)).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *webhookSubscriptionRepositoryImpl) mapToModel(sub *entity.WebhookSubscription) *model.WebhookSubscription {
	return &model.WebhookSubscription{
		Id:         sub.Id,
		ProviderId: sub.ProviderId,
		Url:        sub.Url,
		Secret:     sub.Secret,
		Active:     sub.Active,
		Events:     datatypes.NewJSONSlice(sub.Events),
	}
}

func (r *webhookSubscriptionRepositoryImpl) mapToEntity(m *model.WebhookSubscription) *entity.WebhookSubscription {
	return &entity.WebhookSubscription{
		Id:         m.Id,
		ProviderId: m.ProviderId,
		Url:        m.Url,
		Secret:     m.Secret,
		Active:     m.Active,
		Events:     []string(m.Events),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type webhookDeliveryRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookDeliveryRepository(db *gorm.DB) contract.WebhookDeliveryRepository {
	return &webhookDeliveryRepositoryImpl{db: db}
}

func (r *webhookDeliveryRepositoryImpl) Create(ctx context.Context, delivery *entity.WebhookDelivery) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(delivery)).Error
}

func (r *webhookDeliveryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WebhookDelivery, error) {
	var m model.WebhookDelivery
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&m), nil
}

func (r *webhookDeliveryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WebhookDelivery, error) {
	var models []*model.WebhookDelivery
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var deliveries []*entity.WebhookDelivery
	for _, m := range models {
		deliveries = append(deliveries, r.mapToEntity(m))
	}

	return deliveries, nil
}

func (r *webhookDeliveryRepositoryImpl) Update(ctx context.Context, delivery *entity.WebhookDelivery) error {
	return r.db.WithContext(ctx).Model(&model.WebhookDelivery{}).
		Where("id = ?", delivery.Id).
		Updates(map[string]interface{}{
			"status":        string(delivery.Status),
			"attempts":      delivery.Attempts,
			"http_status":   delivery.HTTPStatus,
			"last_error":    delivery.LastError,
			"next_retry_at": delivery.NextRetryAt,
			"delivered_at":  delivery.DeliveredAt,
		}).Error
}

func (r *webhookDeliveryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.WebhookDelivery{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *webhookDeliveryRepositoryImpl) mapToModel(d *entity.WebhookDelivery) *model.WebhookDelivery {
	return &model.WebhookDelivery{
		Id:             d.Id,
		SubscriptionId: d.SubscriptionId,
		ProviderId:     d.ProviderId,
		EventName:      d.EventName,
		Url:            d.Url,
		Payload:        d.Payload,
		Status:         string(d.Status),
		Attempts:       d.Attempts,
		HTTPStatus:     d.HTTPStatus,
		LastError:      d.LastError,
		NextRetryAt:    d.NextRetryAt,
		DeliveredAt:    d.DeliveredAt,
	}
}

func (r *webhookDeliveryRepositoryImpl) mapToEntity(m *model.WebhookDelivery) *entity.WebhookDelivery {
	return &entity.WebhookDelivery{
		Id:             m.Id,
		SubscriptionId: m.SubscriptionId,
		ProviderId:     m.ProviderId,
		EventName:      m.EventName,
		Url:            m.Url,
		Payload:        m.Payload,
		Status:         entity.DeliveryStatus(m.Status),
		Attempts:       m.Attempts,
		HTTPStatus:     m.HTTPStatus,
		LastError:      m.LastError,
		NextRetryAt:    m.NextRetryAt,
		DeliveredAt:    m.DeliveredAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
