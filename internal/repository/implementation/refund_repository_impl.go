package implementation

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/model"
	"invoiceflow-be/internal/repository/contract"
	"invoiceflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type refundRepositoryImpl struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) contract.RefundRepository {
	return &refundRepositoryImpl{db: db}
}

func (r *refundRepositoryImpl) Create(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(refund)).Error
}

func (r *refundRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	var m model.Refund
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

func (r *refundRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var models []*model.Refund
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var refunds []*entity.Refund
	for _, m := range models {
		refunds = append(refunds, r.mapToEntity(m))
	}

	return refunds, nil
}

func (r *refundRepositoryImpl) Update(ctx context.Context, refund *entity.Refund) error {
	return r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("id = ?", refund.Id).
		Updates(map[string]interface{}{
			"status":            string(refund.Status),
			"processed_by":      refund.ProcessedBy,
			"gateway_refund_id": refund.GatewayRefundId,
			"processed_at":      refund.ProcessedAt,
		}).Error
}

func (r *refundRepositoryImpl) mapToModel(ref *entity.Refund) *model.Refund {
	return &model.Refund{
		Id:              ref.Id,
		Reference:       ref.Reference,
		PaymentId:       ref.PaymentId,
		InvoiceId:       ref.InvoiceId,
		CustomerId:      ref.CustomerId,
		ProcessedBy:     ref.ProcessedBy,
		Amount:          ref.Amount,
		Status:          string(ref.Status),
		RefundType:      string(ref.RefundType),
		Reason:          ref.Reason,
		Gateway:         ref.Gateway,
		GatewayRefundId: ref.GatewayRefundId,
		ProcessedAt:     ref.ProcessedAt,
	}
}

func (r *refundRepositoryImpl) mapToEntity(m *model.Refund) *entity.Refund {
	return &entity.Refund{
		Id:              m.Id,
		Reference:       m.Reference,
		PaymentId:       m.PaymentId,
		InvoiceId:       m.InvoiceId,
		CustomerId:      m.CustomerId,
		ProcessedBy:     m.ProcessedBy,
		Amount:          m.Amount,
		Status:          entity.RefundStatus(m.Status),
		RefundType:      entity.RefundType(m.RefundType),
		Reason:          m.Reason,
		Gateway:         m.Gateway,
		GatewayRefundId: m.GatewayRefundId,
		ProcessedAt:     m.ProcessedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
