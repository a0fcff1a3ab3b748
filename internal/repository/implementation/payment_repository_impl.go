package implementation

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/model"
	"invoiceflow-be/internal/repository/contract"
	"invoiceflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type paymentRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &paymentRepositoryImpl{db: db}
}

func (r *paymentRepositoryImpl) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(payment)).Error
}

func (r *paymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	var m model.Payment
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

func (r *paymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var models []*model.Payment
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var payments []*entity.Payment
	for _, m := range models {
		payments = append(payments, r.mapToEntity(m))
	}

	return payments, nil
}

func (r *paymentRepositoryImpl) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", payment.Id).
		Updates(map[string]interface{}{
			"status":                 string(payment.Status),
			"gateway_transaction_id": payment.GatewayTransactionId,
			"processed_at":           payment.ProcessedAt,
			"notes":                  payment.Notes,
		}).Error
}

func (r *paymentRepositoryImpl) mapToModel(p *entity.Payment) *model.Payment {
	return &model.Payment{
		Id:                   p.Id,
		Reference:            p.Reference,
		InvoiceId:            p.InvoiceId,
		CustomerId:           p.CustomerId,
		PaymentMethod:        p.PaymentMethod,
		Amount:               p.Amount,
		Status:               string(p.Status),
		PaymentType:          string(p.PaymentType),
		Gateway:              p.Gateway,
		GatewayTransactionId: p.GatewayTransactionId,
		ProcessedAt:          p.ProcessedAt,
		Notes:                p.Notes,
	}
}

func (r *paymentRepositoryImpl) mapToEntity(m *model.Payment) *entity.Payment {
	return &entity.Payment{
		Id:                   m.Id,
		Reference:            m.Reference,
		InvoiceId:            m.InvoiceId,
		CustomerId:           m.CustomerId,
		PaymentMethod:        m.PaymentMethod,
		Amount:               m.Amount,
		Status:               entity.PaymentStatus(m.Status),
		PaymentType:          entity.PaymentType(m.PaymentType),
		Gateway:              m.Gateway,
		GatewayTransactionId: m.GatewayTransactionId,
		ProcessedAt:          m.ProcessedAt,
		Notes:                m.Notes,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
