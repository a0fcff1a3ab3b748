package contract

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
}
