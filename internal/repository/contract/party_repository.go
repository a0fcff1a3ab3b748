package contract

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Customer, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}

type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.ServiceProvider) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ServiceProvider, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceProvider, error)
	Update(ctx context.Context, provider *entity.ServiceProvider) error
}
