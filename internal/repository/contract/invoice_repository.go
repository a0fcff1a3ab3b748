package contract

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error)
	// FindOneForUpdate loads the invoice under a row lock. It is the
	// per-invoice serialization point for reconciliation and must only
	// be called inside a transaction.
	FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
