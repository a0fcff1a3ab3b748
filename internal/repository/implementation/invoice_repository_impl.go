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
	"gorm.io/gorm/clause"
)

type invoiceRepositoryImpl struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) contract.InvoiceRepository {
	return &invoiceRepositoryImpl{db: db}
}

func (r *invoiceRepositoryImpl) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(invoice)).Error
}

func (r *invoiceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	var m model.Invoice
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

// FindOneForUpdate takes a SELECT ... FOR UPDATE row lock. Reconciliation
// for one invoice serializes on this lock.
func (r *invoiceRepositoryImpl) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var m model.Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&m), nil
}

func (r *invoiceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	var models []*model.Invoice
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var invoices []*entity.Invoice
	for _, m := range models {
		invoices = append(invoices, r.mapToEntity(m))
	}

	return invoices, nil
}

func (r *invoiceRepositoryImpl) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", invoice.Id).
		Updates(map[string]interface{}{
			"status":    string(invoice.Status),
			"paid_date": invoice.PaidDate,
			"metadata":  datatypes.JSONMap(invoice.Metadata),
		}).Error
}

func (r *invoiceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Invoice{}, id).Error
}

func (r *invoiceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Invoice{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}

func (r *invoiceRepositoryImpl) mapToModel(inv *entity.Invoice) *model.Invoice {
	return &model.Invoice{
		Id:            inv.Id,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerId:    inv.CustomerId,
		ProviderId:    inv.ProviderId,
		Amount:        inv.Amount,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		Metadata:      datatypes.JSONMap(inv.Metadata),
	}
}

func (r *invoiceRepositoryImpl) mapToEntity(m *model.Invoice) *entity.Invoice {
	return &entity.Invoice{
		Id:            m.Id,
		InvoiceNumber: m.InvoiceNumber,
		CustomerId:    m.CustomerId,
		ProviderId:    m.ProviderId,
		Amount:        m.Amount,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
		Status:        entity.InvoiceStatus(m.Status),
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		PaidDate:      m.PaidDate,
		Metadata:      map[string]interface{}(m.Metadata),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
