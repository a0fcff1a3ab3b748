package implementation

import (
	"context"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/model"
	"invoiceflow-be/internal/repository/contract"
	"invoiceflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type customerRepositoryImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) contract.CustomerRepository {
	return &customerRepositoryImpl{db: db}
}

func (r *customerRepositoryImpl) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(&model.Customer{
		Id:       customer.Id,
		FullName: customer.FullName,
		Email:    customer.Email,
		Phone:    customer.Phone,
		Status:   customer.Status,
	}).Error
}

func (r *customerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Customer, error) {
	var m model.Customer
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

	return mapCustomerToEntity(&m), nil
}

func (r *customerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Customer, error) {
	var models []*model.Customer
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var customers []*entity.Customer
	for _, m := range models {
		customers = append(customers, mapCustomerToEntity(m))
	}

	return customers, nil
}

func (r *customerRepositoryImpl) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", customer.Id).
		Updates(map[string]interface{}{
			"full_name": customer.FullName,
			"phone":     customer.Phone,
			"status":    customer.Status,
		}).Error
}

func mapCustomerToEntity(m *model.Customer) *entity.Customer {
	return &entity.Customer{
		Id:        m.Id,
		FullName:  m.FullName,
		Email:     m.Email,
		Phone:     m.Phone,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type providerRepositoryImpl struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) contract.ProviderRepository {
	return &providerRepositoryImpl{db: db}
}

func (r *providerRepositoryImpl) Create(ctx context.Context, provider *entity.ServiceProvider) error {
	return r.db.WithContext(ctx).Create(&model.ServiceProvider{
		Id:          provider.Id,
		CompanyName: provider.CompanyName,
		Email:       provider.Email,
		Phone:       provider.Phone,
		Status:      provider.Status,
	}).Error
}

func (r *providerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ServiceProvider, error) {
	var m model.ServiceProvider
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

	return mapProviderToEntity(&m), nil
}

func (r *providerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ServiceProvider, error) {
	var models []*model.ServiceProvider
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var providers []*entity.ServiceProvider
	for _, m := range models {
		providers = append(providers, mapProviderToEntity(m))
	}

	return providers, nil
}

func (r *providerRepositoryImpl) Update(ctx context.Context, provider *entity.ServiceProvider) error {
	return r.db.WithContext(ctx).Model(&model.ServiceProvider{}).
		Where("id = ?", provider.Id).
		Updates(map[string]interface{}{
			"company_name": provider.CompanyName,
			"phone":        provider.Phone,
			"status":       provider.Status,
		}).Error
}

func mapProviderToEntity(m *model.ServiceProvider) *entity.ServiceProvider {
	return &entity.ServiceProvider{
		Id:          m.Id,
		CompanyName: m.CompanyName,
		Email:       m.Email,
		Phone:       m.Phone,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
