package service

import (
	"context"

	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/clock"

	"github.com/google/uuid"
)

type IPartyService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	ShowCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	CreateProvider(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error)
	ShowProvider(ctx context.Context, id uuid.UUID) (*dto.ProviderResponse, error)
}

type partyService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
}

func NewPartyService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock) IPartyService {
	return &partyService{uowFactory: uowFactory, clock: clk}
}

func (s *partyService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	customer := entity.Customer{
		Id:        uuid.New(),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    "active",
		CreatedAt: s.clock.Now(),
	}
	if err := uow.CustomerRepository().Create(ctx, &customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(&customer), nil
}

func (s *partyService) ShowCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	customer, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	return toCustomerResponse(customer), nil
}

func (s *partyService) CreateProvider(ctx context.Context, req *dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider := entity.ServiceProvider{
		Id:          uuid.New(),
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      "active",
		CreatedAt:   s.clock.Now(),
	}
	if err := uow.ProviderRepository().Create(ctx, &provider); err != nil {
		return nil, err
	}
	return toProviderResponse(&provider), nil
}

func (s *partyService) ShowProvider(ctx context.Context, id uuid.UUID) (*dto.ProviderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return toProviderResponse(provider), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		Id:        c.Id,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

func toProviderResponse(p *entity.ServiceProvider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		Id:          p.Id,
		CompanyName: p.CompanyName,
		Email:       p.Email,
		Phone:       p.Phone,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}
