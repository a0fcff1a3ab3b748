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
	"invoiceflow-be/pkg/billing/ledger"
	"invoiceflow-be/pkg/billing/sequence"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IInvoiceService interface {
	Create(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error)
	List(ctx context.Context, req *dto.ListInvoicesRequest) ([]*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, req *dto.CancelInvoiceRequest) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	uowFactory unitofwork.RepositoryFactory
	sequences  *sequence.Generator
	engine     *engine.Engine
	emitter    IEmitterService
	clock      clock.Clock
	logger     logger.ILogger
}

func NewInvoiceService(
	uowFactory unitofwork.RepositoryFactory,
	sequences *sequence.Generator,
	eng *engine.Engine,
	emitter IEmitterService,
	clk clock.Clock,
	log logger.ILogger,
) IInvoiceService {
	return &invoiceService{
		uowFactory: uowFactory,
		sequences:  sequences,
		engine:     eng,
		emitter:    emitter,
		clock:      clk,
		logger:     log,
	}
}

func (s *invoiceService) Create(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if req.Amount.IsNegative() || req.TaxAmount.IsNegative() {
		return nil, &engine.ValidationError{Field: "amount", Reason: "amounts must not be negative"}
	}
	if req.Amount.IsZero() {
		return nil, &engine.ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}

	now := s.clock.Now()
	if req.DueDate.Before(now) {
		return nil, &engine.ValidationError{Field: "due_date", Reason: "due date must be in the future"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	customer, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: req.CustomerId})
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &engine.ValidationError{Field: "customer_id", Reason: "customer not found"}
	}

	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: req.ProviderId})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, &engine.ValidationError{Field: "provider_id", Reason: "provider not found"}
	}

	number, err := s.sequences.InvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice := entity.Invoice{
		Id:            uuid.New(),
		InvoiceNumber: number,
		CustomerId:    req.CustomerId,
		ProviderId:    req.ProviderId,
		Amount:        req.Amount,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   req.Amount.Add(req.TaxAmount),
		Status:        entity.InvoiceStatusPending,
		IssueDate:     now,
		DueDate:       req.DueDate,
		Metadata:      req.Metadata,
		CreatedAt:     now,
	}

	if err := uow.InvoiceRepository().Create(ctx, &invoice); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, events.NewInvoiceEvent(events.InvoiceCreated, &invoice, customer, s.clock.Now()), invoice.ProviderId)

	s.logger.Info("Invoice", "Invoice created", map[string]interface{}{
		"invoice_id":     invoice.Id.String(),
		"invoice_number": invoice.InvoiceNumber,
		"total_amount":   invoice.TotalAmount.StringFixed(2),
	})

	return &dto.CreateInvoiceResponse{
		Id:            invoice.Id,
		InvoiceNumber: invoice.InvoiceNumber,
	}, nil
}

func (s *invoiceService) Show(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, nil
	}

	lg, err := computeLedger(ctx, uow, invoice.Id)
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(invoice, lg), nil
}

func (s *invoiceService) List(ctx context.Context, req *dto.ListInvoicesRequest) ([]*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if req.CustomerId != nil {
		specs = append(specs, specification.ForCustomer{CustomerID: *req.CustomerId})
	}
	if req.ProviderId != nil {
		specs = append(specs, specification.ForProvider{ProviderID: *req.ProviderId})
	}
	if req.Status != "" {
		specs = append(specs, specification.StatusIs{Status: req.Status})
	}
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: req.Offset})

	invoices, err := uow.InvoiceRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		lg, err := computeLedger(ctx, uow, inv.Id)
		if err != nil {
			return nil, err
		}
		res = append(res, toInvoiceResponse(inv, lg))
	}
	return res, nil
}

func (s *invoiceService) Cancel(ctx context.Context, req *dto.CancelInvoiceRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	invoice, err := uow.InvoiceRepository().FindOneForUpdate(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s not found", req.Id)
	}

	if err := s.engine.Cancel(invoice, req.Reason); err != nil {
		return nil, err
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		return nil, err
	}

	customer, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: invoice.CustomerId})
	if err != nil {
		return nil, err
	}

	lg, err := computeLedger(ctx, uow, invoice.Id)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Emit only after commit; subscribers must never observe a state
	// that later rolled back.
	s.emitter.Emit(ctx, events.NewInvoiceEvent(events.InvoiceCancelled, invoice, customer, s.clock.Now()), invoice.ProviderId)

	return toInvoiceResponse(invoice, lg), nil
}

// computeLedger reloads the invoice's payments and refunds and folds
// them into the derived balance pair.
func computeLedger(ctx context.Context, uow unitofwork.UnitOfWork, invoiceId uuid.UUID) (ledger.Ledger, error) {
	payments, err := uow.PaymentRepository().FindAll(ctx, specification.ForInvoice{InvoiceID: invoiceId})
	if err != nil {
		return ledger.Ledger{}, err
	}
	refunds, err := uow.RefundRepository().FindAll(ctx, specification.ForInvoice{InvoiceID: invoiceId})
	if err != nil {
		return ledger.Ledger{}, err
	}
	return ledger.Compute(payments, refunds), nil
}

func toInvoiceResponse(inv *entity.Invoice, lg ledger.Ledger) *dto.InvoiceResponse {
	remaining := lg.Remaining(inv.TotalAmount)
	// Overpayment reads as zero balance outward; the excess is visible
	// through total_paid.
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}
	return &dto.InvoiceResponse{
		Id:            inv.Id,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerId:    inv.CustomerId,
		ProviderId:    inv.ProviderId,
		Amount:        inv.Amount.StringFixed(2),
		TaxAmount:     inv.TaxAmount.StringFixed(2),
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		TotalPaid:     lg.TotalPaid.StringFixed(2),
		TotalRefunded: lg.TotalRefunded.StringFixed(2),
		Remaining:     remaining.StringFixed(2),
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidDate:      inv.PaidDate,
		Metadata:      inv.Metadata,
		CreatedAt:     inv.CreatedAt,
	}
}
