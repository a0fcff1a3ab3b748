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
	"invoiceflow-be/pkg/billing/sequence"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IPaymentService interface {
	Create(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	Complete(ctx context.Context, req *dto.CompletePaymentRequest) (*dto.PaymentResultResponse, error)
	Fail(ctx context.Context, req *dto.FailPaymentRequest) (*dto.PaymentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	ListByInvoice(ctx context.Context, invoiceId uuid.UUID) ([]*dto.PaymentResponse, error)
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	sequences  *sequence.Generator
	engine     *engine.Engine
	emitter    IEmitterService
	clock      clock.Clock
	logger     logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	sequences *sequence.Generator,
	eng *engine.Engine,
	emitter IEmitterService,
	clk clock.Clock,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory: uowFactory,
		sequences:  sequences,
		engine:     eng,
		emitter:    emitter,
		clock:      clk,
		logger:     log,
	}
}

func (s *paymentService) Create(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, &engine.ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: req.InvoiceId})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, &engine.ValidationError{Field: "invoice_id", Reason: "invoice not found"}
	}
	switch invoice.Status {
	case entity.InvoiceStatusCancelled, entity.InvoiceStatusArchived:
		return nil, &engine.InvalidStateError{
			Op:      "record payment",
			Current: string(invoice.Status),
			Reason:  "invoice is closed",
		}
	}

	reference, err := s.sequences.PaymentReference(ctx)
	if err != nil {
		return nil, err
	}

	lg, err := computeLedger(ctx, uow, invoice.Id)
	if err != nil {
		return nil, err
	}

	paymentType := entity.PaymentTypePartial
	if req.Amount.GreaterThanOrEqual(lg.Remaining(invoice.TotalAmount)) {
		paymentType = entity.PaymentTypeFull
	}

	payment := entity.Payment{
		Id:            uuid.New(),
		Reference:     reference,
		InvoiceId:     invoice.Id,
		CustomerId:    invoice.CustomerId,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
		Status:        entity.PaymentStatusPending,
		PaymentType:   paymentType,
		Gateway:       req.Gateway,
		CreatedAt:     s.clock.Now(),
	}

	if err := uow.PaymentRepository().Create(ctx, &payment); err != nil {
		return nil, err
	}

	s.logger.Info("Payment", "Payment recorded", map[string]interface{}{
		"payment_id": payment.Id.String(),
		"reference":  payment.Reference,
		"invoice_id": invoice.Id.String(),
		"amount":     payment.Amount.StringFixed(2),
	})

	return &dto.CreatePaymentResponse{
		Id:        payment.Id,
		Reference: payment.Reference,
		Status:    string(payment.Status),
	}, nil
}

// Complete marks a payment as settled by the gateway and reconciles the
// invoice under a row lock. The invoice-paid decision is made from the
// recomputed ledger inside the transaction, so two payments completing
// concurrently serialize and converge on the same final status.
func (s *paymentService) Complete(ctx context.Context, req *dto.CompletePaymentRequest) (*dto.PaymentResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", req.Id)
	}
	switch payment.Status {
	case entity.PaymentStatusPending, entity.PaymentStatusProcessing:
	default:
		return nil, &engine.InvalidStateError{
			Op:      "complete payment",
			Current: string(payment.Status),
			Reason:  "only pending or processing payments can complete",
		}
	}

	invoice, err := uow.InvoiceRepository().FindOneForUpdate(ctx, payment.InvoiceId)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s not found", payment.InvoiceId)
	}

	now := s.clock.Now()
	payment.Status = entity.PaymentStatusCompleted
	payment.GatewayTransactionId = req.GatewayTransactionId
	payment.ProcessedAt = &now
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return nil, err
	}

	lg, err := computeLedger(ctx, uow, invoice.Id)
	if err != nil {
		return nil, err
	}

	transition, err := s.engine.ApplyPayment(invoice, payment, lg)
	if err != nil {
		return nil, err
	}
	invoice.UpdatedAt = now
	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		return nil, err
	}

	customer, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: invoice.CustomerId})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// payment.completed always fires; invoice.paid only on the
	// transition, never on an already-paid invoice.
	s.emitter.Emit(ctx, events.NewPaymentEvent(events.PaymentCompleted, invoice, payment, customer, s.clock.Now()), invoice.ProviderId)
	if transition == engine.TransitionPaid {
		s.emitter.Emit(ctx, events.NewInvoiceEvent(events.InvoicePaid, invoice, customer, s.clock.Now()), invoice.ProviderId)
	}

	s.logger.Info("Payment", "Payment completed", map[string]interface{}{
		"payment_id":     payment.Id.String(),
		"invoice_id":     invoice.Id.String(),
		"invoice_status": string(invoice.Status),
	})

	remaining := lg.Remaining(invoice.TotalAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &dto.PaymentResultResponse{
		Payment:       *toPaymentResponse(payment),
		InvoiceStatus: string(invoice.Status),
		Remaining:     remaining.StringFixed(2),
	}, nil
}

func (s *paymentService) Fail(ctx context.Context, req *dto.FailPaymentRequest) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", req.Id)
	}
	switch payment.Status {
	case entity.PaymentStatusPending, entity.PaymentStatusProcessing:
	default:
		return nil, &engine.InvalidStateError{
			Op:      "fail payment",
			Current: string(payment.Status),
			Reason:  "only pending or processing payments can fail",
		}
	}

	now := s.clock.Now()
	payment.Status = entity.PaymentStatusFailed
	payment.ProcessedAt = &now
	payment.Notes = req.Reason
	if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
		return nil, err
	}

	// A failed payment never touches the ledger, so no reconciliation.
	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: payment.InvoiceId})
	if err != nil {
		return nil, err
	}
	if invoice != nil {
		customer, _ := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: invoice.CustomerId})
		s.emitter.Emit(ctx, events.NewPaymentEvent(events.PaymentFailed, invoice, payment, customer, s.clock.Now()), invoice.ProviderId)
	}

	return toPaymentResponse(payment), nil
}

func (s *paymentService) Show(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, nil
	}
	return toPaymentResponse(payment), nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceId uuid.UUID) ([]*dto.PaymentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	payments, err := uow.PaymentRepository().FindAll(ctx,
		specification.ForInvoice{InvoiceID: invoiceId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		res = append(res, toPaymentResponse(p))
	}
	return res, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		Id:                   p.Id,
		Reference:            p.Reference,
		InvoiceId:            p.InvoiceId,
		CustomerId:           p.CustomerId,
		PaymentMethod:        p.PaymentMethod,
		Amount:               p.Amount.StringFixed(2),
		Status:               string(p.Status),
		PaymentType:          string(p.PaymentType),
		Gateway:              p.Gateway,
		GatewayTransactionId: p.GatewayTransactionId,
		ProcessedAt:          p.ProcessedAt,
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt,
	}
}
