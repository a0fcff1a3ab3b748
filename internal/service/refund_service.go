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

type IRefundService interface {
	Create(ctx context.Context, actorId *uuid.UUID, req *dto.CreateRefundRequest) (*dto.CreateRefundResponse, error)
	Complete(ctx context.Context, req *dto.CompleteRefundRequest) (*dto.RefundResultResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.RefundResponse, error)
	ListByInvoice(ctx context.Context, invoiceId uuid.UUID) ([]*dto.RefundResponse, error)
}

type refundService struct {
	uowFactory unitofwork.RepositoryFactory
	sequences  *sequence.Generator
	engine     *engine.Engine
	emitter    IEmitterService
	clock      clock.Clock
	logger     logger.ILogger
}

func NewRefundService(
	uowFactory unitofwork.RepositoryFactory,
	sequences *sequence.Generator,
	eng *engine.Engine,
	emitter IEmitterService,
	clk clock.Clock,
	log logger.ILogger,
) IRefundService {
	return &refundService{
		uowFactory: uowFactory,
		sequences:  sequences,
		engine:     eng,
		emitter:    emitter,
		clock:      clk,
		logger:     log,
	}
}

func (s *refundService) Create(ctx context.Context, actorId *uuid.UUID, req *dto.CreateRefundRequest) (*dto.CreateRefundResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, &engine.ValidationError{Field: "amount", Reason: "amount must be greater than zero"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: req.PaymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &engine.ValidationError{Field: "payment_id", Reason: "payment not found"}
	}
	switch payment.Status {
	case entity.PaymentStatusCompleted, entity.PaymentStatusRefunded:
	default:
		return nil, &engine.InvalidStateError{
			Op:      "record refund",
			Current: string(payment.Status),
			Reason:  "only completed payments can be refunded",
		}
	}

	refunds, err := uow.RefundRepository().FindAll(ctx, specification.ForPayment{PaymentID: payment.Id})
	if err != nil {
		return nil, err
	}
	// Open refunds count against the headroom too; two pending refunds
	// must not jointly promise more than the payment.
	committed := decimal.Zero
	for _, r := range refunds {
		switch r.Status {
		case entity.RefundStatusPending, entity.RefundStatusProcessing, entity.RefundStatusCompleted:
			committed = committed.Add(r.Amount)
		}
	}
	if committed.Add(req.Amount).GreaterThan(payment.Amount) {
		return nil, &engine.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("refund exceeds payment: %s already committed of %s", committed.StringFixed(2), payment.Amount.StringFixed(2)),
		}
	}

	reference, err := s.sequences.RefundReference(ctx)
	if err != nil {
		return nil, err
	}

	refundType := entity.RefundTypePartial
	if committed.Add(req.Amount).Equal(payment.Amount) {
		refundType = entity.RefundTypeFull
	}

	refund := entity.Refund{
		Id:          uuid.New(),
		Reference:   reference,
		PaymentId:   payment.Id,
		InvoiceId:   payment.InvoiceId,
		CustomerId:  payment.CustomerId,
		ProcessedBy: actorId,
		Amount:      req.Amount,
		Status:      entity.RefundStatusPending,
		RefundType:  refundType,
		Reason:      req.Reason,
		Gateway:     payment.Gateway,
		CreatedAt:   s.clock.Now(),
	}

	if err := uow.RefundRepository().Create(ctx, &refund); err != nil {
		return nil, err
	}

	s.logger.Info("Refund", "Refund recorded", map[string]interface{}{
		"refund_id":  refund.Id.String(),
		"reference":  refund.Reference,
		"payment_id": payment.Id.String(),
		"amount":     refund.Amount.StringFixed(2),
	})

	return &dto.CreateRefundResponse{
		Id:        refund.Id,
		Reference: refund.Reference,
		Status:    string(refund.Status),
	}, nil
}

// Complete settles a refund and reconciles the invoice under a row lock.
// A refund that reopens a paid invoice's balance reverts the invoice to
// pending; a refund covering the whole payment flips the payment to
// refunded.
func (s *refundService) Complete(ctx context.Context, req *dto.CompleteRefundRequest) (*dto.RefundResultResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	refund, err := uow.RefundRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, fmt.Errorf("refund %s not found", req.Id)
	}
	switch refund.Status {
	case entity.RefundStatusPending, entity.RefundStatusProcessing:
	default:
		return nil, &engine.InvalidStateError{
			Op:      "complete refund",
			Current: string(refund.Status),
			Reason:  "only pending or processing refunds can complete",
		}
	}

	payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: refund.PaymentId})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s not found", refund.PaymentId)
	}

	invoice, err := uow.InvoiceRepository().FindOneForUpdate(ctx, refund.InvoiceId)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s not found", refund.InvoiceId)
	}

	// Creation checks headroom without a lock, so two racing creates can
	// both insert pending refunds that jointly exceed the payment. The
	// invoice row lock above is the serialization point: re-check against
	// the refunds already completed before settling this one.
	refunds, err := uow.RefundRepository().FindAll(ctx, specification.ForPayment{PaymentID: payment.Id})
	if err != nil {
		return nil, err
	}
	alreadyRefunded := decimal.Zero
	for _, r := range refunds {
		if r.Id != refund.Id && r.Status == entity.RefundStatusCompleted {
			alreadyRefunded = alreadyRefunded.Add(r.Amount)
		}
	}
	if alreadyRefunded.Add(refund.Amount).GreaterThan(payment.Amount) {
		return nil, &engine.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("refund exceeds payment: %s already refunded of %s", alreadyRefunded.StringFixed(2), payment.Amount.StringFixed(2)),
		}
	}

	now := s.clock.Now()
	refund.Status = entity.RefundStatusCompleted
	refund.GatewayRefundId = req.GatewayRefundId
	refund.ProcessedAt = &now
	if err := uow.RefundRepository().Update(ctx, refund); err != nil {
		return nil, err
	}

	if alreadyRefunded.Add(refund.Amount).GreaterThanOrEqual(payment.Amount) {
		payment.Status = entity.PaymentStatusRefunded
		payment.ProcessedAt = &now
		if err := uow.PaymentRepository().Update(ctx, payment); err != nil {
			return nil, err
		}
	}

	lg, err := computeLedger(ctx, uow, invoice.Id)
	if err != nil {
		return nil, err
	}

	transition, err := s.engine.ApplyRefund(invoice, refund, lg)
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

	// refund.completed always fires; invoice.paid mirrors the payment
	// path for the off-nominal case where reconciliation settles a
	// stale-status invoice.
	s.emitter.Emit(ctx, events.NewRefundEvent(invoice, payment, refund, customer, s.clock.Now()), invoice.ProviderId)
	if transition == engine.TransitionPaid {
		s.emitter.Emit(ctx, events.NewInvoiceEvent(events.InvoicePaid, invoice, customer, s.clock.Now()), invoice.ProviderId)
	}

	s.logger.Info("Refund", "Refund completed", map[string]interface{}{
		"refund_id":      refund.Id.String(),
		"payment_id":     payment.Id.String(),
		"invoice_status": string(invoice.Status),
	})

	remaining := lg.Remaining(invoice.TotalAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &dto.RefundResultResponse{
		Refund:        *toRefundResponse(refund),
		InvoiceStatus: string(invoice.Status),
		Remaining:     remaining.StringFixed(2),
	}, nil
}

func (s *refundService) Show(ctx context.Context, id uuid.UUID) (*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	refund, err := uow.RefundRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if refund == nil {
		return nil, nil
	}
	return toRefundResponse(refund), nil
}

func (s *refundService) ListByInvoice(ctx context.Context, invoiceId uuid.UUID) ([]*dto.RefundResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	refunds, err := uow.RefundRepository().FindAll(ctx,
		specification.ForInvoice{InvoiceID: invoiceId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		res = append(res, toRefundResponse(r))
	}
	return res, nil
}

func toRefundResponse(r *entity.Refund) *dto.RefundResponse {
	return &dto.RefundResponse{
		Id:              r.Id,
		Reference:       r.Reference,
		PaymentId:       r.PaymentId,
		InvoiceId:       r.InvoiceId,
		CustomerId:      r.CustomerId,
		ProcessedBy:     r.ProcessedBy,
		Amount:          r.Amount.StringFixed(2),
		Status:          string(r.Status),
		RefundType:      string(r.RefundType),
		Reason:          r.Reason,
		Gateway:         r.Gateway,
		GatewayRefundId: r.GatewayRefundId,
		ProcessedAt:     r.ProcessedAt,
		CreatedAt:       r.CreatedAt,
	}
}
