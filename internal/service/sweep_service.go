package service

import (
	"context"
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/pkg/mailer"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/billing/engine"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
)

// ISweepService owns the two time-driven transitions: pending invoices
// past their due date become overdue, and paid invoices past the
// retention window become archived.
type ISweepService interface {
	Start(ctx context.Context)
	SweepOverdue(ctx context.Context) int
	SweepArchive(ctx context.Context) int
}

type sweepService struct {
	uowFactory      unitofwork.RepositoryFactory
	engine          *engine.Engine
	emitter         IEmitterService
	emailService    mailer.IEmailService
	clock           clock.Clock
	logger          logger.ILogger
	overdueInterval time.Duration
	archiveInterval time.Duration
}

func NewSweepService(
	uowFactory unitofwork.RepositoryFactory,
	eng *engine.Engine,
	emitter IEmitterService,
	emailService mailer.IEmailService,
	clk clock.Clock,
	log logger.ILogger,
	overdueInterval, archiveInterval time.Duration,
) ISweepService {
	return &sweepService{
		uowFactory:      uowFactory,
		engine:          eng,
		emitter:         emitter,
		emailService:    emailService,
		clock:           clk,
		logger:          log,
		overdueInterval: overdueInterval,
		archiveInterval: archiveInterval,
	}
}

// Start runs both sweeps on their tickers until ctx is cancelled.
func (s *sweepService) Start(ctx context.Context) {
	go s.loop(ctx, s.overdueInterval, s.SweepOverdue)
	go s.loop(ctx, s.archiveInterval, s.SweepArchive)
	s.logger.Info("Sweep", "Sweep loops started", map[string]interface{}{
		"overdue_interval": s.overdueInterval.String(),
		"archive_interval": s.archiveInterval.String(),
	})
}

func (s *sweepService) loop(ctx context.Context, interval time.Duration, sweep func(context.Context) int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

// SweepOverdue flips eligible invoices to overdue and returns how many
// it transitioned. Each invoice is handled in its own transaction so one
// failure cannot poison the batch.
func (s *sweepService) SweepOverdue(ctx context.Context) int {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	candidates, err := uow.InvoiceRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.InvoiceStatusPending)},
		specification.DueBefore{Instant: s.clock.Now()},
	)
	if err != nil {
		s.logger.Error("Sweep", "Overdue candidate query failed", map[string]interface{}{"error": err.Error()})
		return 0
	}

	transitioned := 0
	for _, candidate := range candidates {
		if s.markOverdue(ctx, candidate.Id) {
			transitioned++
		}
	}
	if transitioned > 0 {
		s.logger.Info("Sweep", "Invoices marked overdue", map[string]interface{}{"count": transitioned})
	}
	return transitioned
}

func (s *sweepService) markOverdue(ctx context.Context, invoiceId uuid.UUID) bool {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("Sweep", "Failed to begin overdue transaction", map[string]interface{}{"error": err.Error()})
		return false
	}
	defer uow.Rollback()

	// Re-check under the lock; a payment may have settled the invoice
	// between the candidate query and now.
	invoice, err := uow.InvoiceRepository().FindOneForUpdate(ctx, invoiceId)
	if err != nil || invoice == nil {
		return false
	}
	if !s.engine.MarkOverdue(invoice) {
		return false
	}

	remind := !invoice.HasMeta(entity.MetaReminderSentAt)
	if remind {
		invoice.SetMeta(entity.MetaReminderSentAt, s.clock.Now().Format(time.RFC3339))
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		s.logger.Error("Sweep", "Failed to persist overdue transition", map[string]interface{}{
			"invoice_id": invoice.Id.String(),
			"error":      err.Error(),
		})
		return false
	}

	customer, err := uow.CustomerRepository().FindOne(ctx, specification.ByID{ID: invoice.CustomerId})
	if err != nil {
		return false
	}

	if err := uow.Commit(); err != nil {
		return false
	}

	s.emitter.Emit(ctx, events.NewInvoiceEvent(events.InvoiceOverdue, invoice, customer, s.clock.Now()), invoice.ProviderId)

	if remind && customer != nil && s.emailService != nil {
		if err := s.emailService.SendOverdueReminder(
			customer.Email,
			customer.FullName,
			invoice.InvoiceNumber,
			invoice.TotalAmount,
			"USD",
			invoice.DueDate.Format("2006-01-02"),
		); err != nil {
			s.logger.Warn("Sweep", "Overdue reminder email failed", map[string]interface{}{
				"invoice_id": invoice.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	return true
}

// SweepArchive moves paid invoices older than the retention window to
// archived. Archiving is bookkeeping only; no event fires.
func (s *sweepService) SweepArchive(ctx context.Context) int {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	candidates, err := uow.InvoiceRepository().FindAll(ctx,
		specification.StatusIs{Status: string(entity.InvoiceStatusPaid)},
		specification.PaidBefore{Instant: s.clock.Now().Add(-s.engine.Retention())},
	)
	if err != nil {
		s.logger.Error("Sweep", "Archive candidate query failed", map[string]interface{}{"error": err.Error()})
		return 0
	}

	transitioned := 0
	for _, candidate := range candidates {
		if s.archive(ctx, candidate.Id) {
			transitioned++
		}
	}
	if transitioned > 0 {
		s.logger.Info("Sweep", "Invoices archived", map[string]interface{}{"count": transitioned})
	}
	return transitioned
}

func (s *sweepService) archive(ctx context.Context, invoiceId uuid.UUID) bool {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false
	}
	defer uow.Rollback()

	invoice, err := uow.InvoiceRepository().FindOneForUpdate(ctx, invoiceId)
	if err != nil || invoice == nil {
		return false
	}
	if !s.engine.Archive(invoice) {
		return false
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		s.logger.Error("Sweep", "Failed to persist archive transition", map[string]interface{}{
			"invoice_id": invoice.Id.String(),
			"error":      err.Error(),
		})
		return false
	}

	return uow.Commit() == nil
}
