package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoiceflow-be/internal/dto"
	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/repository/contract"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/billing/engine"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// billingStore is shared mutable state behind the fake repositories, so
// a completed refund written through one unit of work is visible to the
// next, like rows in a database.
type billingStore struct {
	invoices map[uuid.UUID]*entity.Invoice
	payments map[uuid.UUID]*entity.Payment
	refunds  map[uuid.UUID]*entity.Refund
}

func newBillingStore() *billingStore {
	return &billingStore{
		invoices: map[uuid.UUID]*entity.Invoice{},
		payments: map[uuid.UUID]*entity.Payment{},
		refunds:  map[uuid.UUID]*entity.Refund{},
	}
}

type fakeInvoiceRepo struct{ store *billingStore }

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.store.invoices[inv.Id] = &cp
	return nil
}

func (r *fakeInvoiceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			if inv, ok := r.store.invoices[byId.ID]; ok {
				cp := *inv
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	if inv, ok := r.store.invoices[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.store.invoices {
		if !invoiceMatches(inv, specs) {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func invoiceMatches(inv *entity.Invoice, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.StatusIs:
			if string(inv.Status) != sp.Status {
				return false
			}
		case specification.DueBefore:
			if !inv.DueDate.Before(sp.Instant) {
				return false
			}
		case specification.PaidBefore:
			if inv.PaidDate == nil || !inv.PaidDate.Before(sp.Instant) {
				return false
			}
		}
	}
	return true
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	cp := *inv
	r.store.invoices[inv.Id] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.invoices)), nil
}

type fakePaymentRepo struct{ store *billingStore }

func (r *fakePaymentRepo) Create(ctx context.Context, pay *entity.Payment) error {
	cp := *pay
	r.store.payments[pay.Id] = &cp
	return nil
}

func (r *fakePaymentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			if pay, ok := r.store.payments[byId.ID]; ok {
				cp := *pay
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, pay := range r.store.payments {
		if !paymentMatches(pay, specs) {
			continue
		}
		cp := *pay
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, pay *entity.Payment) error {
	cp := *pay
	r.store.payments[pay.Id] = &cp
	return nil
}

func paymentMatches(pay *entity.Payment, specs []specification.Specification) bool {
	for _, s := range specs {
		if forInv, ok := s.(specification.ForInvoice); ok && pay.InvoiceId != forInv.InvoiceID {
			return false
		}
	}
	return true
}

type fakeRefundRepo struct{ store *billingStore }

func (r *fakeRefundRepo) Create(ctx context.Context, ref *entity.Refund) error {
	cp := *ref
	r.store.refunds[ref.Id] = &cp
	return nil
}

func (r *fakeRefundRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Refund, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			if ref, ok := r.store.refunds[byId.ID]; ok {
				cp := *ref
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeRefundRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	var out []*entity.Refund
	for _, ref := range r.store.refunds {
		if !refundMatches(ref, specs) {
			continue
		}
		cp := *ref
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRefundRepo) Update(ctx context.Context, ref *entity.Refund) error {
	cp := *ref
	r.store.refunds[ref.Id] = &cp
	return nil
}

func refundMatches(ref *entity.Refund, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ForPayment:
			if ref.PaymentId != sp.PaymentID {
				return false
			}
		case specification.ForInvoice:
			if ref.InvoiceId != sp.InvoiceID {
				return false
			}
		}
	}
	return true
}

type fakeCustomerRepo struct{}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error { return nil }

type fakeBillingUow struct{ store *billingStore }

func (u *fakeBillingUow) Begin(ctx context.Context) error { return nil }
func (u *fakeBillingUow) Commit() error                   { return nil }
func (u *fakeBillingUow) Rollback() error                 { return nil }

func (u *fakeBillingUow) InvoiceRepository() contract.InvoiceRepository {
	return &fakeInvoiceRepo{store: u.store}
}
func (u *fakeBillingUow) PaymentRepository() contract.PaymentRepository {
	return &fakePaymentRepo{store: u.store}
}
func (u *fakeBillingUow) RefundRepository() contract.RefundRepository {
	return &fakeRefundRepo{store: u.store}
}
func (u *fakeBillingUow) CustomerRepository() contract.CustomerRepository {
	return &fakeCustomerRepo{}
}
func (u *fakeBillingUow) ProviderRepository() contract.ProviderRepository { return nil }
func (u *fakeBillingUow) WebhookSubscriptionRepository() contract.WebhookSubscriptionRepository {
	return nil
}
func (u *fakeBillingUow) WebhookDeliveryRepository() contract.WebhookDeliveryRepository { return nil }
func (u *fakeBillingUow) SequenceRepository() contract.SequenceRepository               { return nil }
func (u *fakeBillingUow) NotificationRepository() contract.NotificationRepository      { return nil }

type fakeBillingFactory struct{ store *billingStore }

func (f *fakeBillingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeBillingUow{store: f.store}
}

type captureEmitter struct{ emitted []string }

func (e *captureEmitter) Emit(ctx context.Context, evt events.Event, providerId uuid.UUID) {
	e.emitted = append(e.emitted, evt.EventType())
}

func newRefundFixture(t *testing.T) (IRefundService, *billingStore, *captureEmitter) {
	t.Helper()
	store := newBillingStore()
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	emitter := &captureEmitter{}
	svc := NewRefundService(
		&fakeBillingFactory{store: store},
		nil,
		engine.New(clk, 90*24*time.Hour),
		emitter,
		clk,
		logger.NewIsolatedLogger("logs/test-refund.log"),
	)
	return svc, store, emitter
}

func seedPaidInvoice(store *billingStore, total, paid decimal.Decimal) (*entity.Invoice, *entity.Payment) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		Id:          uuid.New(),
		CustomerId:  uuid.New(),
		ProviderId:  uuid.New(),
		Amount:      total,
		TotalAmount: total,
		Status:      entity.InvoiceStatusPaid,
		IssueDate:   now,
		DueDate:     now.AddDate(0, 0, 14),
		PaidDate:    &now,
	}
	pay := &entity.Payment{
		Id:         uuid.New(),
		InvoiceId:  inv.Id,
		CustomerId: inv.CustomerId,
		Amount:     paid,
		Status:     entity.PaymentStatusCompleted,
		CreatedAt:  now,
	}
	store.invoices[inv.Id] = inv
	store.payments[pay.Id] = pay
	return inv, pay
}

func seedPendingRefund(store *billingStore, pay *entity.Payment, amount decimal.Decimal) *entity.Refund {
	ref := &entity.Refund{
		Id:         uuid.New(),
		PaymentId:  pay.Id,
		InvoiceId:  pay.InvoiceId,
		CustomerId: pay.CustomerId,
		Amount:     amount,
		Status:     entity.RefundStatusPending,
		RefundType: entity.RefundTypePartial,
	}
	store.refunds[ref.Id] = ref
	return ref
}

// Two racing creates can each pass the unserialized headroom check and
// leave two pending refunds that jointly exceed the payment. The second
// completion must be refused at the row-locked re-check so completed
// refunds never exceed the payment amount.
func TestCompleteRefusesSecondOverCommittedRefund(t *testing.T) {
	svc, store, _ := newRefundFixture(t)
	hundred := decimal.RequireFromString("100")
	_, pay := seedPaidInvoice(store, hundred, hundred)
	first := seedPendingRefund(store, pay, hundred)
	second := seedPendingRefund(store, pay, hundred)

	_, err := svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: first.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.RefundStatusCompleted, store.refunds[first.Id].Status)
	assert.Equal(t, entity.PaymentStatusRefunded, store.payments[pay.Id].Status)

	_, err = svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: second.Id})
	require.Error(t, err)
	var verr *engine.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)

	// The rejected refund stays open and the completed total stays at
	// the payment amount.
	assert.Equal(t, entity.RefundStatusPending, store.refunds[second.Id].Status)
	completed := decimal.Zero
	for _, r := range store.refunds {
		if r.Status == entity.RefundStatusCompleted {
			completed = completed.Add(r.Amount)
		}
	}
	assert.True(t, completed.Equal(hundred), "completed refunds = %s", completed)
}

func TestCompleteAllowsRefundsUpToPaymentAmount(t *testing.T) {
	svc, store, _ := newRefundFixture(t)
	hundred := decimal.RequireFromString("100")
	_, pay := seedPaidInvoice(store, hundred, hundred)
	first := seedPendingRefund(store, pay, decimal.RequireFromString("60"))
	second := seedPendingRefund(store, pay, decimal.RequireFromString("40"))
	excess := seedPendingRefund(store, pay, decimal.RequireFromString("0.01"))

	_, err := svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: first.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCompleted, store.payments[pay.Id].Status)

	// The second refund exhausts the payment exactly and flips it.
	_, err = svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: second.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, store.payments[pay.Id].Status)

	_, err = svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: excess.Id})
	require.Error(t, err)
	var verr *engine.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestCompleteRevertsPaidInvoiceAndEmits(t *testing.T) {
	svc, store, emitter := newRefundFixture(t)
	hundred := decimal.RequireFromString("100")
	inv, pay := seedPaidInvoice(store, hundred, hundred)
	ref := seedPendingRefund(store, pay, decimal.RequireFromString("30"))

	res, err := svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: ref.Id})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusPending), res.InvoiceStatus)
	assert.Nil(t, store.invoices[inv.Id].PaidDate)
	assert.Equal(t, []string{events.RefundCompleted}, emitter.emitted)
}

// A refund that reconciles a stale-status invoice into settled territory
// emits invoice.paid alongside refund.completed, same as the payment path.
func TestCompleteEmitsInvoicePaidWhenReconciliationSettles(t *testing.T) {
	svc, store, emitter := newRefundFixture(t)
	inv, pay := seedPaidInvoice(store, decimal.RequireFromString("100"), decimal.RequireFromString("150"))
	inv.Status = entity.InvoiceStatusPending
	inv.PaidDate = nil
	ref := seedPendingRefund(store, pay, decimal.RequireFromString("50"))

	res, err := svc.Complete(context.Background(), &dto.CompleteRefundRequest{Id: ref.Id})
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusPaid), res.InvoiceStatus)
	assert.NotNil(t, store.invoices[inv.Id].PaidDate)
	assert.Equal(t, []string{events.RefundCompleted, events.InvoicePaid}, emitter.emitted)
}
