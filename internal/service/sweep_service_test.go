package service

import (
	"context"
	"testing"
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/pkg/billing/engine"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newSweepFixture(t *testing.T, retention time.Duration) (ISweepService, *billingStore, *captureEmitter, *clock.Fixed) {
	t.Helper()
	store := newBillingStore()
	clk := &clock.Fixed{Instant: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	emitter := &captureEmitter{}
	svc := NewSweepService(
		&fakeBillingFactory{store: store},
		engine.New(clk, retention),
		emitter,
		nil,
		clk,
		logger.NewIsolatedLogger("logs/test-sweep.log"),
		time.Minute,
		time.Hour,
	)
	return svc, store, emitter, clk
}

func seedInvoice(store *billingStore, status entity.InvoiceStatus, due time.Time, paid *time.Time) *entity.Invoice {
	inv := &entity.Invoice{
		Id:          uuid.New(),
		CustomerId:  uuid.New(),
		ProviderId:  uuid.New(),
		TotalAmount: decimal.RequireFromString("100"),
		Status:      status,
		IssueDate:   due.AddDate(0, 0, -14),
		DueDate:     due,
		PaidDate:    paid,
	}
	store.invoices[inv.Id] = inv
	return inv
}

// Archive candidates are narrowed at the query by status and paid-date
// cutoff; only paid invoices past the retention window transition.
func TestSweepArchive(t *testing.T) {
	retention := 90 * 24 * time.Hour
	svc, store, _, clk := newSweepFixture(t, retention)
	now := clk.Now()

	oldPaid := now.Add(-retention - time.Hour)
	freshPaid := now.Add(-24 * time.Hour)
	old := seedInvoice(store, entity.InvoiceStatusPaid, now.AddDate(0, 0, -100), &oldPaid)
	fresh := seedInvoice(store, entity.InvoiceStatusPaid, now.AddDate(0, 0, -10), &freshPaid)
	open := seedInvoice(store, entity.InvoiceStatusPending, now.AddDate(0, 0, 7), nil)

	assert.Equal(t, 1, svc.SweepArchive(context.Background()))
	assert.Equal(t, entity.InvoiceStatusArchived, store.invoices[old.Id].Status)
	assert.Equal(t, entity.InvoiceStatusPaid, store.invoices[fresh.Id].Status)
	assert.Equal(t, entity.InvoiceStatusPending, store.invoices[open.Id].Status)

	// Second pass finds nothing left to archive.
	assert.Equal(t, 0, svc.SweepArchive(context.Background()))
}

func TestSweepOverdue(t *testing.T) {
	svc, store, emitter, clk := newSweepFixture(t, 90*24*time.Hour)
	now := clk.Now()

	late := seedInvoice(store, entity.InvoiceStatusPending, now.Add(-48*time.Hour), nil)
	onTime := seedInvoice(store, entity.InvoiceStatusPending, now.Add(48*time.Hour), nil)

	assert.Equal(t, 1, svc.SweepOverdue(context.Background()))
	assert.Equal(t, entity.InvoiceStatusOverdue, store.invoices[late.Id].Status)
	assert.Equal(t, entity.InvoiceStatusPending, store.invoices[onTime.Id].Status)
	assert.Equal(t, []string{events.InvoiceOverdue}, emitter.emitted)
	assert.True(t, store.invoices[late.Id].HasMeta(entity.MetaReminderSentAt))

	// Already-overdue invoices are not re-swept or re-notified.
	assert.Equal(t, 0, svc.SweepOverdue(context.Background()))
	assert.Len(t, emitter.emitted, 1)
}
