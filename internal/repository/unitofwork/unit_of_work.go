package unitofwork

import (
	"context"

	"invoiceflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	InvoiceRepository() contract.InvoiceRepository
	PaymentRepository() contract.PaymentRepository
	RefundRepository() contract.RefundRepository
	CustomerRepository() contract.CustomerRepository
	ProviderRepository() contract.ProviderRepository
	WebhookSubscriptionRepository() contract.WebhookSubscriptionRepository
	WebhookDeliveryRepository() contract.WebhookDeliveryRepository
	SequenceRepository() contract.SequenceRepository
	NotificationRepository() contract.NotificationRepository
}
