package contract

import (
	"context"

	"invoiceflow-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository works on models directly; the notification
// inbox has no separate entity shape.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, userId uuid.UUID) error
	MarkAllRead(ctx context.Context, userId uuid.UUID) error
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
}
