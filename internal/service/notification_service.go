package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"invoiceflow-be/internal/model"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/clock"
	"invoiceflow-be/pkg/events"
	pktNats "invoiceflow-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

// NotificationService turns bus events into inbox rows and real-time
// pushes. It runs off the NATS stream, downstream of the emitter, so a
// notification outage never blocks billing.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	clock      clock.Clock
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	clk clock.Clock,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		clock:      clk,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	uow := s.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.NotificationRepository().GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("No config for event %q", typeCode), nil)
		return nil
	}
	if !config.IsActive {
		return nil
	}

	recipients := s.resolveRecipients(config, event)
	if len(recipients) == 0 {
		s.logger.Warn("NotificationService", fmt.Sprintf("No recipients for event %q", typeCode), nil)
		return nil
	}

	for _, userID := range recipients {
		notif := s.buildNotification(userID, config, event)

		if err := uow.NotificationRepository().Create(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", "Failed to save notification", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
			continue
		}

		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}
	}

	return nil
}

// resolveRecipients maps the config's target to identities present on
// every billing event: the invoice's customer or the owning provider.
func (s *NotificationService) resolveRecipients(config *model.NotificationType, event events.Event) []uuid.UUID {
	payload := event.Payload()
	var ids []uuid.UUID

	addId := func(v interface{}) {
		switch val := v.(type) {
		case string:
			if id, err := uuid.Parse(val); err == nil {
				ids = append(ids, id)
			}
		case uuid.UUID:
			ids = append(ids, val)
		}
	}

	switch config.TargetType {
	case "CUSTOMER":
		if cust, ok := payload["customer"].(map[string]interface{}); ok {
			addId(cust["id"])
		}
	case "PROVIDER":
		addId(payload["provider_id"])
	case "BOTH":
		if cust, ok := payload["customer"].(map[string]interface{}); ok {
			addId(cust["id"])
		}
		addId(payload["provider_id"])
	}

	return ids
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()

	// Simple template engine over the flattened payload, so templates
	// can say "Invoice {invoice_number} is now {status}".
	flat := flattenPayload(payload)
	msg := config.Template
	for k, v := range flat {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{%s}", k), fmt.Sprintf("%v", v))
	}

	entityType := ""
	var entityID *uuid.UUID
	if inv, ok := payload["invoice"].(map[string]interface{}); ok {
		entityType = "invoice"
		if idStr, ok := inv["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				entityID = &id
			}
		} else if id, ok := inv["id"].(uuid.UUID); ok {
			entityID = &id
		}
	}

	metaJSON, _ := json.Marshal(flat)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   config.Code,
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  s.clock.Now(),
		IsRead:     false,
	}
}

// flattenPayload lifts one level of nesting: {"invoice": {"status": x}}
// becomes {"status": x}, with top-level scalars kept as-is. Later maps
// win on key collisions, matching the event builders' layering.
func flattenPayload(payload map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{})
	for k, v := range payload {
		if nested, ok := v.(map[string]interface{}); ok {
			for nk, nv := range nested {
				flat[nk] = nv
			}
			continue
		}
		flat[k] = v
	}
	return flat
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().GetByUser(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().CountUnread(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkRead(ctx, id, userID)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllRead(ctx, userID)
}
