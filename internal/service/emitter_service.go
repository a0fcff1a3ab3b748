package service

import (
	"context"
	"encoding/json"

	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/pkg/events"
	pktNats "invoiceflow-be/pkg/nats"
	"invoiceflow-be/pkg/webhook"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IEmitterService is the single funnel every domain event goes through
// after its triggering transaction commits. It fans the event out to the
// webhook dispatch queue and onto the NATS bus for the notification
// pipeline. Emission is fire-and-forget: a queue hiccup is logged, never
// surfaced to the caller, because the state change already committed.
type IEmitterService interface {
	Emit(ctx context.Context, evt events.Event, providerId uuid.UUID)
}

type emitterService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewEmitterService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IEmitterService {
	return &emitterService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *emitterService) Emit(ctx context.Context, evt events.Event, providerId uuid.UUID) {
	if !events.IsKnown(evt.EventType()) {
		s.logger.Error("Emitter", "Refusing to emit unknown event", map[string]interface{}{"event": evt.EventType()})
		return
	}

	env := webhook.NewEnvelope(evt, providerId)
	payload, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("Emitter", "Failed to marshal envelope", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("Emitter", "Failed to enqueue webhook dispatch", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Emitter", "Failed to publish event to NATS", map[string]interface{}{
				"event": evt.EventType(),
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("Emitter", "Event emitted", map[string]interface{}{
		"event":       evt.EventType(),
		"provider_id": providerId.String(),
	})
}
