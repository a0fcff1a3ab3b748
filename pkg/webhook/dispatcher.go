package webhook

import (
	"context"
	"encoding/json"
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/clock"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Config tunes delivery behaviour. Zero values are replaced by defaults.
type Config struct {
	Timeout       time.Duration // per-request hard timeout
	MaxAttempts   int           // attempts before a delivery is abandoned
	BackoffBase   time.Duration // first retry delay, doubled per attempt
	RetryInterval time.Duration // how often the retry sweep runs
	SettingsTTL   time.Duration // subscription cache lifetime
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 30 * time.Second
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 15 * time.Second
	}
	if c.SettingsTTL <= 0 {
		c.SettingsTTL = time.Minute
	}
	return c
}

// Dispatcher consumes dispatch envelopes from the in-process queue and
// delivers them to every matching subscription. It runs entirely outside
// the request path: a slow or dead subscriber endpoint can never stall
// invoice or payment processing. Every (event, subscription) pair gets
// its own delivery row, so one subscriber's failure is invisible to the
// others and to the triggering transaction.
type Dispatcher struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	sender     *Sender
	clock      clock.Clock
	logger     logger.ILogger
	cfg        Config
	subsCache  *cache.Cache
}

func NewDispatcher(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	clk clock.Clock,
	log logger.ILogger,
	cfg Config,
) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		sender:     NewSender(cfg.Timeout),
		clock:      clk,
		logger:     log,
		cfg:        cfg,
		subsCache:  cache.New(cfg.SettingsTTL, 5*time.Minute),
	}
}

// Run subscribes to the dispatch topic and starts the retry sweep. Both
// loops stop when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.processMessage(ctx, msg)
		}
	}()

	go d.retryLoop(ctx)

	d.logger.Info("Webhook", "Dispatcher started", map[string]interface{}{"topic": d.topicName})
	return nil
}

func (d *Dispatcher) processMessage(ctx context.Context, msg *message.Message) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		d.logger.Error("Webhook", "Failed to unmarshal dispatch envelope", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying cannot help
		return
	}

	d.Dispatch(ctx, env)
	msg.Ack()
}

// Dispatch fans one envelope out to every active, matching subscription
// of the owning provider. Exported so the retry sweep and targeted
// redelivery can reuse the attempt logic.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) {
	subs, err := d.subscriptions(ctx, env.ProviderId)
	if err != nil {
		d.logger.Error("Webhook", "Failed to load subscriptions", map[string]interface{}{
			"provider_id": env.ProviderId.String(),
			"error":       err.Error(),
		})
		return
	}

	body, err := env.Body()
	if err != nil {
		d.logger.Error("Webhook", "Failed to serialize payload", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, sub := range subs {
		if !sub.Active || !sub.SubscribedTo(env.Event) {
			continue
		}

		delivery := &entity.WebhookDelivery{
			Id:             uuid.New(),
			SubscriptionId: sub.Id,
			ProviderId:     env.ProviderId,
			EventName:      env.Event,
			Url:            sub.Url,
			Payload:        string(body),
			Status:         entity.DeliveryStatusPending,
		}

		uow := d.uowFactory.NewUnitOfWork(ctx)
		if err := uow.WebhookDeliveryRepository().Create(ctx, delivery); err != nil {
			d.logger.Error("Webhook", "Failed to persist delivery", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"error":           err.Error(),
			})
			continue
		}

		// One subscription failing must not touch the rest.
		d.attempt(ctx, delivery, sub.Secret)
	}
}

// attempt performs one delivery try and records the outcome. On failure
// the next retry is scheduled with exponential backoff until the attempt
// budget runs out, at which point the delivery is permanently failed.
func (d *Dispatcher) attempt(ctx context.Context, delivery *entity.WebhookDelivery, secret string) {
	status, err := d.sender.Send(ctx, delivery.Url, secret, delivery.EventName, []byte(delivery.Payload))

	delivery.Attempts++
	if status != 0 {
		delivery.HTTPStatus = &status
	}

	if err == nil {
		now := d.clock.Now()
		delivery.Status = entity.DeliveryStatusDelivered
		delivery.DeliveredAt = &now
		delivery.NextRetryAt = nil
		delivery.LastError = nil
	} else {
		msg := err.Error()
		delivery.LastError = &msg

		if delivery.Attempts >= d.cfg.MaxAttempts {
			delivery.Status = entity.DeliveryStatusFailed
			delivery.NextRetryAt = nil
			d.logger.Warn("Webhook", "Delivery abandoned", map[string]interface{}{
				"delivery_id": delivery.Id.String(),
				"event":       delivery.EventName,
				"attempts":    delivery.Attempts,
				"error":       msg,
			})
		} else {
			next := d.clock.Now().Add(d.backoff(delivery.Attempts))
			delivery.NextRetryAt = &next
			d.logger.Info("Webhook", "Delivery failed, retry scheduled", map[string]interface{}{
				"delivery_id": delivery.Id.String(),
				"event":       delivery.EventName,
				"attempt":     delivery.Attempts,
				"next_retry":  next.Format(time.RFC3339),
			})
		}
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	if err := uow.WebhookDeliveryRepository().Update(ctx, delivery); err != nil {
		d.logger.Error("Webhook", "Failed to record delivery outcome", map[string]interface{}{
			"delivery_id": delivery.Id.String(),
			"error":       err.Error(),
		})
	}
}

// backoff doubles the base delay per completed attempt: base, 2x, 4x...
func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.cfg.BackoffBase
	for i := 1; i < attempts; i++ {
		delay *= 2
	}
	return delay
}

func (d *Dispatcher) retryLoop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.retrySweep(ctx)
		}
	}
}

// retrySweep re-attempts every pending delivery whose scheduled retry
// time has passed.
func (d *Dispatcher) retrySweep(ctx context.Context) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	due, err := uow.WebhookDeliveryRepository().FindAll(ctx,
		specification.RetryDue{Instant: d.clock.Now()},
		specification.OrderBy{Field: "next_retry_at", Desc: false},
	)
	if err != nil {
		d.logger.Error("Webhook", "Retry sweep query failed", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, delivery := range due {
		sub, err := uow.WebhookSubscriptionRepository().FindOne(ctx, specification.ByID{ID: delivery.SubscriptionId})
		if err != nil {
			d.logger.Error("Webhook", "Failed to load subscription for retry", map[string]interface{}{
				"delivery_id": delivery.Id.String(),
				"error":       err.Error(),
			})
			continue
		}
		if sub == nil || !sub.Active {
			// Subscription removed or switched off since the event fired.
			delivery.Status = entity.DeliveryStatusFailed
			delivery.NextRetryAt = nil
			msg := "subscription no longer active"
			delivery.LastError = &msg
			if err := uow.WebhookDeliveryRepository().Update(ctx, delivery); err != nil {
				d.logger.Error("Webhook", "Failed to close orphaned delivery", map[string]interface{}{
					"delivery_id": delivery.Id.String(),
					"error":       err.Error(),
				})
			}
			continue
		}

		d.attempt(ctx, delivery, sub.Secret)
	}
}

// subscriptions loads a provider's subscription list through a short
// TTL cache; configuration is read-only during a delivery cycle.
func (d *Dispatcher) subscriptions(ctx context.Context, providerId uuid.UUID) ([]*entity.WebhookSubscription, error) {
	key := providerId.String()
	if x, found := d.subsCache.Get(key); found {
		return x.([]*entity.WebhookSubscription), nil
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.WebhookSubscriptionRepository().FindAll(ctx, specification.ForProvider{ProviderID: providerId})
	if err != nil {
		return nil, err
	}

	d.subsCache.Set(key, subs, cache.DefaultExpiration)
	return subs, nil
}

// InvalidateSubscriptions drops the cached list after a settings write.
func (d *Dispatcher) InvalidateSubscriptions(providerId uuid.UUID) {
	d.subsCache.Delete(providerId.String())
}
