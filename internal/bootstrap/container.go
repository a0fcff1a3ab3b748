package bootstrap

import (
	"context"
	"log"

	"invoiceflow-be/internal/config"
	"invoiceflow-be/internal/controller"
	"invoiceflow-be/internal/handler"
	"invoiceflow-be/internal/pkg/logger"
	"invoiceflow-be/internal/pkg/mailer"
	"invoiceflow-be/internal/repository/implementation"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/internal/service"
	"invoiceflow-be/internal/websocket"
	"invoiceflow-be/pkg/billing/engine"
	"invoiceflow-be/pkg/billing/sequence"
	"invoiceflow-be/pkg/clock"
	pktNats "invoiceflow-be/pkg/nats"
	"invoiceflow-be/pkg/webhook"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DispatchTopic is the in-process queue between the event emitter and
// the webhook dispatcher.
const DispatchTopic = "WEBHOOK_DISPATCH"

type Container struct {
	// Controllers
	InvoiceController  controller.IInvoiceController
	PaymentController  controller.IPaymentController
	RefundController   controller.IRefundController
	ProviderController controller.IProviderController

	// Background workers (exposed for main.go to run)
	Dispatcher   *webhook.Dispatcher
	SweepService service.ISweepService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysClock := clock.System()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Billing core
	billingEngine := engine.New(sysClock, cfg.Billing.ArchiveRetention)
	sequences := sequence.NewGenerator(implementation.NewSequenceRepository(db), sysClock)

	// 4. Webhook dispatcher
	webhookLogger := logger.NewIsolatedLogger(cfg.App.WebhookLogFilePath)
	dispatcher := webhook.NewDispatcher(
		pubSub,
		DispatchTopic,
		uowFactory,
		sysClock,
		webhookLogger,
		webhook.Config{
			Timeout:       cfg.Webhook.Timeout,
			MaxAttempts:   cfg.Webhook.MaxAttempts,
			BackoffBase:   cfg.Webhook.BackoffBase,
			RetryInterval: cfg.Webhook.RetryInterval,
		},
	)

	// 5. Services
	emitter := service.NewEmitterService(pubSub, DispatchTopic, natsPub, sysLogger)

	invoiceService := service.NewInvoiceService(uowFactory, sequences, billingEngine, emitter, sysClock, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, sequences, billingEngine, emitter, sysClock, sysLogger)
	refundService := service.NewRefundService(uowFactory, sequences, billingEngine, emitter, sysClock, sysLogger)
	partyService := service.NewPartyService(uowFactory, sysClock)
	webhookService := service.NewWebhookService(uowFactory, dispatcher, sysClock, sysLogger)

	sweepService := service.NewSweepService(
		uowFactory,
		billingEngine,
		emitter,
		emailService,
		sysClock,
		sysLogger,
		cfg.Billing.OverdueInterval,
		cfg.Billing.ArchiveInterval,
	)

	// 6. Notification pipeline
	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, sysClock, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		InvoiceController:  controller.NewInvoiceController(invoiceService, paymentService, refundService),
		PaymentController:  controller.NewPaymentController(paymentService),
		RefundController:   controller.NewRefundController(refundService),
		ProviderController: controller.NewProviderController(partyService, webhookService),

		Dispatcher:   dispatcher,
		SweepService: sweepService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
