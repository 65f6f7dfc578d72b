package bootstrap

import (
	"context"
	"log"

	"pdf-insight-be/internal/config"
	"pdf-insight-be/internal/controller"
	"pdf-insight-be/internal/handler"
	"pdf-insight-be/internal/pkg/logger"
	"pdf-insight-be/internal/pkg/mailer"
	"pdf-insight-be/internal/repository/implementation"
	"pdf-insight-be/internal/repository/memory"
	"pdf-insight-be/internal/repository/unitofwork"
	"pdf-insight-be/internal/service"
	"pdf-insight-be/internal/websocket"
	"pdf-insight-be/pkg/webhook"

	pktNats "pdf-insight-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	Scheduler       *cron.Cron

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Webhook clients
	analyzer := webhook.NewAnalyzer(cfg.Webhook.AnalyzeURL)
	responder := webhook.NewChatResponder(cfg.Webhook.ChatURL)

	// In-memory chat session storage
	sessionRepo := memory.NewChatSessionRepository()

	// 3. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Webhook.AnalyzedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Webhook.AnalyzedTopic,
		notifService,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, sysLogger)
	documentService := service.NewDocumentService(uowFactory, natsPub, sysLogger)
	uploadService := service.NewUploadService(analyzer, documentService, publisherService, natsPub, sysLogger)
	chatService := service.NewChatService(sessionRepo, documentService, responder, notifService, sysLogger)

	// 5. Scheduler
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", uploadService.SweepStaleTrackers); err != nil {
		log.Printf("[WARN] Failed to schedule tracker sweep: %v", err)
	}

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		OAuthController:    controller.NewOAuthController(oauthService),
		DocumentController: controller.NewDocumentController(uploadService, documentService),
		ChatController:     controller.NewChatController(chatService),

		ConsumerService: consumerService,
		Scheduler:       scheduler,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
