package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/adapter/cache"
	"github.com/seu-repo/comanda/internal/adapter/external/notification"
	grpcserver "github.com/seu-repo/comanda/internal/adapter/grpc/server"
	"github.com/seu-repo/comanda/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/comanda/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/comanda/internal/adapter/kitchen"
	"github.com/seu-repo/comanda/internal/adapter/queue"
	"github.com/seu-repo/comanda/internal/adapter/storage/postgres"
	"github.com/seu-repo/comanda/internal/adapter/stt/deepgram"
	"github.com/seu-repo/comanda/internal/adapter/stt/whisper"
	"github.com/seu-repo/comanda/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/comanda/internal/adapter/websocket"
	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/infrastructure/retry"
	"github.com/seu-repo/comanda/internal/observability/telemetry"
	"github.com/seu-repo/comanda/internal/ports"
	"github.com/seu-repo/comanda/internal/service/admin"
	"github.com/seu-repo/comanda/internal/service/analytics"
	"github.com/seu-repo/comanda/internal/service/auth"
	"github.com/seu-repo/comanda/internal/service/credential"
	"github.com/seu-repo/comanda/internal/service/email"
	"github.com/seu-repo/comanda/internal/service/health"
	"github.com/seu-repo/comanda/internal/service/menu"
	"github.com/seu-repo/comanda/internal/service/order"
	"github.com/seu-repo/comanda/internal/service/payment"
	"github.com/seu-repo/comanda/internal/service/voice"
	"github.com/seu-repo/comanda/pkg/config"
)

const serviceName = "comanda"

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Comanda",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Tracing
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Credential loader: Vault first when configured, process
	// environment as fallback.
	var sources []ports.SecretSource
	if cfg.Vault.Enabled {
		vaultSource, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Mount, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		sources = append(sources, vaultSource)
	}
	sources = append(sources, credential.EnvSource{})
	credentials := credential.NewLoader(logger, sources...)

	// 5. PostgreSQL
	db, err := postgres.NewConnection(cfg.Database.URL, postgres.PoolConfig{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Redis
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// 7. Message queue
	messageQueue, err := newMessageQueue(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue",
			zap.String("driver", cfg.Queue.Driver),
			zap.Error(err),
		)
	}
	defer messageQueue.Close()

	// 8. Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	menuRepo := postgres.NewMenuRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)

	// 9. Services
	authService := auth.NewService(userRepo, redisCache, cfg.JWT.Secret, logger)
	menuService := menu.NewService(menuRepo, redisCache, messageQueue, logger)

	estimator := analytics.NewEstimator(orderRepo, logger)
	orderService := order.NewService(orderRepo, menuService, estimator, messageQueue, &order.PricingConfig{
		ServiceFeeRate:    cfg.Payment.Pricing.ServiceFeeRate,
		DeliveryFee:       cfg.Payment.Pricing.DeliveryFee,
		HappyHourDiscount: cfg.Payment.Pricing.HappyHourOffRate,
		HappyHourStart:    cfg.Payment.Pricing.HappyHourStart,
		HappyHourEnd:      cfg.Payment.Pricing.HappyHourEnd,
		Currency:          cfg.Region.Currency,
	}, logger)

	stripeKey := credentials.Load(context.Background(), "STRIPE_SECRET_KEY")
	paymentService, err := payment.NewService(&payment.Config{
		DefaultCurrency:     cfg.Region.Currency,
		StripeSecretKey:     stripeKey.Value,
		StripeWebhookSecret: cfg.Payment.Stripe.WebhookSecret,
	}, paymentRepo, redisCache, messageQueue, logger)
	if err != nil {
		logger.Fatal("Failed to initialize payment service", zap.Error(err))
	}

	emailAdapter, err := notification.NewEmailAdapter(&email.Config{
		Provider:       cfg.Notification.Email.Provider,
		FromEmail:      cfg.Notification.Email.From,
		FromName:       cfg.Notification.Email.FromName,
		SendGridAPIKey: cfg.Notification.Email.APIKey,
		SMTPHost:       cfg.Notification.Email.SMTPHost,
		SMTPPort:       cfg.Notification.Email.SMTPPort,
		SMTPUsername:   cfg.Notification.Email.SMTPUser,
		SMTPPassword:   cfg.Notification.Email.SMTPPass,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	adminService := admin.NewService(userRepo, orderRepo, menuRepo, logger)

	// 10. Voice-to-order pipeline. A missing provider credential keeps
	// the service disabled without taking the rest of the app down.
	voiceService := newVoiceService(cfg, credentials, menuService, logger)

	// 11. Health service
	healthService := health.NewService(&health.Config{
		Version:     cfg.App.Version,
		DB:          sqlDB,
		Redis:       redisClient(redisCache),
		QueueDriver: cfg.Queue.Driver,
		QueuePing:   messageQueue.Ping,
	}, logger)

	// 12. HTTP server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	app.Get("/metrics", func(c *fiber.Ctx) error {
		// Adapt net/http handler to fasthttp for Fiber
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	authMiddleware := middleware.AuthRequired(authService)

	v1 := app.Group("/api/v1")

	// Auth (public)
	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	protected := v1.Group("", authMiddleware)
	protected.Get("/auth/me", authHandler.Me)

	// Menu
	menuHandler := handlers.NewMenuHandler(menuService, logger)
	v1.Get("/menu", menuHandler.Catalog)
	protected.Get("/menu/items", menuHandler.List)
	protected.Get("/menu/items/:id", menuHandler.Get)
	protected.Post("/menu/items", menuHandler.Create)
	protected.Put("/menu/items/:id", menuHandler.Update)
	protected.Delete("/menu/items/:id", menuHandler.Delete)
	protected.Patch("/menu/items/:id/availability", menuHandler.SetAvailability)

	// Orders
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	protected.Post("/orders", orderHandler.Create)
	protected.Get("/orders/history", orderHandler.GetHistory)
	protected.Get("/orders/status/:status", orderHandler.ListByStatus)
	protected.Get("/orders/table/:number", orderHandler.GetByTable)
	protected.Get("/orders/:id", orderHandler.Get)
	protected.Post("/orders/:id/advance", orderHandler.AdvanceStatus)
	protected.Post("/orders/:id/cancel", orderHandler.Cancel)

	// Payments
	paymentHandler := handlers.NewPaymentHandler(paymentService, orderService, logger)
	protected.Post("/payments/intent", paymentHandler.CreateIntent)
	protected.Post("/payments/manual", paymentHandler.RecordManual)
	protected.Get("/payments/:id", paymentHandler.Get)
	protected.Get("/payments/order/:orderId", paymentHandler.ListByOrder)
	protected.Post("/payments/:id/refund", paymentHandler.Refund)
	v1.Post("/payments/webhook", paymentHandler.Webhook)

	// Voice ordering, mounted only when the credential resolved.
	if voiceService.Enabled() {
		voiceHandler := handlers.NewVoiceHandler(voiceService, logger)
		protected.Post("/voice/transcribe", voiceHandler.Transcribe)
		wsAdapter.SetupVoiceRoutes(app, wsAdapter.NewVoiceStreamHandler(voiceService, logger), authMiddleware)
	}

	// Admin
	admin.NewHandler(adminService).RegisterRoutes(app, authMiddleware, admin.AdminMiddleware())

	// 13. Dashboard websocket hub
	wsHub := wsAdapter.NewHub()
	go wsHub.Run()
	if err := wsHub.BindQueue(messageQueue); err != nil {
		logger.Fatal("Failed to bind dashboard hub to queue", zap.Error(err))
	}
	wsAdapter.SetupDashboardRoutes(app, wsHub, authMiddleware)

	// 14. Customer notifications
	notifier := notification.NewNotifier(
		orderService,
		paymentService,
		emailAdapter,
		newSMSAdapter(credentials, logger),
		newPushAdapter(credentials, logger),
		logger,
	)
	if err := notifier.Start(messageQueue); err != nil {
		logger.Fatal("Failed to start notifier", zap.Error(err))
	}

	// 15. Kitchen feed on its own listener
	kitchenServer := kitchen.NewServer(logger)
	if err := kitchenServer.Bind(messageQueue); err != nil {
		logger.Fatal("Failed to bind kitchen feed to queue", zap.Error(err))
	}
	go func() {
		if err := kitchenServer.Start(cfg.Kitchen.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Kitchen feed server failed", zap.Error(err))
		}
	}()

	// 16. gRPC ops endpoint
	grpcServer := grpcserver.NewGRPCServer(cfg.JWT.Secret, logger)
	go func() {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			logger.Fatal("Failed to listen for gRPC", zap.Error(err))
		}
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	// 17. Metrics listener, sharing the health probes
	metricsServer := newMetricsServer(cfg, healthService)
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	// 18. Expire abandoned voice captures
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				voiceService.Sweep()
			case <-sweepStop:
				return
			}
		}
	}()

	// 19. HTTP listener
	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	grpcServer.SetServing(true)

	// 20. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	grpcServer.SetServing(false)
	close(sweepStop)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	metricsServer.Shutdown(ctx)
	kitchenServer.Stop()
	grpcServer.Stop()

	logger.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Environment == "development" {
		return zap.NewDevelopment()
	}

	zapCfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.Logging.Level); err == nil {
		zapCfg.Level = level
	}
	if !cfg.Logging.Sampling.Enabled {
		zapCfg.Sampling = nil
	}
	return zapCfg.Build()
}

func newMessageQueue(cfg *config.Config, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Queue.Driver {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.Queue.URL, logger)
	case "nats", "":
		return queue.NewNATSQueue(cfg.Queue.URL, logger)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}

// newVoiceService resolves the transcription credential for the
// configured provider and assembles the pipeline.
func newVoiceService(cfg *config.Config, credentials *credential.Loader, menuService ports.MenuService, logger *zap.Logger) *voice.Service {
	var (
		provider ports.SpeechToText
		cred     domain.Credential
	)

	ctx := context.Background()
	switch cfg.Voice.Provider {
	case "deepgram":
		cred = credentials.Load(ctx, "DEEPGRAM_API_KEY")
		provider = deepgram.NewClient(cred.Value, cfg.Voice.Model, logger)
	default:
		cred = credentials.Load(ctx, "OPENAI_API_KEY")
		provider = whisper.NewClient(cred.Value, cfg.Voice.Model, logger)
	}

	policy := retry.DefaultPolicy()
	if cfg.Voice.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Voice.MaxAttempts
	}
	if cfg.Voice.InitialBackoff > 0 {
		policy.InitialBackoff = cfg.Voice.InitialBackoff
	}
	if cfg.Voice.MaxBackoff > 0 {
		policy.MaxBackoff = cfg.Voice.MaxBackoff
	}

	gateway := voice.NewGateway(provider, cred, voice.GatewayConfig{
		Policy:   policy,
		Timeout:  cfg.Voice.RequestTimeout,
		Language: cfg.Voice.Language,
	}, logger)

	return voice.NewService(gateway, menuService, cred, voice.ServiceConfig{
		SampleRate:         cfg.Voice.SampleRate,
		Encoding:           "wav",
		MaxAudioBytes:      cfg.Voice.MaxAudioBytes,
		MaxSessionsPerUser: cfg.Limits.MaxCaptureSessionsPerUser,
		MaxCaptureDuration: cfg.Limits.MaxCaptureDuration,
	}, logger)
}

// newSMSAdapter wires Twilio when its credentials resolve; nil keeps
// the SMS channel off.
func newSMSAdapter(credentials *credential.Loader, logger *zap.Logger) *notification.SMSAdapter {
	ctx := context.Background()
	sid := credentials.Load(ctx, "TWILIO_ACCOUNT_SID")
	token := credentials.Load(ctx, "TWILIO_AUTH_TOKEN")
	from := credentials.Load(ctx, "TWILIO_FROM_NUMBER")
	if !sid.Present || !token.Present || !from.Present {
		return nil
	}
	return notification.NewSMSAdapter(sid.Value, token.Value, from.Value, logger)
}

func newPushAdapter(credentials *credential.Loader, logger *zap.Logger) *notification.PushAdapter {
	ctx := context.Background()
	key := credentials.Load(ctx, "FCM_SERVER_KEY")
	project := credentials.Load(ctx, "FCM_PROJECT_ID")
	if !key.Present || !project.Present {
		return nil
	}
	return notification.NewPushAdapter(key.Value, project.Value, logger)
}

// redisClient unwraps the cache adapter for the health probe, which
// talks to the client directly.
func redisClient(c ports.Cache) *redis.Client {
	if rc, ok := c.(*cache.RedisCache); ok {
		return rc.Client()
	}
	return nil
}

func newMetricsServer(cfg *config.Config, healthService *health.Service) *http.Server {
	path := cfg.Prometheus.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	health.NewHTTPHandler(healthService).RegisterRoutes(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Prometheus.Port),
		Handler: mux,
	}
}
