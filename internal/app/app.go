package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/uniedit/returns/internal/domain/attachment"
	"github.com/uniedit/returns/internal/domain/authz"
	"github.com/uniedit/returns/internal/domain/messaging"
	"github.com/uniedit/returns/internal/domain/notification"
	"github.com/uniedit/returns/internal/domain/returns"

	// Inbound adapters (HTTP handlers)
	ginadapter "github.com/uniedit/returns/internal/adapter/inbound/gin"
	"github.com/uniedit/returns/internal/port/inbound"
	"github.com/uniedit/returns/internal/port/outbound"

	// Outbound adapters
	"github.com/uniedit/returns/internal/adapter/outbound/identity"
	"github.com/uniedit/returns/internal/adapter/outbound/payment"
	"github.com/uniedit/returns/internal/adapter/outbound/postgres"
	redisadapter "github.com/uniedit/returns/internal/adapter/outbound/redis"
	s3adapter "github.com/uniedit/returns/internal/adapter/outbound/s3"
	"github.com/uniedit/returns/internal/model"

	// Shared infrastructure
	_ "github.com/uniedit/returns/cmd/server/docs" // swagger docs
	sharedcache "github.com/uniedit/returns/internal/shared/cache"
	"github.com/uniedit/returns/internal/shared/config"
	"github.com/uniedit/returns/internal/shared/database"
	"github.com/uniedit/returns/internal/shared/logger"
	"github.com/uniedit/returns/internal/utils/metrics"
	"github.com/uniedit/returns/internal/utils/middleware"
)

// App wires the returns service together.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   goredis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Outbound adapters
	objects     outbound.ObjectURLPort
	gateway     outbound.RefundGatewayPort
	tokens      outbound.TokenValidatorPort
	roles       *middleware.RoleResolver
	rateLimiter outbound.RateLimiterPort
	unread      outbound.UnreadCountCachePort

	// Domain services
	returnsDomain      returns.ReturnsDomain
	messagingDomain    messaging.MessagingDomain
	notificationDomain notification.NotificationDomain

	// HTTP handlers (inbound adapters)
	returnHandler       inbound.ReturnHttpPort
	returnAdminHandler  inbound.ReturnAdminHttpPort
	messageHandler      inbound.MessageHttpPort
	notificationHandler inbound.NotificationHttpPort
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  zapLog,
		metrics: metrics.New(cfg.Metrics.Namespace, nil),
	}

	if err := app.initInfrastructure(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	app.router = app.setupRouter()

	if err := app.initDomains(); err != nil {
		app.Stop()
		return nil, fmt.Errorf("init domains: %w", err)
	}

	app.registerRoutes()

	return app, nil
}

// initInfrastructure opens the database and cache and builds the outbound adapters.
func (a *App) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(&a.config.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.db = db
	if a.config.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Redis is optional: without it unread counts go straight to the database,
	// and rate limiting and idempotency are disabled.
	if a.config.Redis.Address != "" {
		client, err := sharedcache.NewRedisClient(ctx, &a.config.Redis)
		if err != nil {
			a.logger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		} else {
			a.redis = client
			a.rateLimiter = redisadapter.NewRateLimiter(client)
			a.unread = redisadapter.NewUnreadCache(client, a.config.Messaging.UnreadCacheTTL)
		}
	}

	if err := a.initStorage(ctx); err != nil {
		return err
	}
	if err := a.initPayment(); err != nil {
		return err
	}

	tokens, err := identity.NewTokenValidator(&identity.Config{
		Secret: a.config.Auth.JWTSecret,
		Issuer: a.config.Auth.JWTIssuer,
	})
	if err != nil {
		return fmt.Errorf("init token validator: %w", err)
	}
	a.tokens = tokens
	a.roles = middleware.NewRoleResolver(a.config.Auth.AdminEmails, a.config.Auth.AdminUserIDs)

	return nil
}

// initStorage builds the presigned URL adapter for stored attachments.
// Without storage credentials stored references are served as-is.
func (a *App) initStorage(ctx context.Context) error {
	cfg := a.config.Storage
	if cfg.AccessKeyID == "" {
		a.logger.Warn("object storage not configured, stored attachments will not be presigned")
		return nil
	}
	client, err := s3adapter.NewClient(ctx, &s3adapter.ClientConfig{
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UsePathStyle:    cfg.UsePathStyle,
	})
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}
	a.objects = s3adapter.NewObjectURLAdapter(client, cfg.Bucket, cfg.PresignTTL)
	return nil
}

// initPayment registers a resilient refund gateway per configured provider.
func (a *App) initPayment() error {
	cfg := a.config.Payment
	resilience := &payment.ResilienceConfig{
		Timeout:          cfg.GatewayTimeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		MaxHalfOpen:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		OpenTimeout:      cfg.Breaker.Timeout,
	}

	router := payment.NewRouter()
	if cfg.Stripe.SecretKey != "" {
		stripeGateway := payment.NewStripeGateway(&payment.StripeConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			BackendURL: cfg.Stripe.BackendURL,
		})
		router.Register(model.PaymentProviderStripe,
			payment.NewResilientGateway(model.PaymentProviderStripe, stripeGateway, resilience, a.logger))
	}
	if cfg.Alipay.AppID != "" {
		alipayGateway, err := payment.NewAlipayGateway(&payment.AlipayConfig{
			AppID:           cfg.Alipay.AppID,
			PrivateKey:      cfg.Alipay.PrivateKey,
			AlipayPublicKey: cfg.Alipay.AlipayPublicKey,
			IsProd:          cfg.Alipay.IsProd,
		})
		if err != nil {
			return fmt.Errorf("init alipay gateway: %w", err)
		}
		router.Register(model.PaymentProviderAlipay,
			payment.NewResilientGateway(model.PaymentProviderAlipay, alipayGateway, resilience, a.logger))
	}

	if len(router.Providers()) == 0 {
		a.logger.Warn("no refund gateway configured, approvals with an amount will fail")
	}
	a.gateway = router
	return nil
}

// initDomains builds the domain services and their HTTP handlers.
func (a *App) initDomains() error {
	returnDB := postgres.NewReturnRequestAdapter(a.db)
	orderDB := postgres.NewOrderAdapter(a.db)
	messageDB := postgres.NewMessageAdapter(a.db)
	tx := postgres.NewTransactionAdapter(a.db)

	authorizer := authz.New()
	resolver := attachment.NewResolver(a.objects, a.logger)

	a.returnsDomain = returns.NewReturnsDomain(
		returnDB,
		orderDB,
		messageDB,
		tx,
		a.gateway,
		a.unread,
		authorizer,
		a.metrics,
		&returns.Config{WindowDays: a.config.Returns.WindowDays},
		a.logger.Named("returns"),
	)
	a.messagingDomain = messaging.NewMessagingDomain(
		returnDB,
		messageDB,
		resolver,
		a.unread,
		authorizer,
		a.metrics,
		a.logger.Named("messaging"),
	)
	a.notificationDomain = notification.NewNotificationDomain(
		messageDB,
		a.unread,
		authorizer,
		a.logger.Named("notification"),
	)

	a.returnHandler = ginadapter.NewReturnHandler(a.returnsDomain, resolver)
	a.returnAdminHandler = ginadapter.NewReturnAdminHandler(a.returnsDomain, resolver)
	a.messageHandler = ginadapter.NewMessageHandler(a.messagingDomain)
	a.notificationHandler = ginadapter.NewNotificationHandler(a.notificationDomain)

	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(a.config.Server.AllowedOrigins))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerRoutes registers all HTTP routes.
func (a *App) registerRoutes() {
	v1 := a.router.Group("/api/v1")
	protected := v1.Group("", middleware.RequireAuth(a.tokens, a.roles))

	protected.GET("/orders/:id/return-eligibility", a.returnHandler.CheckEligibility)

	returnsGroup := protected.Group("/returns")
	{
		returnsGroup.POST("", a.returnHandler.CreateReturn)
		returnsGroup.GET("", a.returnHandler.ListMyReturns)
		returnsGroup.GET("/:id", a.returnHandler.GetReturn)
		returnsGroup.POST("/:id/cancel", a.returnHandler.CancelReturn)
		returnsGroup.DELETE("/:id", a.returnHandler.DeleteReturn)

		returnsGroup.GET("/:id/messages", a.messageHandler.ListMessages)
		returnsGroup.POST("/:id/messages", a.sendRateLimit(), a.messageHandler.SendMessage)
		returnsGroup.POST("/:id/messages/read", a.messageHandler.MarkRead)
	}

	protected.GET("/notifications/unread-count", a.notificationHandler.UnreadCount)

	admin := protected.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/returns", a.returnAdminHandler.ListReturns)
		admin.GET("/returns/:id", a.returnAdminHandler.GetReturn)
		admin.PATCH("/returns/:id/status", a.idempotency(), a.returnAdminHandler.UpdateStatus)
		admin.GET("/returns/:id/messages", a.messageHandler.ListMessages)
		admin.POST("/returns/:id/messages", a.sendRateLimit(), a.messageHandler.SendMessage)
		admin.POST("/returns/:id/messages/read", a.messageHandler.MarkRead)
		admin.GET("/notifications/unread-counts", a.notificationHandler.AdminUnreadCounts)
	}
}

// sendRateLimit throttles message posting per user. It is a no-op without Redis.
func (a *App) sendRateLimit() gin.HandlerFunc {
	limit := a.config.Messaging.SendRateLimit
	if a.rateLimiter == nil || limit == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimitPerUserRoute(a.rateLimiter, limit, a.config.Messaging.SendRateWindow, a.logger)
}

// idempotency replays admin writes sent with a repeated Idempotency-Key.
// It is a no-op without Redis.
func (a *App) idempotency() gin.HandlerFunc {
	var store middleware.IdempotencyStore
	if a.redis != nil {
		store = middleware.NewRedisIdempotencyStore(a.redis)
	}
	return middleware.Idempotency(store, a.config.Messaging.IdempotencyTTL, a.logger)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.redis != nil {
		_ = sharedcache.Close(a.redis)
	}

	if a.db != nil {
		_ = database.Close(a.db)
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
