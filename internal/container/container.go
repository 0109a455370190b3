// Package container - Dependency Injection container for the application.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (Initialize)
// - Доступ (getters)
// - Закрытие (Shutdown, в обратном порядке)
//
// Pattern: Composition Root
// - Все зависимости собираются в одном месте
// - Внешние системы (Redis, NATS, трассировка) подключаются по конфигурации
package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/adapters/http"
	"github.com/Haleralex/paytogether/internal/adapters/http/handlers"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/application/usecases/advertisement"
	"github.com/Haleralex/paytogether/internal/application/usecases/auth"
	"github.com/Haleralex/paytogether/internal/application/usecases/category"
	"github.com/Haleralex/paytogether/internal/application/usecases/comment"
	"github.com/Haleralex/paytogether/internal/application/usecases/deal"
	"github.com/Haleralex/paytogether/internal/application/usecases/file"
	"github.com/Haleralex/paytogether/internal/application/usecases/payment"
	"github.com/Haleralex/paytogether/internal/application/usecases/user"
	"github.com/Haleralex/paytogether/internal/config"
	"github.com/Haleralex/paytogether/internal/infrastructure/cache"
	"github.com/Haleralex/paytogether/internal/infrastructure/identity"
	"github.com/Haleralex/paytogether/internal/infrastructure/messaging"
	"github.com/Haleralex/paytogether/internal/infrastructure/persistence/postgres"
	"github.com/Haleralex/paytogether/internal/infrastructure/storage"
	"github.com/Haleralex/paytogether/internal/infrastructure/telemetry"
	"github.com/Haleralex/paytogether/internal/pkg/logger"
	"github.com/Haleralex/paytogether/internal/worker"
)

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	pool            *pgxpool.Pool
	redis           *cache.Redis
	storage         *storage.MinioStorage
	identity        *identity.Client
	sink            ports.EventSink
	tracingShutdown telemetry.ShutdownFunc

	// Repositories
	userRepo          *postgres.UserRepository
	dealRepo          *postgres.DealRepository
	categoryRepo      *postgres.CategoryRepository
	commentRepo       *postgres.CommentRepository
	advertisementRepo *postgres.AdvertisementRepository
	paymentRepo       *postgres.PaymentRepository
	outboxRepo        *postgres.OutboxRepository

	// Unit of Work
	uow ports.UnitOfWork

	// Event Publisher (outbox в той же транзакции)
	eventPublisher ports.EventPublisher
	tokens         ports.TokenStore

	// Services
	dealService          *deal.Service
	categoryService      *category.Service
	commentService       *comment.Service
	advertisementService *advertisement.Service
	paymentService       *payment.Service
	userService          *user.Service
	authService          *auth.Service
	fileService          *file.Service

	// Background
	rateLimiter *middleware.RateLimiter
	scheduler   *worker.Scheduler

	// HTTP
	httpServer    *http.Server
	serverStopped bool
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости. При ошибке уже созданные
// ресурсы нужно освободить через Shutdown.
func (c *Container) Initialize(ctx context.Context) error {
	if c.logger == nil {
		c.logger = c.initLogger()
	}
	c.logger.Info("Initializing application container...")

	// 1. Tracing
	if err := c.initTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// 2. Database
	if c.config.Database.AutoMigrate {
		if err := c.migrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	if c.pool == nil {
		if err := c.initDatabase(ctx); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	c.logger.Info("Database connected")

	// 3. External systems
	if err := c.initExternal(ctx); err != nil {
		return err
	}

	// 4. Repositories
	c.initRepositories()
	c.logger.Info("Repositories initialized")

	// 5. Services
	c.initServices()
	c.logger.Info("Services initialized")

	// 6. Background jobs
	if err := c.initScheduler(); err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	// 7. HTTP Server
	if err := c.initHTTPServer(); err != nil {
		return fmt.Errorf("failed to initialize http server: %w", err)
	}
	c.logger.Info("HTTP server initialized")

	c.logger.Info("Container initialization complete")
	return nil
}

// initLogger инициализирует глобальный zap логгер.
func (c *Container) initLogger() *zap.Logger {
	output := os.Stdout
	if c.config.Log.Output == "stderr" {
		output = os.Stderr
	}

	return logger.Setup(&logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    output,
		AddCaller: c.config.Log.AddCaller || c.config.App.Debug,
	})
}

func (c *Container) initTracing(ctx context.Context) error {
	shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     c.config.Tracing.Enabled,
		Endpoint:    c.config.Tracing.Endpoint,
		Insecure:    c.config.Tracing.Insecure,
		ServiceName: c.config.App.Name,
		Version:     c.config.App.Version,
		Environment: c.config.App.Environment,
		SampleRatio: c.config.Tracing.SampleRatio,
	}, c.logger)
	if err != nil {
		return err
	}
	c.tracingShutdown = shutdown
	return nil
}

// initDatabase инициализирует подключение к БД.
func (c *Container) initDatabase(ctx context.Context) error {
	db := c.config.Database
	pool, err := postgres.NewConnectionPool(ctx, postgres.Config{
		Host:            db.Host,
		Port:            db.Port,
		Database:        db.Database,
		User:            db.User,
		Password:        db.Password,
		SSLMode:         db.SSLMode,
		MaxConns:        db.MaxConnections,
		MinConns:        db.MinConnections,
		MaxConnLifetime: db.MaxConnLifetime,
		MaxConnIdleTime: db.MaxConnIdleTime,
		ConnectTimeout:  db.ConnectTimeout,
	})
	if err != nil {
		return err
	}

	c.pool = pool
	return nil
}

// migrate применяет миграции из Database.MigrationsPath.
func (c *Container) migrate() error {
	version, err := postgres.MigrateUp(c.config.Database.DSN(), c.config.Database.MigrationsPath)
	if err != nil {
		return err
	}
	c.logger.Info("Database schema migrated", zap.Uint("version", version))
	return nil
}

// initExternal подключает Redis, MinIO, identity provider и брокер событий.
func (c *Container) initExternal(ctx context.Context) error {
	if c.config.Redis.Enabled {
		c.redis = cache.NewRedis(cache.Config{
			Addr:     c.config.Redis.Addr,
			Password: c.config.Redis.Password,
			DB:       c.config.Redis.DB,
		}, c.logger)
		c.tokens = cache.NewTokenStore(c.redis.Client, c.config.Redis.KeyPrefix)
	} else {
		c.logger.Warn("redis disabled, revoked tokens are kept in memory")
		c.tokens = cache.NewMemoryTokenStore()
	}

	st := c.config.Storage
	minioStorage, err := storage.NewMinioStorage(storage.Config{
		Endpoint:  st.Endpoint,
		AccessKey: st.AccessKey,
		SecretKey: st.SecretKey,
		Bucket:    st.Bucket,
		Region:    st.Region,
		UseSSL:    st.UseSSL,
		PublicURL: st.PublicURL,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := minioStorage.EnsureBucket(ctx); err != nil {
		// хранилище может подняться позже; readiness покажет проблему
		c.logger.Warn("unable to ensure storage bucket", zap.String("bucket", st.Bucket), zap.Error(err))
	}
	c.storage = minioStorage

	kc := c.config.Keycloak
	c.identity = identity.NewClient(identity.Config{
		BaseURL:       kc.URL,
		Realm:         kc.Realm,
		ClientID:      kc.ClientID,
		ClientSecret:  kc.ClientSecret,
		AdminRealm:    kc.AdminRealm,
		AdminClientID: kc.AdminClientID,
		AdminUsername: kc.AdminUsername,
		AdminPassword: kc.AdminPassword,
		Timeout:       kc.Timeout,
	}, c.logger)

	if c.sink == nil {
		if c.config.NATS.URL == "" {
			c.logger.Info("nats not configured, domain events are only logged")
			c.sink = messaging.NewLogSink(c.logger)
		} else {
			conn, err := messaging.Connect(c.config.NATS.URL, c.config.NATS.ClientName, c.logger)
			if err != nil {
				return err
			}
			c.sink = messaging.NewNatsSink(conn, c.config.NATS.SubjectPrefix)
		}
	}

	return nil
}

// initRepositories инициализирует репозитории.
func (c *Container) initRepositories() {
	c.userRepo = postgres.NewUserRepository(c.pool)
	c.dealRepo = postgres.NewDealRepository(c.pool)
	c.categoryRepo = postgres.NewCategoryRepository(c.pool)
	c.commentRepo = postgres.NewCommentRepository(c.pool)
	c.advertisementRepo = postgres.NewAdvertisementRepository(c.pool)
	c.paymentRepo = postgres.NewPaymentRepository(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)

	// Unit of Work
	c.uow = postgres.NewUnitOfWork(c.pool)

	// Event Publisher (OutboxRepository реализует интерфейс)
	if c.eventPublisher == nil {
		c.eventPublisher = c.outboxRepo
	}
}

// initServices инициализирует сервисы.
func (c *Container) initServices() {
	c.dealService = deal.NewService(c.dealRepo, c.eventPublisher, c.uow)
	c.categoryService = category.NewService(c.categoryRepo)
	c.commentService = comment.NewService(c.commentRepo, c.dealRepo)
	c.advertisementService = advertisement.NewService(c.advertisementRepo)
	c.paymentService = payment.NewService(c.paymentRepo, c.dealRepo, c.eventPublisher, c.uow)
	c.userService = user.NewService(c.userRepo, c.identity, c.eventPublisher, c.uow, c.logger)
	c.authService = auth.NewService(c.identity, c.tokens, c.logger)
	c.fileService = file.NewService(c.storage, file.Config{
		KeyPrefix:        c.config.Storage.KeyPrefix,
		MaxSize:          c.config.Storage.MaxFileSize,
		PresignExpiry:    c.config.Storage.PresignExpiry,
		AllowedMIMETypes: c.config.Storage.AllowedTypes,
	})
}

// initScheduler регистрирует фоновые задачи.
func (c *Container) initScheduler() error {
	rl := c.config.RateLimit
	if rl.Enabled {
		c.rateLimiter = middleware.NewRateLimiter(&middleware.RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
			IdleTTL:           rl.IdleTTL,
			Logger:            c.logger,
		})
	}

	if !c.config.Scheduler.Enabled {
		c.logger.Info("scheduler disabled")
		return nil
	}

	sc := c.config.Scheduler
	c.scheduler = worker.NewScheduler(c.logger)

	cleanup := worker.NewImageCleanup(c.dealRepo, c.storage, worker.ImageCleanupConfig{
		GracePeriod: sc.ImageGracePeriod,
		BatchSize:   sc.ImageBatchSize,
	}, c.logger)
	if err := c.scheduler.Add(sc.ImageCleanupSchedule, cleanup); err != nil {
		return err
	}

	relay := worker.NewOutboxRelay(c.outboxRepo, c.uow, c.sink, worker.OutboxRelayConfig{
		BatchSize:  sc.OutboxBatchSize,
		MaxRetries: sc.OutboxMaxRetries,
		Retention:  sc.OutboxRetention,
	}, c.logger)
	if err := c.scheduler.Add(sc.OutboxSchedule, relay); err != nil {
		return err
	}

	if c.rateLimiter != nil && rl.CleanupSchedule != "" {
		if err := c.scheduler.Add(rl.CleanupSchedule, worker.NewLimiterCleanup(c.rateLimiter, c.logger)); err != nil {
			return err
		}
	}
	return nil
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() error {
	verifier, err := middleware.NewTokenVerifier(middleware.AuthConfig{
		PublicKeyPEM: c.config.Auth.PublicKey,
		Secret:       c.config.Auth.JWTSecret,
		Issuer:       c.config.Auth.Issuer,
		ClientID:     c.config.Keycloak.ClientID,
		Leeway:       c.config.Auth.Leeway,
	})
	if err != nil {
		return fmt.Errorf("failed to create token verifier: %w", err)
	}

	cors := c.config.CORS
	routerConfig := &http.RouterConfig{
		Logger:       c.logger,
		Pool:         c.pool,
		HealthChecks: c.healthChecks(),
		ServiceName:  c.config.App.Name,
		Version:      c.config.App.Version,
		BuildTime:    c.config.App.BuildTime,
		Environment:  c.config.App.Environment,
		CORS: &middleware.CORSConfig{
			AllowOrigins:     cors.AllowedOrigins,
			AllowMethods:     cors.AllowedMethods,
			AllowHeaders:     cors.AllowedHeaders,
			ExposeHeaders:    cors.ExposedHeaders,
			AllowCredentials: cors.AllowCredentials,
			MaxAge:           int(cors.MaxAge / time.Second),
		},
		RateLimiter: c.rateLimiter,
		Verifier:    verifier,
		Revocation:  c.tokens,
		Cookie: handlers.CookieConfig{
			Domain: c.config.Auth.CookieDomain,
			Secure: c.config.Auth.CookieSecure,
		},
		Tracing: c.config.Tracing.Enabled,
	}

	router := http.NewRouter(routerConfig, &http.Services{
		Deals:          c.dealService,
		Categories:     c.categoryService,
		Comments:       c.commentService,
		Advertisements: c.advertisementService,
		Payments:       c.paymentService,
		Users:          c.userService,
		Auth:           c.authService,
		Files:          c.fileService,
	})

	c.httpServer = http.NewServer(&http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            strconv.Itoa(c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}, router)
	return nil
}

// healthChecks - зависимости, проверяемые /ready.
func (c *Container) healthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{
		{Name: "database", Check: func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, c.pool)
		}},
	}
	if c.redis != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: c.redis.Ping})
	}
	if c.storage != nil {
		checks = append(checks, handlers.HealthCheck{Name: "storage", Check: c.storage.HealthCheck})
	}
	return checks
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Pool возвращает пул соединений к БД.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// UnitOfWork возвращает Unit of Work.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// DealService возвращает сервис сделок.
func (c *Container) DealService() *deal.Service {
	return c.dealService
}

// PaymentService возвращает сервис платежей.
func (c *Container) PaymentService() *payment.Service {
	return c.paymentService
}

// UserService возвращает сервис пользователей.
func (c *Container) UserService() *user.Service {
	return c.userService
}

// ============================================
// Run / Shutdown
// ============================================

// Run запускает фоновые задачи и HTTP сервер; отмена ctx останавливает сервер.
// Остальные ресурсы освобождает Shutdown.
func (c *Container) Run(ctx context.Context) error {
	c.logger.Info("Starting PayToGether API Server",
		zap.String("version", c.config.App.Version),
		zap.String("environment", c.config.App.Environment),
		zap.String("address", c.config.Server.Address()),
	)

	if c.scheduler != nil {
		c.scheduler.Start()
	}

	err := c.httpServer.RunWithContext(ctx)
	c.serverStopped = true
	return err
}

// Shutdown выполняет graceful shutdown всех компонентов:
// HTTP сервер, задачи, брокер, Redis, БД, трассировка.
func (c *Container) Shutdown(ctx context.Context) error {
	log := c.logger
	if log == nil {
		log = zap.L()
	}
	log.Info("Shutting down container...")

	var errs []error

	// 1. HTTP Server
	if c.httpServer != nil && !c.serverStopped {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
		c.serverStopped = true
	}

	// 2. Background jobs (дожидаемся текущих запусков)
	if c.scheduler != nil {
		if err := c.scheduler.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("scheduler stop: %w", err))
		}
	}

	// 3. Event sink
	if c.sink != nil {
		if err := c.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event sink close: %w", err))
		}
	}

	// 4. Redis
	c.redis.Close()

	// 5. Database (даём время на завершение транзакций)
	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			log.Info("Database connection closed")
		case <-ctx.Done():
			log.Warn("Database close timeout")
		}
	}

	// 6. Tracing (сброс буфера спанов)
	if c.tracingShutdown != nil {
		if err := c.tracingShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	log.Info("Container shutdown complete")
	_ = log.Sync()
	return nil
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder - builder для создания контейнера с кастомными компонентами.
type ContainerBuilder struct {
	cfg            *config.Config
	logger         *zap.Logger
	pool           *pgxpool.Pool
	eventPublisher ports.EventPublisher
	sink           ports.EventSink
}

// NewBuilder создаёт новый builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger устанавливает кастомный логгер.
func (b *ContainerBuilder) WithLogger(logger *zap.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithPool устанавливает готовый пул соединений.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.pool = pool
	return b
}

// WithEventPublisher устанавливает кастомный event publisher.
func (b *ContainerBuilder) WithEventPublisher(ep ports.EventPublisher) *ContainerBuilder {
	b.eventPublisher = ep
	return b
}

// WithEventSink устанавливает получателя событий outbox вместо NATS.
func (b *ContainerBuilder) WithEventSink(sink ports.EventSink) *ContainerBuilder {
	b.sink = sink
	return b
}

// Build создаёт и инициализирует контейнер.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}

	c := New(b.cfg)
	c.logger = b.logger
	c.pool = b.pool
	c.eventPublisher = b.eventPublisher
	c.sink = b.sink

	if err := c.Initialize(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
