// Package http - Router configuration for REST API.
//
// Router собирает все handlers и middleware в единую точку входа.
// Чтение публичное, запись требует аутентификации, администрирование
// категорий, рекламы и пользователей требует ROLE_ADMIN.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
	"github.com/Haleralex/paytogether/internal/adapters/http/handlers"
	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig - конфигурация роутера.
type RouterConfig struct {
	Logger *zap.Logger
	// Pool - для статистики соединений в /health/detailed (может быть nil)
	Pool         *pgxpool.Pool
	HealthChecks []handlers.HealthCheck

	ServiceName string
	Version     string
	BuildTime   string
	// Environment (development, test, production)
	Environment string

	CORS        *middleware.CORSConfig
	RateLimiter *middleware.RateLimiter

	// Verifier == nil: все защищённые маршруты отвечают 401
	Verifier   *middleware.TokenVerifier
	Revocation middleware.RevocationChecker
	Cookie     handlers.CookieConfig

	// Tracing включает otelgin middleware
	Tracing bool
}

// DefaultRouterConfig - конфигурация по умолчанию для development.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:      zap.L(),
		ServiceName: "paytogether-api",
		Version:     "dev",
		BuildTime:   "unknown",
		Environment: "development",
		CORS:        middleware.DefaultCORSConfig(),
	}
}

// ============================================
// Services
// ============================================

// Services - сервисы, которые обслуживает REST API.
// nil сервис означает, что его маршруты не регистрируются.
type Services struct {
	Deals          handlers.DealService
	Categories     handlers.CategoryService
	Comments       handlers.CommentService
	Advertisements handlers.AdvertisementService
	Payments       handlers.PaymentService
	Users          handlers.UserService
	Auth           handlers.AuthService
	Files          handlers.FileService
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder - builder для создания роутера.
type RouterBuilder struct {
	config   *RouterConfig
	services *Services
}

// NewRouterBuilder создаёт новый builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.L()
	}
	return &RouterBuilder{config: config, services: &Services{}}
}

// WithServices задаёт сервисы.
func (b *RouterBuilder) WithServices(services *Services) *RouterBuilder {
	if services != nil {
		b.services = services
	}
	return b
}

// Build создаёт сконфигурированный Gin Engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupValidator()

	// ============================================
	// Global Middleware
	// ============================================

	if b.config.Tracing {
		router.Use(otelgin.Middleware(b.config.ServiceName))
	}

	// Recovery - до всего, что может паниковать
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))
	router.Use(middleware.RequestID())

	corsConfig := b.config.CORS
	if corsConfig == nil {
		corsConfig = middleware.DefaultCORSConfig()
	}
	router.Use(middleware.CORS(corsConfig))

	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))
	router.Use(middleware.Metrics())

	if b.config.RateLimiter != nil {
		router.Use(b.config.RateLimiter.Handler())
	}

	// ============================================
	// Infrastructure Routes (no auth)
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.NewHealthHandler(
		b.config.Pool,
		b.config.Version,
		b.config.BuildTime,
		b.config.HealthChecks...,
	).RegisterRoutes(router)

	// ============================================
	// API Routes
	// ============================================

	s := b.services

	public := router.Group("/api")
	authenticated := public.Group("", b.authMiddleware())
	if lookup, ok := s.Users.(handlers.UserLookup); ok {
		authenticated.Use(middleware.ResolveUserID(func(ctx context.Context, email string) (uuid.UUID, error) {
			user, err := lookup.GetByEmail(ctx, email)
			if err != nil {
				return uuid.Nil, err
			}
			return user.ID, nil
		}))
	}
	admin := authenticated.Group("", middleware.RequireRole(middleware.RoleAdmin))

	if s.Deals != nil {
		handlers.NewDealHandler(s.Deals).RegisterRoutes(public, authenticated)
	}
	if s.Categories != nil {
		handlers.NewCategoryHandler(s.Categories).RegisterRoutes(public, admin)
	}
	if s.Comments != nil {
		handlers.NewCommentHandler(s.Comments).RegisterRoutes(public, authenticated)
	}
	if s.Advertisements != nil {
		handlers.NewAdvertisementHandler(s.Advertisements).RegisterRoutes(public, admin)
	}
	if s.Payments != nil {
		handlers.NewPaymentHandler(s.Payments).RegisterRoutes(public, authenticated, admin)
	}
	if s.Users != nil {
		handlers.NewUserHandler(s.Users).RegisterRoutes(public, authenticated, admin)
	}
	if s.Auth != nil {
		var lookup handlers.UserLookup
		if s.Users != nil {
			if l, ok := s.Users.(handlers.UserLookup); ok {
				lookup = l
			}
		}
		handlers.NewAuthHandler(s.Auth, lookup, b.config.Cookie).RegisterRoutes(public, authenticated)
	}
	if s.Files != nil {
		handlers.NewFileHandler(s.Files).RegisterRoutes(public, authenticated)
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, http.StatusNotFound, common.CodeRouteNotFound, c.Request.Method, c.Request.URL.Path)
	})

	return router
}

// authMiddleware возвращает Auth middleware или заглушку, отклоняющую все запросы.
func (b *RouterBuilder) authMiddleware() gin.HandlerFunc {
	if b.config.Verifier == nil {
		b.config.Logger.Warn("token verifier not configured, protected routes are disabled")
		return func(c *gin.Context) {
			common.Error(c, http.StatusUnauthorized, common.CodeUnauthenticated)
		}
	}
	return middleware.Auth(b.config.Verifier, b.config.Revocation, b.config.Logger)
}

// NewRouter создаёт роутер (для простых случаев).
func NewRouter(config *RouterConfig, services *Services) *gin.Engine {
	return NewRouterBuilder(config).WithServices(services).Build()
}
