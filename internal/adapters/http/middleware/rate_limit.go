// Package middleware - Rate Limiting middleware.
//
// Token bucket на ключ (пользователь или IP) поверх golang.org/x/time/rate.
// Состояние хранится в памяти процесса.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Haleralex/paytogether/internal/adapters/http/common"
)

// RateLimitConfig - конфигурация для rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond - скорость пополнения корзины
	RequestsPerSecond float64
	// Burst - размер корзины
	Burst int
	// IdleTTL - limiter без запросов дольше IdleTTL удаляется при очистке
	IdleTTL time.Duration
	// KeyFunc - ключ лимитирования; по умолчанию пользователь или IP
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// DefaultRateLimitConfig - конфигурация по умолчанию.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		IdleTTL:           10 * time.Minute,
		KeyFunc:           principalOrIP,
		Logger:            zap.L(),
	}
}

// principalOrIP - subject токена, если запрос аутентифицирован, иначе IP.
func principalOrIP(c *gin.Context) string {
	if p, ok := GetPrincipal(c); ok && p.Subject != "" {
		return "user:" + p.Subject
	}
	return "ip:" + c.ClientIP()
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter хранит limiter на каждый ключ.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	config   *RateLimitConfig
	now      func() time.Time
}

// NewRateLimiter создаёт rate limiter.
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.KeyFunc == nil {
		config.KeyFunc = principalOrIP
	}
	if config.Logger == nil {
		config.Logger = zap.L()
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		config:   config,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Cleanup удаляет limiters, которые не использовались дольше IdleTTL.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	cutoff := rl.now().Add(-rl.config.IdleTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Size возвращает количество отслеживаемых ключей.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Handler возвращает middleware. При превышении лимита - 429 с Retry-After.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.config.KeyFunc(c)
		limiter := rl.getLimiter(key)

		reservation := limiter.Reserve()
		if !reservation.OK() {
			rl.reject(c, key, time.Second)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			rl.reject(c, key, delay)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, key string, retryAfter time.Duration) {
	rl.config.Logger.Warn("rate limit exceeded",
		zap.String("key", key),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))
	common.Error(c, http.StatusTooManyRequests, common.CodeTooManyRequests)
}
