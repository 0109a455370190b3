// Package handlers - Health check handlers.
//
// Два типа health checks:
// - Liveness: процесс жив (если нет - restart)
// - Readiness: зависимости доступны (если нет - no traffic)
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/paytogether/internal/adapters/http/middleware"
)

// ============================================
// Health Check Handler
// ============================================

// HealthCheck - проверка одной зависимости (database, redis, storage, ...).
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы.
type HealthHandler struct {
	checks    []HealthCheck
	pool      *pgxpool.Pool
	version   string
	buildTime string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler создаёт HealthHandler. pool (может быть nil) используется
// только для статистики соединений в /health/detailed.
func NewHealthHandler(pool *pgxpool.Pool, version, buildTime string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		pool:      pool,
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		timeout:   2 * time.Second,
	}
}

// ============================================
// Response Types
// ============================================

// HealthResponse - ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"` // "healthy", "unhealthy"
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessResponse - ответ readiness check.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// ============================================
// HTTP Handlers
// ============================================

// Health возвращает базовый health статус.
//
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    h.uptime(),
		Timestamp: time.Now().UTC(),
	})
}

// Ready проверяет все зависимости; 503 если хотя бы одна недоступна.
//
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks, allReady := h.runChecks(c.Request.Context(), true)

	statusCode := http.StatusOK
	if !allReady {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadinessResponse{
		Ready:     allReady,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// Live возвращает статус "живости" приложения.
//
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// DetailedHealth возвращает проверки и статистику пула соединений.
//
// @Router /health/detailed [get]
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	checks, healthy := h.runChecks(c.Request.Context(), false)

	if h.pool != nil {
		stats := h.pool.Stat()
		checks["db_total_conns"] = strconv.Itoa(int(stats.TotalConns()))
		checks["db_idle_conns"] = strconv.Itoa(int(stats.IdleConns()))
		checks["db_acquired_conns"] = strconv.Itoa(int(stats.AcquiredConns()))

		middleware.UpdateDBConnections(stats.IdleConns(), stats.AcquiredConns(), stats.MaxConns())
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    h.uptime(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// runChecks выполняет проверки; withCause добавляет текст ошибки в ответ.
func (h *HealthHandler) runChecks(ctx context.Context, withCause bool) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ok := true
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			ok = false
			if withCause {
				results[check.Name] = "unhealthy: " + err.Error()
			} else {
				results[check.Name] = "unhealthy"
			}
			continue
		}
		results[check.Name] = "healthy"
	}
	return results, ok
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startTime).Round(time.Second).String()
}

// RegisterRoutes регистрирует health check маршруты.
//
// Routes:
// - GET /health          - Basic health check
// - GET /health/detailed - Detailed health with metrics
// - GET /ready           - Readiness probe
// - GET /live            - Liveness probe
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.DetailedHealth)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}
