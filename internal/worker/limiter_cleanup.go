package worker

import (
	"context"

	"go.uber.org/zap"
)

// limiterStore - хранилище rate limiters (middleware.RateLimiter).
type limiterStore interface {
	Cleanup() int
	Size() int
}

// LimiterCleanup удаляет rate limiters неактивных клиентов.
type LimiterCleanup struct {
	limiters limiterStore
	logger   *zap.Logger
}

// NewLimiterCleanup создаёт задачу.
func NewLimiterCleanup(limiters limiterStore, logger *zap.Logger) *LimiterCleanup {
	return &LimiterCleanup{limiters: limiters, logger: logger}
}

func (j *LimiterCleanup) Name() string { return "rate-limiter-cleanup" }

func (j *LimiterCleanup) Run(context.Context) error {
	if removed := j.limiters.Cleanup(); removed > 0 {
		j.logger.Debug("idle rate limiters removed",
			zap.Int("removed", removed),
			zap.Int("remaining", j.limiters.Size()),
		)
	}
	return nil
}
