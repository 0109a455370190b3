package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

// OutboxRelayConfig - параметры доставки событий.
type OutboxRelayConfig struct {
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// OutboxRelay пересылает PENDING события из outbox в EventSink.
type OutboxRelay struct {
	outbox ports.OutboxRepository
	uow    ports.UnitOfWork
	sink   ports.EventSink
	cfg    OutboxRelayConfig
	logger *zap.Logger
}

// NewOutboxRelay создаёт задачу.
func NewOutboxRelay(outbox ports.OutboxRepository, uow ports.UnitOfWork, sink ports.EventSink, cfg OutboxRelayConfig, logger *zap.Logger) *OutboxRelay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	return &OutboxRelay{outbox: outbox, uow: uow, sink: sink, cfg: cfg, logger: logger}
}

func (r *OutboxRelay) Name() string { return "outbox-relay" }

// Run выполняет один цикл: повторная постановка FAILED, доставка batch, очистка старых.
func (r *OutboxRelay) Run(ctx context.Context) error {
	requeued, err := r.outbox.RequeueFailed(ctx, r.cfg.MaxRetries)
	if err != nil {
		return err
	}

	var sent, failed int
	// Строки заблокированы до конца транзакции, пока идёт отправка.
	err = r.uow.Execute(ctx, func(txCtx context.Context) error {
		messages, err := r.outbox.FindUnpublished(txCtx, r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, msg := range messages {
			if err := r.sink.Send(txCtx, msg); err != nil {
				failed++
				r.logger.Warn("event delivery failed",
					zap.String("event_id", msg.ID),
					zap.String("event_type", msg.EventType),
					zap.Error(err),
				)
				if err := r.outbox.MarkFailed(txCtx, msg.ID, err.Error()); err != nil {
					return err
				}
				continue
			}
			if err := r.outbox.MarkPublished(txCtx, msg.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("outbox relay: %w", err)
	}

	cleaned, err := r.outbox.CleanupPublished(ctx, r.cfg.Retention)
	if err != nil {
		return err
	}

	if sent+failed > 0 || requeued > 0 || cleaned > 0 {
		r.logger.Info("outbox relay cycle",
			zap.Int("sent", sent),
			zap.Int("failed", failed),
			zap.Int64("requeued", requeued),
			zap.Int64("cleaned", cleaned),
		)
	}
	return nil
}
