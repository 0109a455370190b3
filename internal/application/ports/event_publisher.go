// Package ports - публикация domain events.
//
// Pattern: Transactional Outbox
// - Use case пишет события через EventPublisher внутри транзакции (outbox)
// - Relay забирает PENDING события и отправляет их через EventSink (NATS)
package ports

import (
	"context"
	"time"

	"github.com/Haleralex/paytogether/internal/domain/events"
)

// EventPublisher определяет контракт для публикации domain events из use cases.
type EventPublisher interface {
	// Publish публикует одно событие.
	// Если ctx содержит транзакцию, событие сохраняется в ней.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch публикует несколько событий за один вызов.
	// Если одно событие не удаётся сохранить, вся batch проваливается.
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OutboxMessage - событие, сохранённое в outbox и ожидающее отправки.
type OutboxMessage struct {
	ID          string
	EventType   string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository - хранилище для Transactional Outbox Pattern.
type OutboxRepository interface {
	EventPublisher

	// FindUnpublished возвращает события в статусе PENDING (FOR UPDATE SKIP LOCKED).
	FindUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished помечает событие как опубликованное.
	MarkPublished(ctx context.Context, eventID string) error

	// MarkFailed помечает событие как failed после неудачной отправки.
	MarkFailed(ctx context.Context, eventID string, reason string) error

	// RequeueFailed возвращает failed события в PENDING, пока не исчерпан лимит попыток.
	RequeueFailed(ctx context.Context, maxRetries int) (int64, error)

	// CleanupPublished удаляет опубликованные события старше olderThan.
	CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error)
}

// EventSink доставляет сериализованные события во внешний брокер.
type EventSink interface {
	Send(ctx context.Context, msg OutboxMessage) error
	Close() error
}
