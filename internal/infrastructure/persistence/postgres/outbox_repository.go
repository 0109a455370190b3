// Package postgres - OutboxRepository для Transactional Outbox Pattern.
//
// Transactional Outbox Pattern:
// 1. В той же транзакции, что и бизнес-операция, сохраняем событие в outbox
// 2. Relay (worker.OutboxRelay) читает события и отправляет их в NATS
// 3. После отправки событие помечается как PUBLISHED
//
// Доставка at-least-once: consumers должны быть идемпотентны по event id.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/paytogether/internal/application/ports"
	"github.com/Haleralex/paytogether/internal/domain/events"
)

// Compile-time check
var _ ports.OutboxRepository = (*OutboxRepository)(nil)

// ErrOutboxEntryNotPending - событие не найдено или уже обработано.
var ErrOutboxEntryNotPending = errors.New("outbox entry not found or not pending")

// OutboxRepository реализует ports.OutboxRepository и ports.EventPublisher.
type OutboxRepository struct {
	db
	now func() time.Time
}

// NewOutboxRepository создаёт новый OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db{pool: pool}, now: time.Now}
}

// outboxPayload - JSON, который получает consumer.
type outboxPayload struct {
	EventID     uuid.UUID          `json:"eventId"`
	EventType   string             `json:"eventType"`
	AggregateID uuid.UUID          `json:"aggregateId"`
	OccurredAt  time.Time          `json:"occurredAt"`
	Data        events.DomainEvent `json:"data"`
}

// serializeEvent сериализует событие вместе с его метаданными.
func serializeEvent(event events.DomainEvent) ([]byte, error) {
	return json.Marshal(outboxPayload{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Data:        event,
	})
}

// aggregateType определяет тип агрегата по префиксу типа события ("deal.created" -> "Deal").
func aggregateType(eventType string) string {
	prefix, _, _ := strings.Cut(eventType, ".")
	switch prefix {
	case "deal":
		return "Deal"
	case "payment":
		return "Payment"
	case "user":
		return "User"
	default:
		return "Unknown"
	}
}

// Publish сохраняет событие в outbox.
// Должно выполняться в той же транзакции, что и бизнес-операция.
func (r *OutboxRepository) Publish(ctx context.Context, event events.DomainEvent) error {
	q := r.getQuerier(ctx)

	payload, err := serializeEvent(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO outbox (
			id, aggregate_type, aggregate_id, event_type, event_version, payload, status, created_at
		) VALUES ($1, $2, $3, $4, 1, $5, 'PENDING', $6)`,
		event.EventID(),
		aggregateType(event.EventType()),
		event.AggregateID(),
		event.EventType(),
		payload,
		event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// PublishBatch сохраняет несколько событий; первая ошибка прерывает batch.
func (r *OutboxRepository) PublishBatch(ctx context.Context, list []events.DomainEvent) error {
	for _, event := range list {
		if err := r.Publish(ctx, event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// FindUnpublished возвращает PENDING события в порядке создания.
// Внутри транзакции строки блокируются (FOR UPDATE SKIP LOCKED), поэтому
// несколько экземпляров relay не отправляют одно событие дважды.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx, `
		SELECT id, event_type, aggregate_id, payload, created_at
		FROM outbox
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unpublished events: %w", err)
	}

	return collect(rows, func(row rowScanner) (ports.OutboxMessage, error) {
		var (
			msg        ports.OutboxMessage
			id, aggID  uuid.UUID
			payload    []byte
			occurredAt time.Time
		)
		if err := row.Scan(&id, &msg.EventType, &aggID, &payload, &occurredAt); err != nil {
			return msg, err
		}
		msg.ID = id.String()
		msg.AggregateID = aggID.String()
		msg.Payload = payload
		msg.OccurredAt = occurredAt
		return msg, nil
	})
}

// MarkPublished помечает событие как опубликованное.
func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string) error {
	q := r.getQuerier(ctx)

	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	result, err := q.Exec(ctx, `
		UPDATE outbox
		SET status = 'PUBLISHED', published_at = $2
		WHERE id = $1 AND status = 'PENDING'`, id, r.now())
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOutboxEntryNotPending
	}
	return nil
}

// MarkFailed помечает событие как FAILED и увеличивает счётчик попыток.
func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID string, reason string) error {
	q := r.getQuerier(ctx)

	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	_, err = q.Exec(ctx, `
		UPDATE outbox
		SET status = 'FAILED',
			failed_at = $2,
			last_error = $3,
			retry_count = retry_count + 1
		WHERE id = $1`, id, r.now(), reason)
	if err != nil {
		return fmt.Errorf("failed to mark event as failed: %w", err)
	}
	return nil
}

// RequeueFailed возвращает FAILED события в PENDING, пока retry_count < maxRetries.
func (r *OutboxRepository) RequeueFailed(ctx context.Context, maxRetries int) (int64, error) {
	q := r.getQuerier(ctx)

	result, err := q.Exec(ctx, `
		UPDATE outbox
		SET status = 'PENDING', failed_at = NULL
		WHERE status = 'FAILED' AND retry_count < $1`, maxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue failed events: %w", err)
	}
	return result.RowsAffected(), nil
}

// CleanupPublished удаляет опубликованные события старше olderThan.
func (r *OutboxRepository) CleanupPublished(ctx context.Context, olderThan time.Duration) (int64, error) {
	q := r.getQuerier(ctx)

	result, err := q.Exec(ctx, `
		DELETE FROM outbox
		WHERE status = 'PUBLISHED' AND published_at < $1`, r.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup published events: %w", err)
	}
	return result.RowsAffected(), nil
}
