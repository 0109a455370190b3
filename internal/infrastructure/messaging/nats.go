// Package messaging доставляет события из outbox во внешний брокер.
package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

// DefaultSubjectPrefix - события публикуются в "<prefix>.<event type>".
const DefaultSubjectPrefix = "paytogether"

// Заголовки сообщения.
const (
	HeaderMsgID       = nats.MsgIdHdr
	HeaderEventType   = "Event-Type"
	HeaderAggregateID = "Aggregate-Id"
	HeaderOccurredAt  = "Occurred-At"
)

// publisher - часть *nats.Conn, нужная NatsSink.
type publisher interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

var _ ports.EventSink = (*NatsSink)(nil)

// NatsSink публикует сообщения outbox в NATS.
type NatsSink struct {
	conn   publisher
	prefix string
}

// Connect подключается к NATS с бесконечным переподключением.
func Connect(url, clientName string, logger *zap.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// NewNatsSink создаёт sink поверх соединения.
func NewNatsSink(conn *nats.Conn, prefix string) *NatsSink {
	return newNatsSink(conn, prefix)
}

func newNatsSink(conn publisher, prefix string) *NatsSink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NatsSink{conn: conn, prefix: prefix}
}

// Subject возвращает subject для типа события.
func (s *NatsSink) Subject(eventType string) string {
	return s.prefix + "." + eventType
}

// Send публикует сообщение и ждёт подтверждения от сервера (flush),
// чтобы relay помечал событие опубликованным только после доставки.
func (s *NatsSink) Send(ctx context.Context, msg ports.OutboxMessage) error {
	m := nats.NewMsg(s.Subject(msg.EventType))
	m.Data = msg.Payload
	m.Header.Set(HeaderMsgID, msg.ID)
	m.Header.Set(HeaderEventType, msg.EventType)
	m.Header.Set(HeaderAggregateID, msg.AggregateID)
	m.Header.Set(HeaderOccurredAt, msg.OccurredAt.UTC().Format(time.RFC3339Nano))

	if err := s.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.EventType, err)
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush %s: %w", msg.EventType, err)
	}
	return nil
}

// Close дожидается отправки буфера и закрывает соединение.
func (s *NatsSink) Close() error {
	return s.conn.Drain()
}

// ============================================
// Noop sink
// ============================================

var _ ports.EventSink = (*LogSink)(nil)

// LogSink только пишет события в лог. Используется, когда брокер не настроен.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink создаёт LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send логирует событие.
func (s *LogSink) Send(_ context.Context, msg ports.OutboxMessage) error {
	s.logger.Debug("event dispatched",
		zap.String("event_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
	)
	return nil
}

// Close ничего не делает.
func (s *LogSink) Close() error { return nil }
