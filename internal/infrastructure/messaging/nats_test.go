package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
)

type fakeConn struct {
	published []*nats.Msg
	flushed   int
	drained   bool
	err       error
}

func (f *fakeConn) PublishMsg(msg *nats.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed++
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func testMessage() ports.OutboxMessage {
	return ports.OutboxMessage{
		ID:          "6f1c2a8e-0000-4000-8000-000000000001",
		EventType:   "deal.created",
		AggregateID: "6f1c2a8e-0000-4000-8000-000000000002",
		Payload:     []byte(`{"eventType":"deal.created"}`),
		OccurredAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNatsSink_Send(t *testing.T) {
	conn := &fakeConn{}
	sink := newNatsSink(conn, "")

	require.NoError(t, sink.Send(context.Background(), testMessage()))

	require.Len(t, conn.published, 1)
	msg := conn.published[0]
	assert.Equal(t, "paytogether.deal.created", msg.Subject)
	assert.JSONEq(t, `{"eventType":"deal.created"}`, string(msg.Data))
	assert.Equal(t, testMessage().ID, msg.Header.Get(HeaderMsgID))
	assert.Equal(t, "deal.created", msg.Header.Get(HeaderEventType))
	assert.Equal(t, "2026-02-01T10:00:00Z", msg.Header.Get(HeaderOccurredAt))
	assert.Equal(t, 1, conn.flushed)
}

func TestNatsSink_SendError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	sink := newNatsSink(conn, "events")

	err := sink.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "connection closed")
	assert.Zero(t, conn.flushed)
}

func TestNatsSink_SubjectAndClose(t *testing.T) {
	conn := &fakeConn{}
	sink := newNatsSink(conn, "events")

	assert.Equal(t, "events.payment.created", sink.Subject("payment.created"))
	require.NoError(t, sink.Close())
	assert.True(t, conn.drained)
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(zap.NewNop())
	assert.NoError(t, sink.Send(context.Background(), testMessage()))
	assert.NoError(t, sink.Close())
}
