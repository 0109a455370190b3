package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestBaseEvent tests base event functionality
func TestBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	event := newBaseEvent("test.event", aggregateID)

	if event.EventID() == uuid.Nil {
		t.Error("EventID should not be nil")
	}
	if event.EventType() != "test.event" {
		t.Errorf("EventType = %q, want %q", event.EventType(), "test.event")
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("AggregateID = %v, want %v", event.AggregateID(), aggregateID)
	}
	if time.Since(event.OccurredAt()) > time.Second {
		t.Error("OccurredAt should be recent")
	}
}

func TestEventConstructors(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name  string
		event DomainEvent
		want  string
	}{
		{"deal created", NewDealCreated(id, "Deal", uuid.New(), uuid.New(), "DRAFT"), EventTypeDealCreated},
		{"deal status changed", NewDealStatusChanged(id, "DRAFT", "PUBLISHED"), EventTypeDealStatusChanged},
		{"payment created", NewPaymentCreated(id, uuid.New(), uuid.New(), "25.00", "CARD"), EventTypePaymentCreated},
		{"user registered", NewUserRegistered(id, "a@b.cm"), EventTypeUserRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.EventType() != tt.want {
				t.Errorf("EventType = %q, want %q", tt.event.EventType(), tt.want)
			}
			if tt.event.AggregateID() != id {
				t.Errorf("AggregateID = %v, want %v", tt.event.AggregateID(), id)
			}
		})
	}
}

func TestDealStatusChanged_Fields(t *testing.T) {
	e := NewDealStatusChanged(uuid.New(), "PUBLISHED", "EXPIRED")
	if e.From != "PUBLISHED" || e.To != "EXPIRED" {
		t.Errorf("got %s -> %s", e.From, e.To)
	}
}
