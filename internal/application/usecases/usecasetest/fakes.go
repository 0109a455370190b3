// Package usecasetest содержит test doubles, общие для тестов use cases.
package usecasetest

import (
	"context"
	"sync"

	"github.com/Haleralex/paytogether/internal/domain/events"
)

// InlineUnitOfWork выполняет fn без транзакции.
type InlineUnitOfWork struct {
	Calls int
}

func (u *InlineUnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	u.Calls++
	return fn(ctx)
}

func (u *InlineUnitOfWork) ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	u.Calls++
	return fn(ctx)
}

// RecordingPublisher запоминает опубликованные события, группируя по типу.
type RecordingPublisher struct {
	mu           sync.Mutex
	published    []events.DomainEvent
	eventsByType map[string][]events.DomainEvent

	// Err, если задан, возвращается из Publish.
	Err error
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{eventsByType: make(map[string][]events.DomainEvent)}
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	p.eventsByType[event.EventType()] = append(p.eventsByType[event.EventType()], event)
	return nil
}

func (p *RecordingPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, event := range evts {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Events возвращает все опубликованные события.
func (p *RecordingPublisher) Events() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent{}, p.published...)
}

// EventsOfType возвращает события определённого типа.
func (p *RecordingPublisher) EventsOfType(eventType string) []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent{}, p.eventsByType[eventType]...)
}
