// Package events defines domain events published after state changes.
// Events are immutable facts; consumers subscribe on the broker.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID // ID of the entity that raised this event
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
}

func newBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now().UTC(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.eventID
}

func (e BaseEvent) EventType() string {
	return e.eventType
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

// Event Types
const (
	EventTypeDealCreated       = "deal.created"
	EventTypeDealStatusChanged = "deal.status.changed"
	EventTypePaymentCreated    = "payment.created"
	EventTypeUserRegistered    = "user.registered"
)

// DealCreated is raised when a deal is stored for the first time.
type DealCreated struct {
	BaseEvent
	Title      string    `json:"titre"`
	CreatorID  uuid.UUID `json:"createurUuid"`
	CategoryID uuid.UUID `json:"categorieUuid"`
	Status     string    `json:"statut"`
}

func NewDealCreated(dealID uuid.UUID, title string, creatorID, categoryID uuid.UUID, status string) *DealCreated {
	return &DealCreated{
		BaseEvent:  newBaseEvent(EventTypeDealCreated, dealID),
		Title:      title,
		CreatorID:  creatorID,
		CategoryID: categoryID,
		Status:     status,
	}
}

// DealStatusChanged is raised after a successful status transition.
// Consumers use it to notify participants when a deal is published or expires.
type DealStatusChanged struct {
	BaseEvent
	From string `json:"ancienStatut"`
	To   string `json:"nouveauStatut"`
}

func NewDealStatusChanged(dealID uuid.UUID, from, to string) *DealStatusChanged {
	return &DealStatusChanged{
		BaseEvent: newBaseEvent(EventTypeDealStatusChanged, dealID),
		From:      from,
		To:        to,
	}
}

// PaymentCreated is raised when a participant pays a share.
type PaymentCreated struct {
	BaseEvent
	DealID uuid.UUID `json:"dealUuid"`
	UserID uuid.UUID `json:"utilisateurUuid"`
	Amount string    `json:"montant"`
	Method string    `json:"methode"`
}

func NewPaymentCreated(paymentID, dealID, userID uuid.UUID, amount, method string) *PaymentCreated {
	return &PaymentCreated{
		BaseEvent: newBaseEvent(EventTypePaymentCreated, paymentID),
		DealID:    dealID,
		UserID:    userID,
		Amount:    amount,
		Method:    method,
	}
}

// UserRegistered is raised once both the identity account and the local profile exist.
type UserRegistered struct {
	BaseEvent
	Email string `json:"email"`
}

func NewUserRegistered(userID uuid.UUID, email string) *UserRegistered {
	return &UserRegistered{
		BaseEvent: newBaseEvent(EventTypeUserRegistered, userID),
		Email:     email,
	}
}
