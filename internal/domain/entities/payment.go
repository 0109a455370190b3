package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a participant pays their share.
type PaymentMethod string

const (
	PaymentMethodCard        PaymentMethod = "CARD"
	PaymentMethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentMethodTransfer    PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is valid.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodTransfer:
		return true
	default:
		return false
	}
}

// PaymentStatus represents the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// IsValid checks if the payment status is valid.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// Payment records a participant's contribution to a deal.
type Payment struct {
	ID                   uuid.UUID
	DealID               uuid.UUID
	UserID               uuid.UUID
	Amount               *decimal.Decimal
	Method               PaymentMethod
	Status               PaymentStatus
	TransactionReference string
	Audit
}
