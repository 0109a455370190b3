package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentDTO - платёж участника.
type PaymentDTO struct {
	ID                   string           `json:"uuid,omitempty"`
	DealID               string           `json:"dealUuid" binding:"omitempty,uuid"`
	UserID               string           `json:"utilisateurUuid,omitempty" binding:"omitempty,uuid"`
	Amount               *decimal.Decimal `json:"montant"`
	Method               string           `json:"methode"`
	Status               string           `json:"statut,omitempty"`
	TransactionReference string           `json:"referenceTransaction,omitempty"`
	CreatedAt            *time.Time       `json:"dateCreation,omitempty"`
	UpdatedAt            *time.Time       `json:"dateModification,omitempty"`
}
