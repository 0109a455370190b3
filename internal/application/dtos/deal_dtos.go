// Package dtos определяет Data Transfer Objects и мапперы DTO <-> domain model.
//
// JSON-имена полей совпадают с контрактом фронтенда (titre, prixDeal, ...).
// Один DTO используется и для запроса, и для ответа: поля, отсутствующие в
// запросе, остаются нулевыми и трактуются сервисом как "не передано".
package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealDTO - представление deal для API.
type DealDTO struct {
	ID               string           `json:"uuid,omitempty"`
	Title            string           `json:"titre"`
	Description      string           `json:"description,omitempty"`
	TotalPrice       *decimal.Decimal `json:"prixDeal"`
	SharePrice       *decimal.Decimal `json:"prixPart"`
	ParticipantCount int              `json:"nbParticipants" binding:"min=0"`
	StartDate        *time.Time       `json:"dateDebut,omitempty"`
	EndDate          *time.Time       `json:"dateFin,omitempty"`
	Status           string           `json:"statut,omitempty" binding:"omitempty,deal_status"`
	CreatorID        string           `json:"createurUuid,omitempty" binding:"omitempty,uuid"`
	CategoryID       string           `json:"categorieUuid,omitempty" binding:"omitempty,uuid"`
	Images           []DealImageDTO   `json:"listeImages" binding:"omitempty,dive"`
	Highlights       []string         `json:"listePointsForts,omitempty"`
	ExpirationDate   *time.Time       `json:"dateExpiration,omitempty"`
	City             string           `json:"ville,omitempty"`
	Country          string           `json:"pays,omitempty"`
	CreatedAt        *time.Time       `json:"dateCreation,omitempty"`
	UpdatedAt        *time.Time       `json:"dateModification,omitempty"`
}

// DealImageDTO - изображение deal.
type DealImageDTO struct {
	ID        string `json:"uuid,omitempty"`
	URL       string `json:"urlImage"`
	Principal bool   `json:"isPrincipal"`
	Status    string `json:"statut,omitempty" binding:"omitempty,oneof=PENDING UPLOADED FAILED"`
}

// DealStatusDTO - тело PATCH /api/deals/{id}/statut.
type DealStatusDTO struct {
	Status string `json:"statut"`
}
