// Package validators holds the explicit field checks run by services
// before anything reaches a provider.
//
// Each validator returns the first violation as a *errors.DomainError of
// kind Validation; the order of checks is part of the contract.
package validators

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// Maximum field lengths in characters. They mirror the column widths.
const (
	DealTitleMaxLength       = 255
	DealDescriptionMaxLength = 5000
	DealCityMaxLength        = 100
	DealCountryMaxLength     = 100
)

// Deal error codes.
const (
	CodeDealNull                 = "deal.null"
	CodeDealIDRequired           = "deal.uuid.obligatoire"
	CodeDealTitleRequired        = "deal.titre.obligatoire"
	CodeDealTitleLength          = "deal.titre.longueur"
	CodeDealCityLength           = "deal.ville.longueur"
	CodeDealCountryLength        = "deal.pays.longueur"
	CodeDealPriceRequired        = "deal.prixDeal.obligatoire"
	CodeDealPricePositive        = "deal.prixDeal.positif"
	CodeDealSharePriceRequired   = "deal.prixPart.obligatoire"
	CodeDealSharePricePositive   = "deal.prixPart.positif"
	CodeDealDescriptionLength    = "deal.description.longueur"
	CodeDealEndDateCoherence     = "deal.dateFin.coherence"
	CodeDealImagesRequired       = "deal.listeImages.obligatoire"
	CodeDealPrincipalMissing     = "deal.image.principale.manquante"
	CodeDealPrincipalNotUnique   = "deal.image.principale.unique"
	CodeDealImageURLRequired     = "deal.image.url.obligatoire"
	CodeDealStatusRequired       = "deal.statut.obligatoire"
	CodeDealStatusInvalid        = "deal.statut.invalide"
	CodeDealStatusExpiredLocked  = "deal.statut.expire.immuable"
	CodeDealStatusTransitionFail = "deal.statut.transition.invalide"
	CodeDealNotFound             = "deal.non.trouve"
	CodeDealHasPayments          = "deal.paiements.existants"
)

// allowedTransitions is the deal status table. EXPIRED is terminal.
var allowedTransitions = map[entities.DealStatus]entities.DealStatus{
	entities.DealStatusDraft:     entities.DealStatusPublished,
	entities.DealStatusPublished: entities.DealStatusExpired,
}

// ValidateDeal checks a deal before creation or full update.
func ValidateDeal(deal *entities.Deal) error {
	if deal == nil {
		return errors.NewValidationError(CodeDealNull)
	}
	if strings.TrimSpace(deal.Title) == "" {
		return errors.NewValidationError(CodeDealTitleRequired)
	}
	if err := checkLength(deal.Title, DealTitleMaxLength, CodeDealTitleLength); err != nil {
		return err
	}
	if deal.TotalPrice == nil {
		return errors.NewValidationError(CodeDealPriceRequired)
	}
	if deal.TotalPrice.IsNegative() {
		return errors.NewValidationError(CodeDealPricePositive)
	}
	if deal.SharePrice == nil {
		return errors.NewValidationError(CodeDealSharePriceRequired)
	}
	if deal.SharePrice.IsNegative() {
		return errors.NewValidationError(CodeDealSharePricePositive)
	}
	if err := checkDescription(deal.Description); err != nil {
		return err
	}
	if err := checkLocation(deal); err != nil {
		return err
	}
	if err := checkDates(deal); err != nil {
		return err
	}
	if len(deal.Images) == 0 {
		return errors.NewValidationError(CodeDealImagesRequired)
	}
	return nil
}

// ValidateDealImages runs the image list checks on their own.
func ValidateDealImages(deal *entities.Deal) error {
	if deal == nil {
		return errors.NewValidationError(CodeDealNull)
	}
	if len(deal.Images) == 0 {
		return errors.NewValidationError(CodeDealImagesRequired)
	}

	principals := 0
	for _, img := range deal.Images {
		if img.Principal {
			principals++
		}
	}
	switch {
	case principals == 0:
		return errors.NewValidationError(CodeDealPrincipalMissing)
	case principals > 1:
		return errors.NewValidationError(CodeDealPrincipalNotUnique)
	}

	for _, img := range deal.Images {
		if strings.TrimSpace(img.URL) == "" {
			return errors.NewValidationError(CodeDealImageURLRequired)
		}
	}
	return nil
}

// ValidateDealForPartialUpdate only checks the fields that are present.
// The id is always required.
func ValidateDealForPartialUpdate(deal *entities.Deal) error {
	if deal == nil {
		return errors.NewValidationError(CodeDealNull)
	}
	if deal.ID == uuid.Nil {
		return errors.NewValidationError(CodeDealIDRequired)
	}
	// An empty title means "absent"; a whitespace-only one is a blank value.
	if deal.Title != "" && strings.TrimSpace(deal.Title) == "" {
		return errors.NewValidationError(CodeDealTitleRequired)
	}
	if err := checkLength(deal.Title, DealTitleMaxLength, CodeDealTitleLength); err != nil {
		return err
	}
	if deal.TotalPrice != nil && deal.TotalPrice.IsNegative() {
		return errors.NewValidationError(CodeDealPricePositive)
	}
	if deal.SharePrice != nil && deal.SharePrice.IsNegative() {
		return errors.NewValidationError(CodeDealSharePricePositive)
	}
	if err := checkDescription(deal.Description); err != nil {
		return err
	}
	if err := checkLocation(deal); err != nil {
		return err
	}
	if err := checkDates(deal); err != nil {
		return err
	}
	if deal.Images != nil {
		if err := ValidateDealImages(deal); err != nil {
			return err
		}
	}
	if deal.Status != "" && !deal.Status.IsValid() {
		return errors.NewValidationError(CodeDealStatusInvalid)
	}
	return nil
}

// ValidateDealTransition checks a status change against the transition table.
// Re-applying the current status is accepted as a no-op.
func ValidateDealTransition(current, next entities.DealStatus) error {
	if next == "" {
		return errors.NewValidationError(CodeDealStatusRequired)
	}
	if !next.IsValid() {
		return errors.NewValidationError(CodeDealStatusInvalid)
	}
	if current == next {
		return nil
	}
	if current == entities.DealStatusExpired {
		return errors.NewValidationError(CodeDealStatusExpiredLocked)
	}
	if allowed, ok := allowedTransitions[current]; ok && allowed == next {
		return nil
	}
	return errors.NewValidationError(CodeDealStatusTransitionFail)
}

func checkDescription(description string) error {
	return checkLength(description, DealDescriptionMaxLength, CodeDealDescriptionLength)
}

func checkLocation(deal *entities.Deal) error {
	if err := checkLength(deal.City, DealCityMaxLength, CodeDealCityLength); err != nil {
		return err
	}
	return checkLength(deal.Country, DealCountryMaxLength, CodeDealCountryLength)
}

// checkLength counts characters, not bytes. The limit is the only param.
func checkLength(value string, limit int, code string) error {
	if utf8.RuneCountInString(value) > limit {
		return errors.NewValidationError(code, limit)
	}
	return nil
}

func checkDates(deal *entities.Deal) error {
	if deal.StartDate != nil && deal.EndDate != nil && deal.EndDate.Before(*deal.StartDate) {
		return errors.NewValidationError(CodeDealEndDateCoherence)
	}
	return nil
}
