package validators

import (
	"github.com/shopspring/decimal"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// Payment error codes.
const (
	CodePaymentNull           = "paiement.null"
	CodePaymentDealRequired   = "paiement.deal.obligatoire"
	CodePaymentUserRequired   = "paiement.utilisateur.obligatoire"
	CodePaymentAmountRequired = "paiement.montant.obligatoire"
	CodePaymentAmountPositive = "paiement.montant.positif"
	CodePaymentMethodInvalid  = "paiement.methode.invalide"
	CodePaymentStatusInvalid  = "paiement.statut.invalide"
	CodePaymentNotFound       = "paiement.non.trouve"
	CodePaymentDealNotOpen    = "paiement.deal.non.publie"
)

// ValidatePayment checks a payment before create or update.
func ValidatePayment(p *entities.Payment) error {
	if p == nil {
		return errors.NewValidationError(CodePaymentNull)
	}
	return firstViolation(
		check(p.DealID, notNilUUID, CodePaymentDealRequired),
		check(p.UserID, notNilUUID, CodePaymentUserRequired),
		check(p.Amount, decimalPresent, CodePaymentAmountRequired),
		check(p.Amount, decimalGreaterThan(decimal.Zero), CodePaymentAmountPositive),
		check(p.Method, isValid(p.Method.IsValid), CodePaymentMethodInvalid),
		check(p.Status, isValid(p.Status.IsValid), CodePaymentStatusInvalid),
	)
}
