package validators

import (
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// Advertisement error codes.
const (
	CodeAdvertisementNull          = "publicite.null"
	CodeAdvertisementTitleRequired = "publicite.titre.obligatoire"
	CodeAdvertisementImageRequired = "publicite.image.obligatoire"
	CodeAdvertisementLinkInvalid   = "publicite.lien.invalide"
	CodeAdvertisementEndDate       = "publicite.dateFin.coherence"
	CodeAdvertisementNotFound      = "publicite.non.trouve"
)

// ValidateAdvertisement checks an advertisement before create or update.
func ValidateAdvertisement(a *entities.Advertisement) error {
	if a == nil {
		return errors.NewValidationError(CodeAdvertisementNull)
	}
	if err := firstViolation(
		check(a.Title, notBlank, CodeAdvertisementTitleRequired),
		check(a.ImageURL, notBlank, CodeAdvertisementImageRequired),
		check(a.LinkURL, is.RequestURL, CodeAdvertisementLinkInvalid),
	); err != nil {
		return err
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return errors.NewValidationError(CodeAdvertisementEndDate)
	}
	return nil
}
