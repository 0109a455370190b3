package validators

import (
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// User error codes.
const (
	CodeUserNull              = "utilisateur.null"
	CodeUserEmailRequired     = "utilisateur.email.obligatoire"
	CodeUserEmailInvalid      = "utilisateur.email.invalide"
	CodeUserFirstNameRequired = "utilisateur.prenom.obligatoire"
	CodeUserLastNameRequired  = "utilisateur.nom.obligatoire"
	CodeUserRoleInvalid       = "utilisateur.role.invalide"
	CodeUserEmailExists       = "utilisateur.email.existe"
	CodeUserNotFound          = "utilisateur.non.trouve"
)

// ValidateUser checks a user profile before registration or update.
func ValidateUser(u *entities.User) error {
	if u == nil {
		return errors.NewValidationError(CodeUserNull)
	}
	return firstViolation(
		check(u.Email, notBlank, CodeUserEmailRequired),
		check(u.Email, is.EmailFormat, CodeUserEmailInvalid),
		check(u.FirstName, notBlank, CodeUserFirstNameRequired),
		check(u.LastName, notBlank, CodeUserLastNameRequired),
		check(u.Role, isValid(u.Role.IsValid), CodeUserRoleInvalid),
	)
}
