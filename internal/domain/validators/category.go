package validators

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

const (
	CategoryNameMaxLength        = 100
	CategoryDescriptionMaxLength = 500
)

// Category error codes.
const (
	CodeCategoryNull              = "categorie.null"
	CodeCategoryNameRequired      = "categorie.nom.obligatoire"
	CodeCategoryNameLength        = "categorie.nom.longueur"
	CodeCategoryDescriptionLength = "categorie.description.longueur"
	CodeCategoryNameExists        = "categorie.nom.existe"
	CodeCategoryNotFound          = "categorie.non.trouve"
)

// ValidateCategory checks a category before create or update.
func ValidateCategory(c *entities.Category) error {
	if c == nil {
		return errors.NewValidationError(CodeCategoryNull)
	}
	return firstViolation(
		check(c.Name, notBlank, CodeCategoryNameRequired),
		check(c.Name, validation.RuneLength(0, CategoryNameMaxLength), CodeCategoryNameLength, CategoryNameMaxLength),
		check(c.Description, validation.RuneLength(0, CategoryDescriptionMaxLength), CodeCategoryDescriptionLength, CategoryDescriptionMaxLength),
	)
}
