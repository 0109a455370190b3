package validators

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Haleralex/paytogether/internal/domain/entities"
	"github.com/Haleralex/paytogether/internal/domain/errors"
)

const CommentContentMaxLength = 2000

// Comment error codes.
const (
	CodeCommentNull            = "commentaire.null"
	CodeCommentDealRequired    = "commentaire.deal.obligatoire"
	CodeCommentAuthorRequired  = "commentaire.auteur.obligatoire"
	CodeCommentContentRequired = "commentaire.contenu.obligatoire"
	CodeCommentContentLength   = "commentaire.contenu.longueur"
	CodeCommentNotFound        = "commentaire.non.trouve"
	CodeCommentParentMismatch  = "commentaire.parent.incoherent"
)

// ValidateComment checks a comment before create or update.
func ValidateComment(c *entities.Comment) error {
	if c == nil {
		return errors.NewValidationError(CodeCommentNull)
	}
	return firstViolation(
		check(c.DealID, notNilUUID, CodeCommentDealRequired),
		check(c.AuthorID, notNilUUID, CodeCommentAuthorRequired),
		check(c.Content, notBlank, CodeCommentContentRequired),
		check(c.Content, validation.RuneLength(0, CommentContentMaxLength), CodeCommentContentLength, CommentContentMaxLength),
	)
}
