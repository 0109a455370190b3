package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSentinelErrors tests that all sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{ErrEntityNotFound, ErrEntityAlreadyExists} {
		require.NotNil(t, err)
		assert.NotEmpty(t, err.Error())
	}
}

func TestConstructors_Kind(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		kind Kind
	}{
		{"validation", NewValidationError("deal.null"), KindValidation},
		{"not found", NewNotFoundError("deal.non.trouve"), KindNotFound},
		{"duplicate", NewDuplicateError("utilisateur.email.existe", "a@b.c"), KindDuplicate},
		{"forbidden", NewForbiddenError("deal.statut.expire.immuable"), KindForbidden},
		{"file storage", NewFileStorageError(errors.New("boom"), "fichier.stockage.erreur"), KindFileStorage},
		{"unauthorized", NewUnauthorizedError("auth.non.authentifie"), KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.NotNil(t, tt.err.Params)
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestDomainError_Error(t *testing.T) {
	err := NewValidationError("deal.description.longueur", 5000)
	assert.Equal(t, "validation: deal.description.longueur [5000]", err.Error())

	wrapped := NewFileStorageError(errors.New("connection refused"), "fichier.stockage.erreur")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("update deal: %w", NewValidationError("deal.titre.obligatoire"))

	assert.True(t, errors.Is(err, NewValidationError("deal.titre.obligatoire")))
	assert.False(t, errors.Is(err, NewValidationError("deal.null")))
	assert.False(t, errors.Is(err, NewForbiddenError("deal.titre.obligatoire")))
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("minio down")
	err := NewFileStorageError(cause, "fichier.stockage.erreur")

	assert.True(t, errors.Is(err, cause))
}

func TestAsForbidden(t *testing.T) {
	original := NewValidationError("deal.statut.expire.immuable")

	converted := AsForbidden(fmt.Errorf("wrap: %w", original))

	de, ok := As(converted)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, de.Kind)
	assert.Equal(t, "deal.statut.expire.immuable", de.Code)

	plain := errors.New("plain")
	assert.Equal(t, plain, AsForbidden(plain))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(ErrEntityNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NewNotFoundError("deal.non.trouve"))))
	assert.True(t, IsDuplicate(ErrEntityAlreadyExists))
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.True(t, IsForbidden(NewForbiddenError("x")))
	assert.True(t, IsFileStorage(NewFileStorageError(nil, "x")))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("x")))

	assert.False(t, IsNotFound(errors.New("other")))
	assert.Equal(t, "", CodeOf(errors.New("other")))
	assert.Equal(t, "x", CodeOf(NewForbiddenError("x")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
