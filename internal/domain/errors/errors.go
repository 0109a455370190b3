// Package errors defines domain-specific error types.
//
// Every error the HTTP layer can translate carries a machine-readable code
// (e.g. "deal.titre.obligatoire") plus positional parameters, so the frontend
// can build a localized message. The Kind decides the HTTP status.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors returned by repositories.
var (
	ErrEntityNotFound      = errors.New("entity not found")
	ErrEntityAlreadyExists = errors.New("entity already exists")
)

// Kind classifies a DomainError.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindDuplicate
	KindForbidden
	KindFileStorage
	KindUnauthorized
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindForbidden:
		return "forbidden"
	case KindFileStorage:
		return "file_storage"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// DomainError is the single error type surfaced to the HTTP boundary.
type DomainError struct {
	Kind   Kind   // Determines the HTTP status
	Code   string // Machine-readable error code (e.g., "deal.non.trouve")
	Params []any  // Positional parameters for client-side translation
	Err    error  // Underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Code)
	if len(e.Params) > 0 {
		fmt.Fprintf(&b, " %v", e.Params)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another *DomainError with the same kind and code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

func newDomainError(kind Kind, code string, params []any) *DomainError {
	if params == nil {
		params = []any{}
	}
	return &DomainError{Kind: kind, Code: code, Params: params}
}

// NewValidationError creates a validation failure (HTTP 400).
func NewValidationError(code string, params ...any) *DomainError {
	return newDomainError(KindValidation, code, params)
}

// NewNotFoundError creates a resource-not-found error (HTTP 404).
func NewNotFoundError(code string, params ...any) *DomainError {
	return newDomainError(KindNotFound, code, params)
}

// NewDuplicateError creates a duplicate-resource error (HTTP 409).
func NewDuplicateError(code string, params ...any) *DomainError {
	return newDomainError(KindDuplicate, code, params)
}

// NewForbiddenError creates a forbidden-operation error (HTTP 403).
func NewForbiddenError(code string, params ...any) *DomainError {
	return newDomainError(KindForbidden, code, params)
}

// NewFileStorageError wraps an object-storage failure (HTTP 500).
func NewFileStorageError(err error, code string, params ...any) *DomainError {
	e := newDomainError(KindFileStorage, code, params)
	e.Err = err
	return e
}

// NewUnauthorizedError creates an authentication failure (HTTP 401).
func NewUnauthorizedError(code string, params ...any) *DomainError {
	return newDomainError(KindUnauthorized, code, params)
}

// AsForbidden re-labels a domain error as forbidden, keeping its code and params.
// Used when a rule violation is detected at a service boundary.
func AsForbidden(err error) error {
	de, ok := As(err)
	if !ok {
		return err
	}
	return &DomainError{Kind: KindForbidden, Code: de.Code, Params: de.Params, Err: de.Err}
}

// As extracts a *DomainError from the chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of the first DomainError in the chain, or 0.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return 0
}

// CodeOf returns the code of the first DomainError in the chain, or "".
func CodeOf(err error) string {
	if de, ok := As(err); ok {
		return de.Code
	}
	return ""
}

// Helper functions for common error checking

// IsNotFound checks for either the repository sentinel or a not-found DomainError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound) || KindOf(err) == KindNotFound
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsDuplicate checks for either the repository sentinel or a duplicate DomainError.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrEntityAlreadyExists) || KindOf(err) == KindDuplicate
}

// IsForbidden checks if an error is a forbidden-operation error.
func IsForbidden(err error) bool {
	return KindOf(err) == KindForbidden
}

// IsUnauthorized checks if an error is an authentication failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsFileStorage checks if an error is an object-storage error.
func IsFileStorage(err error) bool {
	return KindOf(err) == KindFileStorage
}
