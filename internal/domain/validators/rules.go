package validators

import (
	stderrors "errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/paytogether/internal/domain/errors"
)

// fieldRule binds one ozzo rule to the code reported when it fails.
type fieldRule struct {
	value  interface{}
	rule   validation.Rule
	code   string
	params []any
}

func check(value interface{}, rule validation.Rule, code string, params ...any) fieldRule {
	return fieldRule{value: value, rule: rule, code: code, params: params}
}

// firstViolation runs the rules in order and stops at the first failure.
func firstViolation(rules ...fieldRule) error {
	for _, r := range rules {
		err := validation.Validate(r.value, r.rule)
		if err == nil {
			continue
		}
		var internal validation.InternalError
		if stderrors.As(err, &internal) {
			return err
		}
		return errors.NewValidationError(r.code, r.params...)
	}
	return nil
}

var (
	// notBlank rejects empty and whitespace-only strings.
	notBlank = validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.ErrRequired
		}
		return nil
	})

	// notNilUUID rejects uuid.Nil; ozzo's Required treats [16]byte as non-empty.
	notNilUUID = validation.By(func(value interface{}) error {
		if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
			return validation.ErrRequired
		}
		return nil
	})

	// decimalPresent rejects a nil *decimal.Decimal.
	decimalPresent = validation.By(func(value interface{}) error {
		if d, ok := value.(*decimal.Decimal); !ok || d == nil {
			return validation.ErrNil
		}
		return nil
	})
)

// decimalGreaterThan accepts nil so that presence is checked separately.
func decimalGreaterThan(min decimal.Decimal) validation.Rule {
	return validation.By(func(value interface{}) error {
		d, _ := value.(*decimal.Decimal)
		if d != nil && !d.GreaterThan(min) {
			return validation.ErrMinGreaterThanRequired
		}
		return nil
	})
}

// isValid adapts the IsValid method of the domain enums.
func isValid(valid func() bool) validation.Rule {
	return validation.By(func(interface{}) error {
		if !valid() {
			return validation.ErrInInvalid
		}
		return nil
	})
}
