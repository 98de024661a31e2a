// Package validation wraps validator/v10 and converts its field errors
// into the domain validation error the API envelopes.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// Validator validates tagged structs.
type Validator struct {
	v *validator.Validate
}

// New builds a validator that reports fields by their JSON names, so
// error details line up with the request body the client sent.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			return fld.Name
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks s against its validate tags. On failure it returns a
// domain validation error whose details map JSON field names to
// human-readable messages.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return domainerrors.ValidationWithDetails("validation failed", details)
}

// describe renders one field error as a short message fragment.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte", "gtefield":
		return "must be greater than or equal to " + fe.Param()
	case "lte", "ltefield":
		return "must be less than or equal to " + fe.Param()
	case "gt", "gtfield":
		return "must be greater than " + fe.Param()
	case "lt", "ltfield":
		return "must be less than " + fe.Param()
	default:
		return "is invalid"
	}
}
