// Package validation turns go-playground/validator struct tags into the
// field-level error detail carried by apperr.Validation.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so clients see the keys they sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Struct validates obj against its `validate` tags and returns nil when it
// passes.
func Struct(obj any) []FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	// Non-struct values carry no rules.
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error(), Type: "invalid"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Type:    fe.Tag(),
		})
	}
	return out
}

// Check validates obj and returns an *apperr.Error of kind Validation, or nil.
func Check(obj any) error {
	fields := Struct(obj)
	if fields == nil {
		return nil
	}
	return apperr.Validation("Validation failed", Group(fields))
}

// Group folds field errors into the field → messages map used on the wire.
func Group(fields []FieldError) map[string][]string {
	out := make(map[string][]string, len(fields))
	for _, f := range fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if err.Kind() == reflect.String {
			return "Must be at least " + err.Param() + " characters"
		}
		return "Must be at least " + err.Param()
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + err.Param()
	case "gte":
		return "Value must be greater than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "dive":
		return "Invalid item"
	default:
		return "Invalid value"
	}
}
