// Package validation checks request payloads against their `validate` struct
// tags and reports failures as common.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError describes one rejected field, named by its json tag.
type FieldError struct {
	Field   string
	Message string
}

// Error is returned by Struct. It matches common.ErrValidation with errors.Is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error { return common.ErrValidation }

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		// max counts runes; bcrypt cares about bytes.
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			var limit int
			if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
		_ = validate.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == strings.TrimSpace(s)
		})
	})
	return validate
}

// Struct validates s. A nil return means every rule passed.
func Struct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, e := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// Invalid builds a single-field validation error.
func Invalid(field, msg string) error {
	return &Error{Fields: []FieldError{{Field: field, Message: msg}}}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "maxbytes":
		return "must be at most " + e.Param() + " bytes"
	case "trimmed":
		return "must not start or end with whitespace"
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
