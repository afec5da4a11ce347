// Package forms turns declarative field rules and explicit cross-field
// checks into structured per-field errors the templates can render
// inline. Nothing here touches the network: a form that fails validation
// is rejected before any request is issued.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError ties a message to the submitted field it concerns.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the structured validation result for one submitted form.
type Errors []FieldError

// Add appends a field error.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Any reports whether validation failed.
func (e Errors) Any() bool { return len(e) > 0 }

// Get returns the first message recorded for field, or "".
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool { return e.Get(field) != "" }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors against the submitted field names, not the Go ones.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's declarative rules and maps any violations
// to field errors.
func Validate(v any) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "", Message: "invalid input"}}
	}

	var errs Errors
	for _, fe := range violations {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	default:
		return "Invalid value"
	}
}
