package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/collection/errors"
)

// Validator collects parameter violations for checks that struct tags
// cannot express, such as relations between two parameters.
type Validator struct {
	op     string
	errors []FieldError
}

// FieldError represents a validation error for a specific parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a Validator for the named operation.
func New(op string) *Validator {
	return &Validator{
		op:     op,
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns a configuration error if there are validation errors, nil otherwise.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return errors.Configuration(v.op, strings.Join(messages, "; ")).
		WithDetail("fields", v.errors)
}

// NonNegative validates that value is zero or more.
func (v *Validator) NonNegative(field string, value int) *Validator {
	if value < 0 {
		v.AddError(field, fmt.Sprintf("must not be negative (got: %d)", value))
	}
	return v
}

// Min validates that value is at least minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d (got: %d)", minVal, value))
	}
	return v
}

// Probability validates that value lies in [0, 1].
func (v *Validator) Probability(field string, value float64) *Validator {
	if value < 0 || value > 1 {
		v.AddError(field, fmt.Sprintf("must be between 0 and 1 (got: %g)", value))
	}
	return v
}

// OneOf validates that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if !slices.Contains(allowed, value) {
		v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	}
	return v
}

// NotNil validates that a callback or operation was supplied.
func (v *Validator) NotNil(field string, isNil bool) *Validator {
	if isNil {
		v.AddError(field, "is required")
	}
	return v
}

// Custom adds an error if the condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}
