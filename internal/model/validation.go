package model

import "fmt"

// ValidationError reports a request payload that does not satisfy its
// contract. It is returned before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func missing(field string) error {
	return &ValidationError{Field: field, Message: "field required"}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationError returns a validation error for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
