package evah

import (
	"errors"
	"fmt"

	"evah-sdk/services"
	"evah-sdk/validate"
)

// TransportError represents a network failure or a non-success HTTP status.
// StatusCode is 0 when no response was received.
type TransportError = services.TransportError

// ApplicationError represents a well-formed response carrying a non-zero status
type ApplicationError = services.ApplicationError

// DecodeError represents a response body that does not match the schema
type DecodeError = services.DecodeError

// ValidationError represents a client-side validation error
type ValidationError struct {
	Field   string
	Kind    validate.Kind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError from a failing verdict
func NewValidationError(field string, v validate.Verdict) *ValidationError {
	return &ValidationError{Field: field, Kind: v.Kind, Message: v.Message}
}

// IsTransport reports whether err is, or wraps, a TransportError or DecodeError
func IsTransport(err error) bool {
	var te *TransportError
	var de *DecodeError
	return errors.As(err, &te) || errors.As(err, &de)
}

// IsApplication reports whether err is, or wraps, an ApplicationError
func IsApplication(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}
