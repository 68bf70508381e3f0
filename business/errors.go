package business

import "errors"

// ValidationError is a business-rule violation surfaced to the caller as a
// rejected request with a human-readable reason.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given reason
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a business-rule violation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
