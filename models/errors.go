package models

import "errors"

var (
	ErrValidationFailed = errors.New("validation_failed")
	ErrNotFound         = errors.New("not_found")
)

// ValidationError marks malformed or missing input to a write operation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// NotFoundError marks a referenced entity that is absent, including order
// tokens that cannot be decoded.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(message string) error {
	return &NotFoundError{Message: message}
}

// ApiError wraps any other failure surfaced from the store boundary.
type ApiError struct {
	Message string
	Cause   error
}

func (e *ApiError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ApiError) Unwrap() error { return e.Cause }

func NewApiError(message string, cause error) error {
	return &ApiError{Message: message, Cause: cause}
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidationFailed) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
