package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateNotFound indicates that no direct, inverse, or triangulated exchange
// rate exists for the requested currency pair and date. It is terminal:
// retrying cannot succeed until an administrator enters the missing rate.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrConfiguration indicates that an organization's currency configuration is
// missing and could not be defaulted.
var ErrConfiguration = errors.New("currency configuration error")

// NewRateNotFoundError builds the caller-facing resolution failure for a pair.
func NewRateNotFoundError(fromCode, toCode string) error {
	return fmt.Errorf("%w for %s to %s", ErrRateNotFound, fromCode, toCode)
}

// AppError carries an HTTP-ish status code alongside the underlying cause.
// The repository layer uses it to report infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that unwraps to ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
