package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid input from the caller
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeLocationUnavailable indicates the caller's location could not be resolved
	ErrorTypeLocationUnavailable ErrorType = "LOCATION_UNAVAILABLE"

	// ErrorTypeSearchFailed indicates the external facility source failed
	ErrorTypeSearchFailed ErrorType = "SEARCH_FAILED"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// LocationReason narrows a LOCATION_UNAVAILABLE error to one of the four
// documented geolocation failure codes.
type LocationReason string

const (
	ReasonPermissionDenied    LocationReason = "permission_denied"
	ReasonPositionUnavailable LocationReason = "position_unavailable"
	ReasonTimeout             LocationReason = "timeout"
	ReasonUnsupported         LocationReason = "unsupported"
)

// Terminal reports whether the failure requires user action before another
// attempt can succeed. Permission denial and an unsupported platform are
// terminal; timeouts and transient position failures are retryable.
func (r LocationReason) Terminal() bool {
	return r == ReasonPermissionDenied || r == ReasonUnsupported
}

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Reason  LocationReason
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s (%s): %s: %v", e.Type, e.Reason, e.Message, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Reason, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewLocationError creates a new location-unavailable error with one of the
// documented failure reasons.
func NewLocationError(reason LocationReason, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLocationUnavailable,
		Reason:  reason,
		Message: "could not resolve caller location",
		Err:     err,
	}
}

// NewSearchError creates a new search-failed error for external source failures.
func NewSearchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSearchFailed,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// AsAppError unwraps err to an *AppError if one is present in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries the given application error type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == t
}
