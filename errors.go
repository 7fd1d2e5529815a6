package pharmakit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// HTTP/Network errors
	ErrConnectionFailed = errors.New("connection failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrTimeout          = errors.New("operation timeout")

	// API response errors
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")

	// Client-side validation errors
	ErrValidation    = errors.New("validation failed")
	ErrStockExceeded = errors.New("quantity exceeds available stock")
	ErrPastDate      = errors.New("date is in the past")
	ErrUnknownSlot   = errors.New("time is not a bookable slot")
	ErrNoActiveDate  = errors.New("no active date selected")

	// Submission errors
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Session errors
	ErrNoToken      = errors.New("no token stored")
	ErrTokenExpired = errors.New("token expired")
)

// ClientError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type ClientError struct {
	Op      string // Operation that failed (e.g., "cart.Add")
	Kind    string // Error kind (e.g., "cart", "api", "session")
	ID      string // Optional ID of the entity involved
	Message string // Human-readable message
	Err     error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *ClientError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError
func NewClientError(op, kind string, err error) *ClientError {
	return &ClientError{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// IsRetryable checks if an error is a transient network or availability issue.
// Nothing in this SDK retries automatically; callers that want retry can use
// this to decide for themselves.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrTimeout)
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a client-side validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrStockExceeded) ||
		errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrUnknownSlot)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}
