// Package errors provides domain-specific error types and sentinel errors
// shared by the inventory client and the action handlers.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates the backend search returned no matching item.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the conversation carries no usable auth token.
	ErrUnauthorized = errors.New("missing authentication token")

	// ErrRateLimitExceeded indicates a sender exceeded its request budget.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates the user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAction indicates the dialogue engine asked for an action that is not registered.
	ErrUnknownAction = errors.New("unknown action")
)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// BackendError represents a failed call against the inventory REST API.
// StatusCode is 0 when the request never produced a response
// (transport failure) or the failure happened while decoding the body.
type BackendError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend error (endpoint=%s, status=%d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend error (endpoint=%s): %v", e.Endpoint, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a new backend error.
func NewBackendError(endpoint string, statusCode int, err error) *BackendError {
	return &BackendError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsBackendStatus reports whether err is a BackendError carrying an HTTP
// status, i.e. the backend answered but not with 200.
func IsBackendStatus(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.StatusCode > 0
}
