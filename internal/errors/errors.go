// Package errors provides structured error types for the contribution agent.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout      = errors.New("operation timed out")
	ErrAuthFailure  = errors.New("authentication failed")
	ErrRateLimit    = errors.New("rate limit exceeded")
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")

	// ErrAlreadyExists covers the GitHub "already exists" responses that are
	// treated as success by callers: an existing fork (HTTP 200) or a
	// duplicate pull request (HTTP 422).
	ErrAlreadyExists = errors.New("resource already exists")
)

// APIError represents an error from an external API call.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error (status %d): %s: %v", e.Service, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError creates a new API error.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// NewRateLimitError creates an API error that reports true under IsRateLimited.
func NewRateLimitError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message, Err: ErrRateLimit}
}

// IsRetryable returns true if the error is likely transient and worth retrying.
// 4xx responses other than 429 are permanent and fail fast.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimit) || errors.Is(err, ErrUnavailable)
}

// IsRateLimited reports whether the error is a GitHub rate-limit rejection.
// Surfaced separately so callers can print an actionable message instead of
// a generic retry-exhausted failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimit)
}
