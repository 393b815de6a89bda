package checkout

import (
	"errors"
	"fmt"
)

// ErrNotConfigured reports use of a client that was not built through
// [NewClient]. It is a programmer-error class failure meant to surface during
// integration, before any network activity happens.
var ErrNotConfigured = errors.New("checkout: client is not configured, construct it with NewClient")

// ErrAttemptInFlight reports a Start call on a [Flow] whose previous attempt
// is still loading. Concurrent attempts per flow are rejected rather than
// serialized.
var ErrAttemptInFlight = errors.New("checkout: checkout attempt already in flight")

// ErrNothingToRetry reports a Retry call on a [Flow] that has no failed
// attempt to repeat.
var ErrNothingToRetry = errors.New("checkout: no failed attempt to retry")

// ErrorType mirrors the API error.type field reported in non-2xx bodies.
type ErrorType string

const (
	InvalidRequest     ErrorType = "invalid_request"     // Missing or malformed field.
	AuthenticationFail ErrorType = "authentication_fail" // Signature or key id rejected.
	ProcessingError    ErrorType = "processing_error"    // Downstream gateway failure.
	ServiceUnavailable ErrorType = "service_unavailable" // Temporary outage or maintenance.
)

// APIError is returned when the API answers with a non-2xx status. Body
// carries the raw response; Type and Message are filled in when the body
// parses as the structured error payload. Authentication failures are not
// distinguishable from other API errors beyond the server-reported Type.
type APIError struct {
	StatusCode int
	Body       string
	Type       ErrorType
	Message    string
}

// Error satisfies the stdlib error interface.
func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("checkout: api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("checkout: api error %d: %s", e.StatusCode, e.Body)
}

// ParseError is returned when a 2xx response body does not match the
// documented response shape. It is not retried.
type ParseError struct {
	Err error
}

// Error satisfies the stdlib error interface.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("checkout: malformed response: %v", e.Err)
}

// Unwrap exposes the underlying decode failure.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
