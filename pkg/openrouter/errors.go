package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

var (
	// ErrMalformedResponse indicates the API returned a 200 whose body does not
	// contain a usable completion (bad JSON, no choices, empty content).
	// It is never retried.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrAttemptsExhausted indicates every retry attempt failed.
	ErrAttemptsExhausted = errors.New("all attempts failed")
)

// APIError is a non-200 HTTP status from the completion endpoint.
type APIError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration // from the Retry-After header, 0 if absent
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter: API error %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether the status is expected to resolve on retry.
func (e *APIError) Transient() bool {
	switch {
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode == statusEdgeSSL:
		return true
	}
	return false
}

// isTransient classifies an attempt error for the retry loop.
// Network failures, timeouts, 5xx, 429 and the edge-SSL status are transient;
// everything else (including malformed bodies) surfaces immediately.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// http.Client errors are *url.Error, which implements net.Error.
	var netErr net.Error
	return errors.As(err, &netErr)
}
