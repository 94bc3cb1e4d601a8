// Package clients provides the resilient HTTP client used to reach downstream registries.
package clients

import (
	"errors"
	"fmt"
)

// Transport-level failures. Adapters in acl translate them to domain errors.
var (
	// ErrCircuitOpen is returned without a network call while the breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError reports a non-2xx response that was not retried.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d", e.Service, e.StatusCode)
}
