package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfiguration marks failures that must stop a run before it leaves
// planning: unreadable preferences, missing required credentials, a ledger
// held by another run.
var ErrConfiguration = errors.New("configuration error")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
