package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the task backend could not be reached.
	ErrUnavailable = errors.New("task backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("task backend request timed out")

	// ErrRetryExhausted indicates every attempt failed for another reason.
	ErrRetryExhausted = errors.New("task backend retry attempts exhausted")
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the same request could succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
