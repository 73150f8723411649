package contract

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatch         = errors.New("no matching trigger")
	ErrUnavailable     = errors.New("collaborator unavailable")
	ErrUpstreamStatus  = errors.New("upstream returned error status")
	ErrSessionNotFound = errors.New("session not found")
	ErrValidation      = errors.New("validation failed")
)

// NoMatchError reports that no trigger's keywords matched the query.
// It wraps ErrNoMatch so callers can test with errors.Is.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching trigger for query %q", e.Query)
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// ActionFailedError reports that the selected trigger's action failed.
// The registry does not fall back to the next match.
type ActionFailedError struct {
	Trigger string
	Err     error
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("trigger %s action failed: %v", e.Trigger, e.Err)
}

func (e *ActionFailedError) Unwrap() error { return e.Err }
