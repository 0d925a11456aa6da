package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the store when no review exists for an id.
var ErrNotFound = errors.New("review not found")

// ValidationError describes a rejected submission. It is raised before any
// outbound call is made and maps to a client error at the HTTP boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnavailableError means the LLM endpoint could not produce a response after
// the configured number of attempts. Cause is the last underlying failure.
type UnavailableError struct {
	Attempts int
	Cause    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("llm unavailable after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// InvalidResponseError means the LLM answered, but the reply did not match
// the required schema. Distinct from UnavailableError: a semantically invalid
// reply is not retried.
type InvalidResponseError struct {
	Reason string
	Cause  error
}

func (e *InvalidResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid llm response: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid llm response: %s", e.Reason)
}

func (e *InvalidResponseError) Unwrap() error { return e.Cause }

// StorageError wraps a failure in the persistence layer.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }
