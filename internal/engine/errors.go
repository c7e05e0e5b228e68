// ABOUTME: Error taxonomy for engine mutations
// ABOUTME: Validation and persistence failures surfaced as values, never panics

package engine

import "fmt"

// ValidationError reports structurally invalid caller input. It is never
// retried; the caller corrects the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports a gateway write that was rejected or failed. The
// optimistic local change has already been rolled back when this surfaces.
// Retry policy is the caller's concern.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
