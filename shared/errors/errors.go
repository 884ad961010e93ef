package errors

import (
	"errors"
	"fmt"
)

// NotFound means the referenced id is absent from the active partition being
// queried. Soft-deleted records are still found; purged records are not.
var NotFound = errors.New("Not found")

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, NotFound)
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Message)
}

// ConflictError: a secondary-index target (username, email) is already
// claimed by a different id.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Conflict: %s %q already taken", e.Field, e.Value)
}

// InvalidReferenceError: create/import references a parent id that does not
// resolve.
type InvalidReferenceError struct {
	Kind string
	Id   string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("Invalid reference: %s %q does not exist", e.Kind, e.Id)
}

// StoreError wraps an underlying engine failure. Always fatal to the current
// operation, never silently swallowed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
