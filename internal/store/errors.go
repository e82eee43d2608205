package store

import (
	"errors"
	"fmt"
)

// Common backend access errors
var (
	// ErrContractNotFound is returned when no contract matches the requested id.
	ErrContractNotFound = errors.New("contract not found")

	// ErrInvalidExport is returned when a backend export file cannot be decoded.
	ErrInvalidExport = errors.New("invalid backend export")

	// ErrMissingDatabaseURL is returned when no database connection string is configured.
	ErrMissingDatabaseURL = errors.New("missing database URL")
)

// QueryError wraps errors with context about the backend read that failed.
type QueryError struct {
	// Op is the operation that failed (e.g., "Contracts", "Settings").
	Op string

	// Table is the backend table being read (if available).
	Table string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("store: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	if e.Table != "" {
		return fmt.Sprintf("store: %s failed (table: %s): %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *QueryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewQueryError creates a new QueryError for the given operation and table.
func NewQueryError(op, table string, err error) *QueryError {
	return &QueryError{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// WrapQueryError wraps an error as a QueryError if it isn't already one.
func WrapQueryError(op, table string, err error, details string) error {
	if err == nil {
		return nil
	}

	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return err
	}

	return &QueryError{Op: op, Table: table, Err: err, Details: details}
}

// DecodeError reports a backend value that could not be normalized.
type DecodeError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(field string, value interface{}, message string) *DecodeError {
	return &DecodeError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
