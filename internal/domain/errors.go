// Package domain defines core types, interfaces, and errors for the
// disclosure-control platform.
package domain

import "fmt"

// ExecutionError indicates the store rejected a query: bad credentials,
// access denied, malformed SQL, or a constraint violation. Always
// recoverable at the strategy/attack boundary.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string { return e.Message }

// SingularSystemError indicates a degenerate equation set in the
// linear-system attack.
type SingularSystemError struct {
	Message string
}

func (e *SingularSystemError) Error() string { return e.Message }

// InsufficientDataError indicates too few rows or entities to satisfy an
// attack's precondition.
type InsufficientDataError struct {
	Message string
}

func (e *InsufficientDataError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrExecution creates an ExecutionError with a formatted message.
func ErrExecution(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}

// ErrSingularSystem creates a SingularSystemError with a formatted message.
func ErrSingularSystem(format string, args ...interface{}) *SingularSystemError {
	return &SingularSystemError{Message: fmt.Sprintf(format, args...)}
}

// ErrInsufficientData creates an InsufficientDataError with a formatted message.
func ErrInsufficientData(format string, args ...interface{}) *InsufficientDataError {
	return &InsufficientDataError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}
