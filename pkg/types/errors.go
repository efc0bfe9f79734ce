// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrEmptyCollection indicates an operation that needs at least one element got none
	ErrEmptyCollection = errors.New("collection is empty")

	// ErrTimeout indicates operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrWorkerPoolFull indicates the worker pool is full
	ErrWorkerPoolFull = errors.New("worker pool is full")

	// ErrPoolNotStarted indicates a task was submitted before Start
	ErrPoolNotStarted = errors.New("worker pool is not started")

	// ErrPoolClosed indicates the worker pool is closed
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrGoexit reports a task whose goroutine exited through runtime.Goexit instead of returning
	ErrGoexit = errors.New("task goroutine exited without returning")
)

// VisitorError reports a visitor failure at a given position of the traversal
type VisitorError struct {
	// Operation is the name of the operation where the error occurred
	Operation string

	// Position is the ordinal of the element in traversal order
	Position int

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// NewVisitorError creates a new visitor error
func NewVisitorError(operation string, position int, cause error) *VisitorError {
	return &VisitorError{
		Operation: operation,
		Position:  position,
		Cause:     cause,
		Context:   make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *VisitorError) Error() string {
	return fmt.Sprintf("%s: visitor failed at position %d: %v", e.Operation, e.Position, e.Cause)
}

// Unwrap returns the underlying error
func (e *VisitorError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *VisitorError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// WithContext adds error context
func (e *VisitorError) WithContext(key string, value interface{}) *VisitorError {
	e.Context[key] = value
	return e
}

// PanicError carries a value recovered from a panicking task together with its stack
type PanicError struct {
	// Value is what was passed to panic
	Value interface{}

	// Stack is the goroutine stack captured at recovery
	Stack []byte
}

// NewPanicError creates a panic error from a recovered value
func NewPanicError(value interface{}, stack []byte) *PanicError {
	return &PanicError{Value: value, Stack: stack}
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic reports whether err wraps a recovered panic
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// PositionOf returns the traversal position recorded in err, or -1 if err is not a VisitorError
func PositionOf(err error) int {
	var ve *VisitorError
	if errors.As(err, &ve) {
		return ve.Position
	}
	return -1
}
