// Package types defines core interfaces and types for the collext library
package types

import (
	"context"
	"time"
)

// Collection is the sequential-access capability every helper in this module works against.
// Positions are traversed from StartIndex (inclusive) to EndIndex (exclusive) by repeatedly
// calling IndexAfter. Positions are opaque: callers never do arithmetic on them.
type Collection[P comparable, T any] interface {
	// StartIndex returns the position of the first element
	StartIndex() P

	// EndIndex returns the position one past the last element
	EndIndex() P

	// IndexAfter returns the position that follows p
	IndexAfter(p P) P

	// At returns the element stored at p
	At(p P) T
}

// Indexed is a zero-based, contiguously integer-indexed collection
type Indexed[T any] interface {
	// Len returns the number of elements
	Len() int

	// At returns the element at position i, 0 <= i < Len()
	At(i int) T
}

// PositionChecker is implemented by collections that can validate a position without
// enumerating every position they hold
type PositionChecker[P comparable] interface {
	ValidIndex(p P) bool
}

// WorkerPool defines the worker pool interface
type WorkerPool interface {
	// Submit submits a task to the worker pool
	Submit(task Task) error

	// SubmitWithTimeout submits a task to the worker pool with timeout
	SubmitWithTimeout(task Task, timeout time.Duration) error

	// Start starts the worker pool
	Start(ctx context.Context) error

	// Stop stops the worker pool
	Stop() error

	// Close closes the worker pool and releases resources
	Close() error

	// Size returns the size of the worker pool
	Size() int

	// Stats returns worker pool statistics
	Stats() WorkerPoolStats
}

// Task defines the task interface
type Task interface {
	// Execute executes the task
	Execute(ctx context.Context) error

	// ID returns the task ID (for tracking and logging)
	ID() string
}

// WorkerPoolStats defines basic statistics for worker pools
type WorkerPoolStats struct {
	// PoolSize is the size of the pool
	PoolSize int

	// ActiveWorkers is the number of active worker goroutines
	ActiveWorkers int

	// QueueSize is the current number of tasks in the queue
	QueueSize int

	// QueueCapacity is the capacity of the queue
	QueueCapacity int
}

// ErrorHandler is called by a worker for every task that returned an error or panicked.
// A non-nil return is logged by the worker at debug level and otherwise dropped.
type ErrorHandler func(task Task, err error) error

// CompletionHook is called by a worker after every task, once the ErrorHandler has run
type CompletionHook func(task Task, duration time.Duration, err error)

// Option defines a configuration option function
type Option[T any] func(T)
