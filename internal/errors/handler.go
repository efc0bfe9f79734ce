// Package errors provides the failure policies applied when a visitor fails during parallel iteration
package errors

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jzx17/collext/pkg/types"
)

// Policy selects what happens to the remaining work once a visitor fails
type Policy int

const (
	// PolicyPropagate lets every element run, then reports the failures to the caller
	PolicyPropagate Policy = iota
	// PolicyAbort skips elements that have not started yet, then reports the failure
	PolicyAbort
	// PolicyContinue logs failures and reports nothing to the caller
	PolicyContinue
)

// String returns the string representation of the policy
func (p Policy) String() string {
	switch p {
	case PolicyPropagate:
		return "propagate"
	case PolicyAbort:
		return "abort"
	case PolicyContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name back into a Policy
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "propagate":
		return PolicyPropagate, nil
	case "abort":
		return PolicyAbort, nil
	case "continue":
		return PolicyContinue, nil
	default:
		return PolicyPropagate, fmt.Errorf("unknown failure policy %q", name)
	}
}

// ErrorContext defines context information when a visitor fails
type ErrorContext struct {
	// Error that occurred
	Error error

	// OperationName is the name of the operation where error occurred
	OperationName string

	// Position is the ordinal of the element in traversal order
	Position int

	// Timestamp when the error occurred
	Timestamp time.Time

	// Metadata contains additional metadata information
	Metadata map[string]interface{}
}

// NewErrorContext creates a new error context
func NewErrorContext(err error, operationName string, position int) *ErrorContext {
	return &ErrorContext{
		Error:         err,
		OperationName: operationName,
		Position:      position,
		Timestamp:     time.Now(),
		Metadata:      make(map[string]interface{}),
	}
}

// ErrorHandler decides whether a failure is surfaced (non-nil return) or absorbed (nil)
type ErrorHandler interface {
	// HandleError handles the error, returns processed error or nil if handled
	HandleError(ctx context.Context, errCtx *ErrorContext) error

	// Name returns the name of the error handler
	Name() string
}

// FailFastHandler surfaces every error unchanged
type FailFastHandler struct {
	name string
}

// NewFailFastHandler creates a new fail-fast handler
func NewFailFastHandler() *FailFastHandler {
	return &FailFastHandler{name: "FailFast"}
}

// HandleError implements the ErrorHandler interface
func (h *FailFastHandler) HandleError(_ context.Context, errCtx *ErrorContext) error {
	return errCtx.Error
}

// Name returns the handler name
func (h *FailFastHandler) Name() string {
	return h.name
}

// ContinueOnErrorHandler logs errors and absorbs them
type ContinueOnErrorHandler struct {
	name   string
	logger *slog.Logger
}

// NewContinueOnErrorHandler creates a continue-on-error handler logging to logger
func NewContinueOnErrorHandler(logger *slog.Logger) *ContinueOnErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContinueOnErrorHandler{
		name:   "ContinueOnError",
		logger: logger,
	}
}

// HandleError implements the ErrorHandler interface
func (h *ContinueOnErrorHandler) HandleError(ctx context.Context, errCtx *ErrorContext) error {
	attrs := []slog.Attr{
		slog.String("operation", errCtx.OperationName),
		slog.Int("position", errCtx.Position),
		slog.Any("error", errCtx.Error),
	}
	for k, v := range errCtx.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	h.logger.LogAttrs(ctx, slog.LevelWarn, "ignored visitor failure", attrs...)
	return nil
}

// Name returns the handler name
func (h *ContinueOnErrorHandler) Name() string {
	return h.name
}

// HandlerFor returns the handler implementing policy
func HandlerFor(policy Policy, logger *slog.Logger) ErrorHandler {
	if policy == PolicyContinue {
		return NewContinueOnErrorHandler(logger)
	}
	return NewFailFastHandler()
}

// Collector gathers failures reported by concurrent visitors. It is safe for concurrent use.
type Collector struct {
	operation string
	policy    Policy
	handler   ErrorHandler

	aborted atomic.Bool
	mu      sync.Mutex
	first   *types.VisitorError
	errs    []*types.VisitorError
}

// NewCollector creates a collector for operation applying policy
func NewCollector(operation string, policy Policy, logger *slog.Logger) *Collector {
	return &Collector{
		operation: operation,
		policy:    policy,
		handler:   HandlerFor(policy, logger),
	}
}

// Policy returns the policy the collector applies
func (c *Collector) Policy() Policy {
	return c.policy
}

// Record reports err for the element at position. Nil errors are ignored.
// Under PolicyAbort the first recorded failure marks the collector aborted.
func (c *Collector) Record(ctx context.Context, position int, err error) {
	if err == nil {
		return
	}

	errCtx := NewErrorContext(err, c.operation, position)
	if types.IsPanic(err) {
		errCtx.Metadata["panic"] = true
	}
	if stderrors.Is(err, types.ErrGoexit) {
		errCtx.Metadata["goexit"] = true
	}

	surfaced := c.handler.HandleError(ctx, errCtx)
	if surfaced == nil {
		return
	}

	ve := types.NewVisitorError(c.operation, position, surfaced)
	for k, v := range errCtx.Metadata {
		ve.WithContext(k, v)
	}

	c.mu.Lock()
	if c.first == nil || position < c.first.Position {
		c.first = ve
	}
	c.errs = append(c.errs, ve)
	c.mu.Unlock()

	if c.policy == PolicyAbort {
		c.aborted.Store(true)
	}
}

// Aborted reports whether remaining work should be skipped
func (c *Collector) Aborted() bool {
	return c.aborted.Load()
}

// First returns the recorded failure with the lowest position, or nil
func (c *Collector) First() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.first == nil {
		return nil
	}
	return c.first
}

// Errors returns every recorded failure ordered by position
func (c *Collector) Errors() []*types.VisitorError {
	c.mu.Lock()
	out := slices.Clone(c.errs)
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b *types.VisitorError) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

// Err joins every recorded failure ordered by position, or returns nil
func (c *Collector) Err() error {
	errs := c.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return stderrors.Join(joined...)
}
