package collection

import (
	"log/slog"
	"runtime"

	"github.com/coder/quartz"

	cerrors "github.com/jzx17/collext/internal/errors"
	"github.com/jzx17/collext/pkg/types"
)

// Policy selects how visitor failures affect an iteration
type Policy = cerrors.Policy

const (
	// PolicyPropagate runs every element, then reports failures to the caller
	PolicyPropagate = cerrors.PolicyPropagate
	// PolicyAbort skips elements that have not started once a failure is seen
	PolicyAbort = cerrors.PolicyAbort
	// PolicyContinue logs failures and returns normally
	PolicyContinue = cerrors.PolicyContinue
)

// ParsePolicy converts "propagate", "abort" or "continue" into a Policy
func ParsePolicy(name string) (Policy, error) {
	return cerrors.ParsePolicy(name)
}

// Config holds the settings shared by the parallel operations
type Config struct {
	// Parallelism is the maximum number of visitors running at once
	Parallelism int

	// Policy decides what happens after a visitor fails
	Policy Policy

	// Logger receives failures absorbed under PolicyContinue
	Logger *slog.Logger

	// Clock drives the worker pool timers (optional, defaults to real clock)
	Clock quartz.Clock
}

// Option configures a parallel operation
type Option = types.Option[*Config]

// DefaultConfig returns the configuration used when no options are given
func DefaultConfig() *Config {
	return &Config{
		Parallelism: runtime.GOMAXPROCS(0),
		Policy:      PolicyPropagate,
		Logger:      slog.Default(),
		Clock:       quartz.NewReal(),
	}
}

// WithParallelism caps the number of concurrent visitors; values below 1 are ignored
func WithParallelism(n int) Option {
	return func(c *Config) {
		if n >= 1 {
			c.Parallelism = n
		}
	}
}

// WithPolicy sets the failure policy
func WithPolicy(p Policy) Option {
	return func(c *Config) {
		c.Policy = p
	}
}

// WithLogger sets the logger; nil is ignored
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithClock sets the clock used by the worker pool; nil is ignored
func WithClock(clock quartz.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

func newConfig(policy Policy, opts []Option) *Config {
	cfg := DefaultConfig()
	cfg.Policy = policy
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return cfg
}
