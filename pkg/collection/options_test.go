package collection

import (
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/collext/internal/testutils"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Parallelism)
	assert.Equal(t, PolicyPropagate, cfg.Policy)
	assert.Same(t, slog.Default(), cfg.Logger)
	assert.NotNil(t, cfg.Clock)
}

func TestNewConfig(t *testing.T) {
	logger, _ := testutils.NewTestLogger()
	mock := testutils.NewMockClock(t)

	tests := []struct {
		name    string
		policy  Policy
		opts    []Option
		wantPar int
		wantPol Policy
	}{
		{
			name:    "defaults keep caller policy",
			policy:  PolicyAbort,
			wantPar: runtime.GOMAXPROCS(0),
			wantPol: PolicyAbort,
		},
		{
			name:    "parallelism override",
			policy:  PolicyPropagate,
			opts:    []Option{WithParallelism(3)},
			wantPar: 3,
			wantPol: PolicyPropagate,
		},
		{
			name:    "non-positive parallelism ignored",
			policy:  PolicyPropagate,
			opts:    []Option{WithParallelism(0), WithParallelism(-4)},
			wantPar: runtime.GOMAXPROCS(0),
			wantPol: PolicyPropagate,
		},
		{
			name:    "policy override",
			policy:  PolicyAbort,
			opts:    []Option{WithPolicy(PolicyContinue)},
			wantPar: runtime.GOMAXPROCS(0),
			wantPol: PolicyContinue,
		},
		{
			name:    "nil option skipped",
			policy:  PolicyPropagate,
			opts:    []Option{nil, WithParallelism(2)},
			wantPar: 2,
			wantPol: PolicyPropagate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(tt.policy, tt.opts)
			assert.Equal(t, tt.wantPar, cfg.Parallelism)
			assert.Equal(t, tt.wantPol, cfg.Policy)
		})
	}

	t.Run("logger and clock", func(t *testing.T) {
		cfg := newConfig(PolicyPropagate, []Option{WithLogger(logger), WithClock(mock)})
		assert.Same(t, logger, cfg.Logger)
		assert.Same(t, mock, cfg.Clock)
	})

	t.Run("nil logger and clock ignored", func(t *testing.T) {
		cfg := newConfig(PolicyPropagate, []Option{WithLogger(nil), WithClock(nil)})
		assert.NotNil(t, cfg.Logger)
		assert.NotNil(t, cfg.Clock)
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Continue")
	require.NoError(t, err)
	assert.Equal(t, PolicyContinue, p)

	_, err = ParsePolicy("retry")
	assert.Error(t, err)
}
