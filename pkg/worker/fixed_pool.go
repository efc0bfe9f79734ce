package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"

	"github.com/jzx17/collext/pkg/types"
)

// poolStopTimeout bounds how long Stop waits for every worker to exit
const poolStopTimeout = 10 * time.Second

const (
	poolStateStopped int32 = iota
	poolStateRunning
	poolStateClosed
)

// FixedWorkerPoolConfig defines configuration for fixed worker pool
type FixedWorkerPoolConfig struct {
	// PoolSize is the number of worker goroutines
	PoolSize int

	// QueueSize is the task queue size
	QueueSize int

	// SubmitTimeout is the task submission timeout; zero or negative means non-blocking submit
	SubmitTimeout time.Duration

	// Clock for time operations (optional, defaults to real clock)
	Clock quartz.Clock

	// ErrorHandler receives every task failure, including recovered panics
	ErrorHandler types.ErrorHandler

	// OnTaskDone is called after every task, after ErrorHandler
	OnTaskDone types.CompletionHook

	// Logger for failures the error handler does not absorb (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// DefaultFixedWorkerPoolConfig returns default configuration
func DefaultFixedWorkerPoolConfig() *FixedWorkerPoolConfig {
	return &FixedWorkerPoolConfig{
		PoolSize:      10,
		QueueSize:     100,
		SubmitTimeout: 5 * time.Second,
		Clock:         quartz.NewReal(),
		Logger:        slog.Default(),
	}
}

// FixedWorkerPool implements a fixed-size worker pool
type FixedWorkerPool struct {
	config   *FixedWorkerPoolConfig
	workers  []*Worker
	taskChan chan types.Task

	state     int32
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu sync.RWMutex
}

// NewFixedWorkerPool creates a new fixed worker pool
func NewFixedWorkerPool(config *FixedWorkerPoolConfig) (*FixedWorkerPool, error) {
	if config == nil {
		config = DefaultFixedWorkerPoolConfig()
	}

	if config.PoolSize <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", config.PoolSize)
	}
	if config.QueueSize <= 0 {
		return nil, fmt.Errorf("queue size must be positive, got %d", config.QueueSize)
	}

	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	taskChan := make(chan types.Task, config.QueueSize)
	workers := make([]*Worker, config.PoolSize)

	pool := &FixedWorkerPool{
		config:   config,
		workers:  workers,
		taskChan: taskChan,
	}

	for i := 0; i < config.PoolSize; i++ {
		w := NewWorkerWithClock(i, taskChan, config.Clock)
		w.SetLogger(config.Logger)
		if config.ErrorHandler != nil {
			w.SetErrorHandler(config.ErrorHandler)
		}
		if config.OnTaskDone != nil {
			w.SetCompletionHook(config.OnTaskDone)
		}
		workers[i] = w
	}

	return pool, nil
}

// Start starts the worker pool
func (p *FixedWorkerPool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.state, poolStateStopped, poolStateRunning) {
		if atomic.LoadInt32(&p.state) == poolStateRunning {
			return fmt.Errorf("worker pool is already running")
		}
		return types.ErrPoolClosed
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	for _, w := range p.workers {
		go w.Start(p.ctx)
	}

	return nil
}

// Submit submits a task to the worker pool
func (p *FixedWorkerPool) Submit(task types.Task) error {
	return p.SubmitWithTimeout(task, p.config.SubmitTimeout)
}

// SubmitWithTimeout submits a task to the worker pool with timeout
func (p *FixedWorkerPool) SubmitWithTimeout(task types.Task, timeout time.Duration) error {
	switch atomic.LoadInt32(&p.state) {
	case poolStateRunning:
	case poolStateStopped:
		return types.ErrPoolNotStarted
	default:
		return types.ErrPoolClosed
	}

	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}

	if timeout <= 0 {
		select {
		case p.taskChan <- task:
			return nil
		default:
			return types.ErrWorkerPoolFull
		}
	}

	timer := p.config.Clock.NewTimer(timeout, "pool", "submit")
	defer timer.Stop()

	select {
	case p.taskChan <- task:
		return nil
	case <-timer.C:
		return types.ErrTimeout
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Stop stops the worker pool. Tasks still queued are not executed.
func (p *FixedWorkerPool) Stop() error {
	if !atomic.CompareAndSwapInt32(&p.state, poolStateRunning, poolStateStopped) {
		if atomic.LoadInt32(&p.state) == poolStateStopped {
			return fmt.Errorf("worker pool is not running")
		}
		return types.ErrPoolClosed
	}

	if p.cancel != nil {
		p.cancel()
	}

	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			if err := w.Stop(); err != nil {
				p.config.Logger.Warn("worker did not stop in time",
					slog.Int("worker_id", w.ID()),
					slog.Any("error", err))
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := p.config.Clock.NewTimer(poolStopTimeout, "pool", "stop")
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("timeout waiting for workers to stop")
	}
}

// Close stops the pool if it is running and releases its resources
func (p *FixedWorkerPool) Close() error {
	var closeErr error

	p.closeOnce.Do(func() {
		if atomic.LoadInt32(&p.state) == poolStateRunning {
			if err := p.Stop(); err != nil {
				closeErr = err
				return
			}
		}

		atomic.StoreInt32(&p.state, poolStateClosed)

		p.mu.Lock()
		close(p.taskChan)
		p.workers = nil
		p.mu.Unlock()
	})

	return closeErr
}

// Size returns the worker pool size
func (p *FixedWorkerPool) Size() int {
	return p.config.PoolSize
}

// Stats gets basic worker pool statistics
func (p *FixedWorkerPool) Stats() types.WorkerPoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var activeWorkers int
	for _, w := range p.workers {
		if w.State() == WorkerStateWorking {
			activeWorkers++
		}
	}

	return types.WorkerPoolStats{
		PoolSize:      p.config.PoolSize,
		ActiveWorkers: activeWorkers,
		QueueSize:     len(p.taskChan),
		QueueCapacity: p.config.QueueSize,
	}
}

// GetWorkerStats gets statistics of all Workers
func (p *FixedWorkerPool) GetWorkerStats() []WorkerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		stats[i] = w.Stats()
	}
	return stats
}

// IsRunning checks if the worker pool is running
func (p *FixedWorkerPool) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == poolStateRunning
}

// IsClosed checks if the worker pool is closed
func (p *FixedWorkerPool) IsClosed() bool {
	return atomic.LoadInt32(&p.state) == poolStateClosed
}

var _ types.WorkerPool = (*FixedWorkerPool)(nil)
