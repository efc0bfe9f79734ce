package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"

	"github.com/jzx17/collext/pkg/types"
)

// workerStopTimeout bounds how long Stop waits for the current task to finish
const workerStopTimeout = 5 * time.Second

// WorkerState defines the state of a Worker
type WorkerState int32

const (
	// WorkerStateIdle represents idle worker state
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents working worker state
	WorkerStateWorking
	// WorkerStateStopped represents stopped worker state
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker represents a single worker goroutine
type Worker struct {
	id       int
	state    int32 // atomic state
	taskChan chan types.Task
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// statistics
	totalProcessed int64
	totalFailed    int64
	lastTaskTime   int64 // Unix nanosecond timestamp

	errorHandler types.ErrorHandler

	completionHook types.CompletionHook

	clock  quartz.Clock
	logger *slog.Logger

	mu sync.RWMutex
}

// NewWorker creates a new Worker with the real clock and the default logger
func NewWorker(id int, taskChan chan types.Task) *Worker {
	return NewWorkerWithClock(id, taskChan, quartz.NewReal())
}

// NewWorkerWithClock creates a new Worker with specified clock
func NewWorkerWithClock(id int, taskChan chan types.Task, clock quartz.Clock) *Worker {
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Worker{
		id:       id,
		state:    int32(WorkerStateIdle),
		taskChan: taskChan,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		clock:    clock,
		logger:   slog.Default(),
	}
}

// ID returns the Worker ID
func (w *Worker) ID() int {
	return w.id
}

// State returns the current Worker state
func (w *Worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

// SetErrorHandler sets the error handler
func (w *Worker) SetErrorHandler(handler types.ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandler = handler
}

// SetLogger sets the logger used to report errors the error handler could not absorb
func (w *Worker) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
}

// SetCompletionHook sets the hook called after every task
func (w *Worker) SetCompletionHook(hook types.CompletionHook) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.completionHook = hook
}

// Start runs the worker loop until ctx is done, Stop is called or the task channel is closed
func (w *Worker) Start(ctx context.Context) {
	returned := false
	defer func() {
		if returned {
			close(w.done)
			return
		}
		// A task called runtime.Goexit; this goroutine is gone, keep serving on a new one
		go w.Start(ctx)
	}()

	w.loop(ctx)
	returned = true
}

func (w *Worker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			atomic.StoreInt32(&w.state, int32(WorkerStateStopped))
			return
		case <-w.quit:
			atomic.StoreInt32(&w.state, int32(WorkerStateStopped))
			return
		case task, ok := <-w.taskChan:
			if !ok {
				atomic.StoreInt32(&w.state, int32(WorkerStateStopped))
				return
			}
			w.processTask(ctx, task)
		}
	}
}

func (w *Worker) processTask(ctx context.Context, task types.Task) {
	atomic.StoreInt32(&w.state, int32(WorkerStateWorking))
	defer atomic.StoreInt32(&w.state, int32(WorkerStateIdle))

	startTime := w.clock.Now()
	atomic.StoreInt64(&w.lastTaskTime, startTime.UnixNano())

	var err error
	returned := false
	defer func() {
		if !returned {
			err = types.NewPanicError(types.ErrGoexit, debug.Stack())
		}
		w.finishTask(task, w.clock.Since(startTime), err)
	}()

	err = w.executeTask(ctx, task)
	returned = true
}

// finishTask updates stats, reports err and runs the completion hook
func (w *Worker) finishTask(task types.Task, executionTime time.Duration, err error) {
	if err != nil {
		atomic.AddInt64(&w.totalFailed, 1)
		w.handleError(err, task)
	} else {
		atomic.AddInt64(&w.totalProcessed, 1)
	}

	w.mu.RLock()
	hook := w.completionHook
	w.mu.RUnlock()

	if hook != nil {
		hook(task, executionTime, err)
	}
}

// executeTask executes a task, turning a panic into a *types.PanicError
func (w *Worker) executeTask(ctx context.Context, task types.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = types.NewPanicError(r, buf[:n])
		}
	}()

	return task.Execute(ctx)
}

func (w *Worker) handleError(err error, task types.Task) {
	w.mu.RLock()
	handler := w.errorHandler
	logger := w.logger
	w.mu.RUnlock()

	if handler == nil {
		logger.Warn("task failed without error handler",
			slog.Int("worker_id", w.id),
			slog.String("task_id", task.ID()),
			slog.Any("error", err))
		return
	}

	if handledErr := handler(task, err); handledErr != nil {
		logger.Debug("error handler returned error",
			slog.Int("worker_id", w.id),
			slog.String("task_id", task.ID()),
			slog.Any("error", handledErr))
	}
}

// Stop stops the Worker and waits for the task in progress to finish
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() { close(w.quit) })

	timer := w.clock.NewTimer(workerStopTimeout, "worker", "stop")
	defer timer.Stop()

	select {
	case <-w.done:
		return nil
	case <-timer.C:
		return fmt.Errorf("worker %d stop timeout", w.id)
	}
}

// Stats gets Worker statistics
func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		ID:             w.id,
		State:          w.State(),
		TotalProcessed: atomic.LoadInt64(&w.totalProcessed),
		TotalFailed:    atomic.LoadInt64(&w.totalFailed),
		LastTaskTime:   time.Unix(0, atomic.LoadInt64(&w.lastTaskTime)),
	}
}

// WorkerStats defines Worker statistics
type WorkerStats struct {
	ID             int
	State          WorkerState
	TotalProcessed int64
	TotalFailed    int64
	LastTaskTime   time.Time
}

// IsActive checks if Worker is active
func (ws WorkerStats) IsActive() bool {
	return ws.State == WorkerStateWorking
}

// IsIdle checks if Worker is idle
func (ws WorkerStats) IsIdle() bool {
	return ws.State == WorkerStateIdle
}

// GetErrorRate gets the error rate
func (ws WorkerStats) GetErrorRate() float64 {
	total := ws.TotalProcessed + ws.TotalFailed
	if total == 0 {
		return 0
	}
	return float64(ws.TotalFailed) / float64(total)
}
