package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzx17/collext/internal/testutils"
	"github.com/jzx17/collext/pkg/types"
)

func TestNewWorker(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	assert.Equal(t, 1, worker.ID())
	assert.Equal(t, WorkerStateIdle, worker.State())
}

func TestWorkerState(t *testing.T) {
	assert.Equal(t, "idle", WorkerStateIdle.String())
	assert.Equal(t, "working", WorkerStateWorking.String())
	assert.Equal(t, "stopped", WorkerStateStopped.String())
	assert.Equal(t, "unknown", WorkerState(999).String())
}

func TestWorker_Start(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Start(ctx)

	var executed int64
	taskChan <- NewBasicTask(func(ctx context.Context) error {
		atomic.AddInt64(&executed, 1)
		return nil
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&executed) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWorker_Stop(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	go worker.Start(context.Background())

	require.NoError(t, worker.Stop())
	assert.Equal(t, WorkerStateStopped, worker.State())

	// Repeated stop should succeed
	assert.NoError(t, worker.Stop())
}

func TestWorker_ClosedChannelStops(t *testing.T) {
	taskChan := make(chan types.Task)
	worker := NewWorker(1, taskChan)

	go worker.Start(context.Background())
	close(taskChan)

	assert.Eventually(t, func() bool {
		return worker.State() == WorkerStateStopped
	}, time.Second, 5*time.Millisecond)
}

func TestWorker_TaskExecutionWithError(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan error, 1)
	worker.SetErrorHandler(func(task types.Task, err error) error {
		assert.Equal(t, "failing", task.ID())
		handled <- err
		return nil
	})

	var failed atomic.Bool
	worker.SetCompletionHook(func(_ types.Task, _ time.Duration, err error) {
		failed.Store(err != nil)
	})

	go worker.Start(ctx)

	taskErr := fmt.Errorf("task failed")
	taskChan <- NewBasicTaskWithID("failing", func(ctx context.Context) error {
		return taskErr
	})

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, taskErr)
	case <-time.After(time.Second):
		t.Fatal("error handler was not called")
	}

	assert.Eventually(t, failed.Load, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), worker.Stats().TotalFailed)
	assert.Equal(t, int64(0), worker.Stats().TotalProcessed)
}

func TestWorker_TaskPanic(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan error, 1)
	worker.SetErrorHandler(func(_ types.Task, err error) error {
		handled <- err
		return nil
	})

	go worker.Start(ctx)

	taskChan <- NewBasicTask(func(ctx context.Context) error {
		panic("test panic")
	})

	select {
	case err := <-handled:
		var pe *types.PanicError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "test panic", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	case <-time.After(time.Second):
		t.Fatal("panic was not reported")
	}

	// The worker survives the panic and keeps processing
	done := make(chan struct{})
	taskChan <- NewBasicTask(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker stopped after panic")
	}
}

func TestWorker_TaskGoexit(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	handled := make(chan error, 1)
	worker.SetErrorHandler(func(_ types.Task, err error) error {
		handled <- err
		return nil
	})

	var hooked int64
	worker.SetCompletionHook(func(_ types.Task, _ time.Duration, err error) {
		atomic.AddInt64(&hooked, 1)
	})

	go worker.Start(context.Background())

	taskChan <- NewBasicTaskWithID("exiting", func(ctx context.Context) error {
		runtime.Goexit()
		return nil
	})

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, types.ErrGoexit)
		assert.True(t, types.IsPanic(err))
	case <-time.After(time.Second):
		t.Fatal("goroutine exit was not reported")
	}

	// The worker keeps serving on a replacement goroutine
	done := make(chan struct{})
	taskChan <- NewBasicTask(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker stopped after goroutine exit")
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&hooked) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), worker.Stats().TotalFailed)

	require.NoError(t, worker.Stop())
	assert.Equal(t, WorkerStateStopped, worker.State())
}

func TestWorker_ContextCancellation(t *testing.T) {
	taskChan := make(chan types.Task, 10)
	worker := NewWorker(1, taskChan)

	ctx, cancel := context.WithCancel(context.Background())

	go worker.Start(ctx)

	started := make(chan struct{})
	result := make(chan error, 1)
	taskChan <- NewBasicTask(func(taskCtx context.Context) error {
		close(started)
		<-taskCtx.Done()
		result <- taskCtx.Err()
		return taskCtx.Err()
	})

	<-started
	cancel()

	assert.ErrorIs(t, <-result, context.Canceled)
	assert.Eventually(t, func() bool {
		return worker.State() == WorkerStateStopped
	}, time.Second, 5*time.Millisecond)
}

func TestWorker_StatsWithMockClock(t *testing.T) {
	mock := testutils.NewMockClock(t)
	taskChan := make(chan types.Task, 10)
	worker := NewWorkerWithClock(3, taskChan, mock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Start(ctx)

	for i := 0; i < 3; i++ {
		taskChan <- NewBasicTask(func(ctx context.Context) error { return nil })
	}
	taskChan <- NewBasicTask(func(ctx context.Context) error { return errors.New("x") })

	assert.Eventually(t, func() bool {
		s := worker.Stats()
		return s.TotalProcessed+s.TotalFailed == 4
	}, time.Second, 5*time.Millisecond)

	stats := worker.Stats()
	assert.Equal(t, 3, stats.ID)
	assert.Equal(t, int64(3), stats.TotalProcessed)
	assert.Equal(t, int64(1), stats.TotalFailed)
	assert.Equal(t, mock.Now().UnixNano(), stats.LastTaskTime.UnixNano())
	assert.InDelta(t, 0.25, stats.GetErrorRate(), 1e-9)
}

func TestWorkerStats_Helpers(t *testing.T) {
	assert.True(t, WorkerStats{State: WorkerStateWorking}.IsActive())
	assert.True(t, WorkerStats{State: WorkerStateIdle}.IsIdle())
	assert.Equal(t, float64(0), WorkerStats{}.GetErrorRate())
}

func BenchmarkWorker_TaskExecution(b *testing.B) {
	taskChan := make(chan types.Task, 100)
	worker := NewWorker(1, taskChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Start(ctx)

	done := make(chan struct{}, 100)
	task := NewBasicTask(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		taskChan <- task
		<-done
	}
}
