/*
Package worker provides the fixed-size worker pool that runs the parallel operations of the
collection package. It can also be used on its own.

# Overview

The pool starts a fixed number of worker goroutines that read tasks from one buffered queue:
- Fixed number of worker goroutines
- Buffered task queue with blocking, timed or non-blocking submission
- Panic recovery: a panicking task is reported as a *types.PanicError and the worker keeps running
- Per-task error handler and completion hook
- Per-worker statistics
- Context cancellation support

# Core Components

## FixedWorkerPool

Owns the workers and the queue. Start, Stop and Close drive its lifecycle; a closed pool
rejects submissions with types.ErrPoolClosed.

## Worker

Single worker goroutine responsible for:
- Task execution and state management
- Panic recovery
- Statistics collection

## Task

BasicTask wraps a function as a types.Task.

# Error Handling

Every failed task is passed to FixedWorkerPoolConfig.ErrorHandler. Without a handler the failure
is logged at warn level through the configured *slog.Logger. OnTaskDone is called after the
handler, once per task, so a caller counting completions observes every failure first.

# Usage Examples

Basic usage:

	pool, err := worker.NewFixedWorkerPool(&worker.FixedWorkerPoolConfig{
		PoolSize:  4,
		QueueSize: 100,
		ErrorHandler: func(task types.Task, err error) error {
			log.Printf("task %s failed: %v", task.ID(), err)
			return nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := pool.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	task := worker.NewBasicTask(func(ctx context.Context) error {
		return nil
	})
	if err := pool.Submit(task); err != nil {
		log.Printf("Failed to submit task: %v", err)
	}

Non-blocking submission:

	if err := pool.SubmitWithTimeout(task, 0); errors.Is(err, types.ErrWorkerPoolFull) {
		log.Println("queue is full")
	}

Timers go through FixedWorkerPoolConfig.Clock, a quartz.Clock, so tests can drive them with a
mock clock.
*/
package worker
