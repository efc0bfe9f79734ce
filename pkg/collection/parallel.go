package collection

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	cerrors "github.com/jzx17/collext/internal/errors"
	"github.com/jzx17/collext/pkg/types"
	"github.com/jzx17/collext/pkg/worker"
)

const (
	opForEach    = "ForEachInParallel"
	opForEachErr = "ForEachInParallelErr"
)

// visitTask runs the visitor for a single position on a pool worker
type visitTask[P comparable, T any] struct {
	id       string
	ordinal  int
	position P
	c        types.Collection[P, T]
	visit    func(T)
	aborted  func() bool
}

func (t *visitTask[P, T]) Execute(context.Context) error {
	if t.aborted() {
		return nil
	}
	t.visit(t.c.At(t.position))
	return nil
}

func (t *visitTask[P, T]) ID() string {
	return t.id
}

func (t *visitTask[P, T]) Ordinal() int {
	return t.ordinal
}

// ordinalOf recovers the traversal ordinal of a task submitted by ForEachInParallel
func ordinalOf(task types.Task) int {
	if ot, ok := task.(interface{ Ordinal() int }); ok {
		return ot.Ordinal()
	}
	return -1
}

// ForEachInParallel calls visit exactly once for every element of c, spreading the calls over
// a fixed pool of min(parallelism, count) goroutines. It returns once every call has returned.
// Visit order is unspecified.
//
// A panicking visitor does not bring the pool down; neither does one that calls runtime.Goexit,
// which is reported as a *types.PanicError wrapping types.ErrGoexit. Under PolicyPropagate (the
// default) and PolicyAbort the failure at the lowest position is re-raised in the caller as a
// *types.VisitorError wrapping the *types.PanicError, after all started visitors have finished.
// Under PolicyContinue failures are logged and the call returns normally.
func ForEachInParallel[P comparable, T any](c types.Collection[P, T], visit func(T), opts ...Option) {
	positions := Indices(c)
	if len(positions) == 0 {
		return
	}

	cfg := newConfig(PolicyPropagate, opts)
	collector := cerrors.NewCollector(opForEach, cfg.Policy, cfg.Logger)

	var wg sync.WaitGroup
	pool, err := worker.NewFixedWorkerPool(&worker.FixedWorkerPoolConfig{
		PoolSize:  min(cfg.Parallelism, len(positions)),
		QueueSize: len(positions),
		Clock:     cfg.Clock,
		Logger:    cfg.Logger,
		ErrorHandler: func(task types.Task, err error) error {
			collector.Record(context.Background(), ordinalOf(task), err)
			return nil
		},
		OnTaskDone: func(types.Task, time.Duration, error) {
			wg.Done()
		},
	})
	if err != nil {
		panic(fmt.Sprintf("collection: creating worker pool: %v", err))
	}

	if err := pool.Start(context.Background()); err != nil {
		panic(fmt.Sprintf("collection: starting worker pool: %v", err))
	}

	for i, p := range positions {
		wg.Add(1)
		task := &visitTask[P, T]{
			id:       fmt.Sprintf("%s-%d", opForEach, i),
			ordinal:  i,
			position: p,
			c:        c,
			visit:    visit,
			aborted:  collector.Aborted,
		}
		// The queue holds every position, so a non-blocking submit cannot find it full
		if err := pool.SubmitWithTimeout(task, 0); err != nil {
			wg.Done()
			collector.Record(context.Background(), i, err)
		}
	}

	wg.Wait()

	if err := pool.Close(); err != nil {
		cfg.Logger.Warn("closing worker pool", slog.String("operation", opForEach), slog.Any("error", err))
	}

	if first := collector.First(); first != nil {
		panic(first)
	}
}

// ForEachInParallelErr calls visit for every element of c with at most parallelism calls in
// flight, and waits for all of them. The context passed to visit is cancelled when ctx is, or
// when a visitor fails under PolicyAbort.
//
// The returned error depends on the policy:
//   - PolicyAbort (the default): the first failure; elements not yet started are skipped.
//   - PolicyPropagate: every element runs; all failures joined in traversal order.
//   - PolicyContinue: failures are logged and not returned.
//
// Every failure is a *types.VisitorError carrying the element's traversal position. Panics are
// converted into *types.PanicError, and a visitor that calls runtime.Goexit is reported as a
// *types.PanicError wrapping types.ErrGoexit. If ctx ends before every element was dispatched
// and no visitor failed, ctx.Err() is returned; a ctx that ends after dispatch completed is not
// an error.
func ForEachInParallelErr[P comparable, T any](
	ctx context.Context,
	c types.Collection[P, T],
	visit func(context.Context, T) error,
	opts ...Option,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	positions := Indices(c)
	if len(positions) == 0 {
		return nil
	}

	cfg := newConfig(PolicyAbort, opts)
	collector := cerrors.NewCollector(opForEachErr, cfg.Policy, cfg.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)

	interrupted := false
	for i, p := range positions {
		if collector.Aborted() || gctx.Err() != nil {
			interrupted = true
			break
		}
		g.Go(func() error {
			if collector.Aborted() {
				return nil
			}

			returned := false
			defer func() {
				if !returned {
					collector.Record(gctx, i, types.NewPanicError(types.ErrGoexit, debug.Stack()))
				}
			}()

			collector.Record(gctx, i, callVisitor(gctx, visit, c.At(p)))
			returned = true

			if collector.Aborted() {
				return collector.First()
			}
			return nil
		})
	}

	_ = g.Wait()

	var err error
	switch cfg.Policy {
	case PolicyAbort:
		err = collector.First()
	case PolicyPropagate:
		err = collector.Err()
	}
	if err == nil && interrupted {
		err = ctx.Err()
	}
	return err
}

func callVisitor[T any](ctx context.Context, visit func(context.Context, T) error, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = types.NewPanicError(r, buf[:n])
		}
	}()
	return visit(ctx, item)
}
