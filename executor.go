package mapreduce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor runs a bounded parallel map-reduce: it partitions the input into
// one chunk per worker, transforms every chunk on its own goroutine and folds
// the results into a single value.
//
// An Executor holds no per-run state and may be used by several goroutines
// at once; every run gets its own pool and result channel.
type Executor[T any, U any, A any] struct {
	transform TransformFunc[T, U]
	reduce    ReduceFunc[A, U]
	identity  A
	settings  Settings
}

// New creates an executor. Options are applied on top of DefaultSettings.
// Configuration errors are reported by Run, before any worker is spawned.
func New[T any, U any, A any](transform TransformFunc[T, U], reduce ReduceFunc[A, U], identity A, opts ...Option) *Executor[T, U, A] {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Logger == nil {
		settings.Logger = zap.NewNop()
	}
	return &Executor[T, U, A]{
		transform: transform,
		reduce:    reduce,
		identity:  identity,
		settings:  settings,
	}
}

// Run is a convenience wrapper that builds an Executor with the given worker
// count and runs it once.
func Run[T any, U any, A any](ctx context.Context, input []T, workers int,
	transform TransformFunc[T, U], reduce ReduceFunc[A, U], identity A, opts ...Option) (A, error) {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithWorkers(workers))
	return New(transform, reduce, identity, all...).Run(ctx, input)
}

// Settings returns a copy of the executor's settings.
func (e *Executor[T, U, A]) Settings() Settings {
	return e.settings
}

// Run processes input and returns the aggregate, or the identity value when
// input is empty. See RunWithReport.
func (e *Executor[T, U, A]) Run(ctx context.Context, input []T) (A, error) {
	acc, _, err := e.RunWithReport(ctx, input)
	return acc, err
}

// RunWithReport processes input and also returns a Report of the run.
//
// Errors:
//   - ErrInvalidConfiguration if the settings or functions are unusable; no
//     worker is spawned.
//   - *CollectionError (errors.Is ErrWorkerFailed) if workers failed. All
//     workers have terminated when it is returned.
//   - *TimeoutError (errors.Is ErrTimeout) if Timeout elapsed, or the ctx
//     error if ctx was done first. Workers still running are left to finish
//     on their own; their context is cancelled.
func (e *Executor[T, U, A]) RunWithReport(ctx context.Context, input []T) (A, *Report, error) {
	var zero A
	start := time.Now()
	runID := uuid.NewString()
	logger := e.settings.Logger.With(zap.String("run_id", runID))
	rs := &runState{runID: runID, hook: e.settings.OnStateChange, logger: logger}

	finish := func(pool *Pool[T, U], chunks int, outcome string, err error) *Report {
		elapsed := time.Since(start)
		e.settings.Metrics.runFinished(outcome, elapsed)
		var handles []*WorkerHandle
		if pool != nil {
			handles = pool.Handles()
		}
		report := newReport(runID, rs.state, chunks, elapsed, handles)
		if err != nil {
			logger.Warn("run failed",
				zap.String("outcome", outcome),
				zap.Int("chunks", chunks),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
		} else {
			logger.Info("run finished",
				zap.Int("chunks", chunks),
				zap.Duration("elapsed", elapsed))
		}
		return report
	}

	// --- PARTITIONING ---
	rs.to(StatePartitioning)
	if err := e.validate(); err != nil {
		rs.to(StateFailed)
		return zero, finish(nil, 0, "invalid", err), err
	}
	items, err := Partition(input, e.settings.Workers)
	if err != nil {
		rs.to(StateFailed)
		return zero, finish(nil, 0, "invalid", err), err
	}
	if len(items) == 0 {
		rs.to(StateSucceeded)
		return e.identity, finish(nil, 0, "succeeded", nil), nil
	}

	// --- DISPATCHING ---
	rs.to(StateDispatching)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool := NewPool[T, U](runID, len(items), logger, e.settings.Metrics)
	for _, item := range items {
		if _, err := pool.Spawn(runCtx, item, e.transform); err != nil {
			cancel()
			pool.Wait()
			rs.to(StateFailed)
			return zero, finish(pool, len(items), "failed", err), err
		}
	}

	// --- COLLECTING ---
	rs.to(StateCollecting)
	collector := &Collector[U, A]{
		Reduce:   e.reduce,
		Identity: e.identity,
		Policy:   e.settings.Policy,
		Timeout:  e.settings.Timeout,
		Logger:   logger,
	}
	acc, err := collector.Collect(ctx, pool.Results(), len(items))
	if err == nil {
		pool.Wait()
		rs.to(StateSucceeded)
		return acc, finish(pool, len(items), "succeeded", nil), nil
	}

	cancel()
	outcome := "failed"
	switch {
	case errors.Is(err, ErrTimeout):
		outcome = "timeout"
	case ctx.Err() != nil && !errors.Is(err, ErrWorkerFailed):
		outcome = "cancelled"
	default:
		// fail-fast may leave workers running; they must be joined before returning
		pool.Wait()
	}
	rs.to(StateFailed)
	return zero, finish(pool, len(items), outcome, err), err
}

func (e *Executor[T, U, A]) validate() error {
	if e.transform == nil {
		return invalidConfig("transform function is nil")
	}
	if e.reduce == nil {
		return invalidConfig("reduce function is nil")
	}
	return e.settings.validate()
}
