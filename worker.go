package mapreduce

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// WorkerHandle is a reference to a running worker goroutine. It is only used
// to wait for the worker to terminate and to find out whether it terminated
// abnormally.
type WorkerHandle struct {
	chunk    int
	started  time.Time
	finished time.Time
	running  atomic.Bool
	fault    *WorkerFault
	err      error // transform error, if any
	doneChan chan struct{}
	onDone   func(h *WorkerHandle)
}

// Spawn starts a worker goroutine for item. The worker applies transform to
// the chunk and sends exactly one PartialResult on results, then terminates.
//
// results must have spare capacity for this worker's result; a worker never
// waits on a collector that may have stopped listening. If transform panics
// (or calls runtime.Goexit) the fault is recorded on the handle and a
// PartialResult carrying the *WorkerFault is sent in place of the value.
func Spawn[T any, U any](ctx context.Context, item WorkItem[T], transform TransformFunc[T, U], results chan<- PartialResult[U]) *WorkerHandle {
	return spawn(ctx, item, transform, results, nil)
}

func spawn[T any, U any](ctx context.Context, item WorkItem[T], transform TransformFunc[T, U],
	results chan<- PartialResult[U], onDone func(*WorkerHandle)) *WorkerHandle {
	h := &WorkerHandle{
		chunk:    item.Index,
		started:  time.Now(),
		doneChan: make(chan struct{}),
		onDone:   onDone,
	}
	h.running.Store(true)

	go func() {
		returned := false
		defer func() {
			if !returned {
				// recover is nil for runtime.Goexit; the worker still produced nothing
				h.fault = &WorkerFault{Chunk: item.Index, Value: recover(), Stack: debug.Stack()}
				results <- PartialResult[U]{Chunk: item.Index, Err: h.fault}
			}
			h.cleanup()
		}()

		value, err := transform(ctx, item.Items)
		returned = true
		if err != nil {
			h.err = &WorkerError{Chunk: item.Index, Err: err}
			results <- PartialResult[U]{Chunk: item.Index, Err: h.err}
			return
		}
		results <- PartialResult[U]{Chunk: item.Index, Value: value}
	}()
	return h
}

func (h *WorkerHandle) cleanup() {
	h.finished = time.Now()
	h.running.Store(false)
	if h.onDone != nil {
		h.onDone(h)
	}
	close(h.doneChan)
}

// Chunk returns the index of the WorkItem this worker was given.
func (h *WorkerHandle) Chunk() int {
	return h.chunk
}

// Done returns a channel that is closed once the worker has terminated,
// normally or not.
func (h *WorkerHandle) Done() <-chan struct{} {
	return h.doneChan
}

// Wait blocks until the worker terminates. It returns a *WorkerFault if the
// worker terminated abnormally and nil otherwise. Errors returned by the
// transform are reported through the result channel, not here.
func (h *WorkerHandle) Wait() error {
	<-h.doneChan
	if h.fault != nil {
		return h.fault
	}
	return nil
}

// IsRunning returns true until the worker has terminated.
func (h *WorkerHandle) IsRunning() bool {
	return h.running.Load()
}

// Duration returns how long the worker ran, or 0 if it is still running.
func (h *WorkerHandle) Duration() time.Duration {
	select {
	case <-h.doneChan:
		return h.finished.Sub(h.started)
	default:
		return 0
	}
}
