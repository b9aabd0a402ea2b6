package mapreduce

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidConfiguration = errors.New("mapreduce: invalid configuration")
	ErrWorkerFailed         = errors.New("mapreduce: worker failed")
	ErrTimeout              = errors.New("mapreduce: collection timed out")
	ErrPoolExhausted        = errors.New("mapreduce: pool capacity exhausted")
	ErrChannelClosed        = errors.New("mapreduce: result channel closed")
)

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// WorkerError is a failure returned by a transform for a specific chunk.
type WorkerError struct {
	Chunk int
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("mapreduce: chunk %d: %v", e.Chunk, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// WorkerFault records a worker goroutine that terminated without returning,
// either by panicking or through runtime.Goexit. Value is whatever was passed
// to panic (nil for Goexit).
type WorkerFault struct {
	Chunk int
	Value any
	Stack []byte
}

func (e *WorkerFault) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("mapreduce: worker for chunk %d exited without a result", e.Chunk)
	}
	return fmt.Sprintf("mapreduce: worker for chunk %d panicked: %v", e.Chunk, e.Value)
}

// CollectionError is returned when one or more workers failed. Under FailFast
// it holds exactly one failure; under CollectAll it holds every failure,
// sorted by chunk index.
type CollectionError struct {
	Failures []error
}

func newCollectionError(failures []error) *CollectionError {
	sort.SliceStable(failures, func(i, j int) bool {
		return chunkOf(failures[i]) < chunkOf(failures[j])
	})
	return &CollectionError{Failures: failures}
}

func (e *CollectionError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("%v: %v", ErrWorkerFailed, e.Failures[0])
	}
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%v: %d failures: %s", ErrWorkerFailed, len(e.Failures), strings.Join(msgs, "; "))
}

// Is reports ErrWorkerFailed so callers do not need errors.As for the common check.
func (e *CollectionError) Is(target error) bool {
	return target == ErrWorkerFailed
}

func (e *CollectionError) Unwrap() []error {
	return e.Failures
}

// First returns the first failure in chunk order.
func (e *CollectionError) First() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0]
}

// Chunks returns the chunk indexes that failed.
func (e *CollectionError) Chunks() []int {
	out := make([]int, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, chunkOf(f))
	}
	return out
}

// TimeoutError is returned when the collector gave up waiting. Workers that
// were still running are not stopped.
type TimeoutError struct {
	After    time.Duration
	Received int
	Expected int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v after %s (%d of %d results received)", ErrTimeout, e.After, e.Received, e.Expected)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func chunkOf(err error) int {
	var we *WorkerError
	if errors.As(err, &we) {
		return we.Chunk
	}
	var wf *WorkerFault
	if errors.As(err, &wf) {
		return wf.Chunk
	}
	return -1
}
