package mapreduce

import "context"

// WorkItem is one contiguous chunk of the input. Items is a private copy of the
// input slice so the worker that receives it owns it exclusively.
type WorkItem[T any] struct {
	Index int // position of the chunk in partition order
	Items []T
}

// Len returns the number of input elements in the chunk.
func (w WorkItem[T]) Len() int {
	return len(w.Items)
}

// PartialResult is what a single worker delivers to the collector: either a
// value or an error, tagged with the chunk it belongs to.
type PartialResult[U any] struct {
	Chunk int   // index of the WorkItem that produced this result
	Value U     // valid only when Err is nil
	Err   error // *WorkerError or *WorkerFault
}

// Failed returns true if the result carries an error instead of a value.
func (p PartialResult[U]) Failed() bool {
	return p.Err != nil
}

// TransformFunc maps the items of one chunk to an intermediate value.
// ctx is cancelled once the run no longer needs the result.
type TransformFunc[T any, U any] func(ctx context.Context, items []T) (U, error)

// ReduceFunc folds an intermediate value into the accumulator. It must be
// commutative and associative: results arrive in completion order, not chunk
// order.
type ReduceFunc[A any, U any] func(acc A, value U) A
