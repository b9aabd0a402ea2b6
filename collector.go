package mapreduce

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Collector receives PartialResults from a result channel and folds the
// successful ones into an accumulator. It waits for an expected number of
// results and never returns a partial aggregate as a success.
type Collector[U any, A any] struct {
	Reduce   ReduceFunc[A, U]
	Identity A
	Policy   Policy
	// Timeout bounds the whole wait. Zero means wait until ctx is done.
	Timeout time.Duration
	// OnResult, if set, is called for every result received, before it is folded.
	OnResult func(res PartialResult[U])
	Logger   *zap.Logger
}

// CollectorOption is a functional option for configuring a Collector
type CollectorOption[U any, A any] func(*Collector[U, A])

// WithCollectPolicy sets the failure policy for the collector
func WithCollectPolicy[U any, A any](policy Policy) CollectorOption[U, A] {
	return func(c *Collector[U, A]) {
		c.Policy = policy
	}
}

// WithCollectTimeout sets the deadline for the whole collection
func WithCollectTimeout[U any, A any](timeout time.Duration) CollectorOption[U, A] {
	return func(c *Collector[U, A]) {
		c.Timeout = timeout
	}
}

// NewCollector creates a fail-fast collector without a timeout that folds
// values with reduce starting from identity.
func NewCollector[U any, A any](reduce ReduceFunc[A, U], identity A, opts ...CollectorOption[U, A]) *Collector[U, A] {
	out := &Collector[U, A]{
		Reduce:   reduce,
		Identity: identity,
		Policy:   FailFast,
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Collect reads results until expected distinct chunks have reported.
//
// Under FailFast the first failed result ends the collection with a
// *CollectionError holding that failure. Under CollectAll every result is
// read and all failures are returned together. A *TimeoutError is returned if
// Timeout elapses first; if ctx is done first its error is returned wrapped.
// On any error the returned accumulator is the zero value.
func (c *Collector[U, A]) Collect(ctx context.Context, results <-chan PartialResult[U], expected int) (A, error) {
	var zero A
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	acc := c.Identity
	if expected <= 0 {
		return acc, nil
	}

	var deadline <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	seen := make(map[int]bool, expected)
	var failures []error
	for len(seen) < expected {
		select {
		case res, ok := <-results:
			if !ok {
				return zero, fmt.Errorf("%w after %d of %d results", ErrChannelClosed, len(seen), expected)
			}
			if seen[res.Chunk] {
				logger.Warn("duplicate result ignored", zap.Int("chunk", res.Chunk))
				continue
			}
			seen[res.Chunk] = true
			if c.OnResult != nil {
				c.OnResult(res)
			}
			if res.Failed() {
				logger.Debug("failed result", zap.Int("chunk", res.Chunk), zap.Error(res.Err))
				failures = append(failures, res.Err)
				if c.Policy == FailFast {
					return zero, newCollectionError(failures)
				}
				continue
			}
			if len(failures) == 0 {
				acc = c.Reduce(acc, res.Value)
			}
		case <-deadline:
			return zero, &TimeoutError{After: c.Timeout, Received: len(seen), Expected: expected}
		case <-ctx.Done():
			return zero, fmt.Errorf("mapreduce: collection cancelled after %d of %d results: %w",
				len(seen), expected, ctx.Err())
		}
	}

	if len(failures) > 0 {
		return zero, newCollectionError(failures)
	}
	return acc, nil
}
