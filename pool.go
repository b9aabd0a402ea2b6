package mapreduce

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Pool owns the workers of a single run and the result channel they share.
// The channel is buffered to the pool's capacity so every worker can deliver
// its result without a reader, which keeps late results of an abandoned run
// from blocking (and leaking) their goroutines.
type Pool[T any, U any] struct {
	name     string
	capacity int
	results  chan PartialResult[U]
	logger   *zap.Logger
	metrics  *Metrics

	mu      sync.RWMutex
	handles []*WorkerHandle
	wg      sync.WaitGroup
}

// NewPool creates a pool that can run up to capacity workers.
// logger and metrics may be nil.
func NewPool[T any, U any](name string, capacity int, logger *zap.Logger, metrics *Metrics) *Pool[T, U] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool[T, U]{
		name:     name,
		capacity: capacity,
		results:  make(chan PartialResult[U], capacity),
		logger:   logger,
		metrics:  metrics,
		handles:  make([]*WorkerHandle, 0, capacity),
	}
}

// Spawn starts a worker for item on this pool.
func (p *Pool[T, U]) Spawn(ctx context.Context, item WorkItem[T], transform TransformFunc[T, U]) (*WorkerHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.handles) >= p.capacity {
		return nil, ErrPoolExhausted
	}
	p.wg.Add(1)
	p.metrics.workerStarted()
	h := spawn(ctx, item, transform, p.results, p.workerDone)
	p.handles = append(p.handles, h)
	p.logger.Debug("worker spawned",
		zap.String("pool", p.name),
		zap.Int("chunk", item.Index),
		zap.Int("items", item.Len()))
	return h, nil
}

func (p *Pool[T, U]) workerDone(h *WorkerHandle) {
	p.metrics.workerFinished(h)
	if h.fault != nil {
		p.logger.Error("worker fault",
			zap.String("pool", p.name),
			zap.Int("chunk", h.chunk),
			zap.Any("panic", h.fault.Value),
			zap.ByteString("stack", h.fault.Stack))
	}
	p.wg.Done()
}

// Results returns the channel on which workers deliver their PartialResults.
func (p *Pool[T, U]) Results() <-chan PartialResult[U] {
	return p.results
}

// Wait joins every spawned worker and returns the faults of those that
// terminated abnormally, in spawn order.
func (p *Pool[T, U]) Wait() []*WorkerFault {
	p.wg.Wait()

	p.mu.RLock()
	defer p.mu.RUnlock()
	var faults []*WorkerFault
	for _, h := range p.handles {
		if err := h.Wait(); err != nil {
			faults = append(faults, err.(*WorkerFault))
		}
	}
	return faults
}

// IsRunning returns true if any worker in the pool is still running.
func (p *Pool[T, U]) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, h := range p.handles {
		if h.IsRunning() {
			return true
		}
	}
	return false
}

// Count returns the number of workers spawned so far.
func (p *Pool[T, U]) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handles)
}

// Handles returns a snapshot of the handles spawned so far.
func (p *Pool[T, U]) Handles() []*WorkerHandle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*WorkerHandle, len(p.handles))
	copy(out, p.handles)
	return out
}

// Name returns the pool's name.
func (p *Pool[T, U]) Name() string {
	return p.name
}
