// Package workers runs a fixed number of goroutines that drain a queue.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"mercator-hq/waypoint/pkg/queue"
)

// Handler services one job to completion.
type Handler[T any] func(ctx context.Context, job T)

// Pool is a fixed set of workers, each popping a job from the queue and
// running the handler synchronously before popping the next. The pool size
// is the upper bound on concurrently serviced jobs; the rest wait queued.
type Pool[T any] struct {
	size    int
	queue   *queue.Queue[T]
	handler Handler[T]
	logger  *slog.Logger

	busy    atomic.Int64
	running atomic.Int64
	started atomic.Bool
	wg      sync.WaitGroup
}

// New creates a pool of size workers over q.
func New[T any](size int, q *queue.Queue[T], handler Handler[T], logger *slog.Logger) (*Pool[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("worker pool size must be positive, got %d", size)
	}
	if q == nil || handler == nil {
		return nil, fmt.Errorf("worker pool requires a queue and a handler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pool[T]{
		size:    size,
		queue:   q,
		handler: handler,
		logger:  logger,
	}, nil
}

// Start launches the workers. They run until the queue is closed. ctx is
// passed to every handler call. Calling Start twice is a no-op.
func (p *Pool[T]) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.work(ctx, i)
	}
	p.logger.Info("Worker pool started", "workers", p.size)
}

// Wait blocks until every worker has exited.
func (p *Pool[T]) Wait() {
	p.wg.Wait()
}

// Size returns the fixed number of workers.
func (p *Pool[T]) Size() int {
	return p.size
}

// Busy returns the number of workers currently running a handler.
func (p *Pool[T]) Busy() int {
	return int(p.busy.Load())
}

// Running returns the number of live worker goroutines.
func (p *Pool[T]) Running() int {
	return int(p.running.Load())
}

func (p *Pool[T]) work(ctx context.Context, id int) {
	defer p.wg.Done()
	p.running.Add(1)
	defer p.running.Add(-1)

	for {
		job, ok := p.queue.Pop()
		if !ok {
			p.logger.Debug("Worker exiting", "worker", id)
			return
		}
		p.run(ctx, id, job)
	}
}

// run isolates a panicking handler so it takes down only its own job.
func (p *Pool[T]) run(ctx context.Context, id int, job T) {
	p.busy.Add(1)
	defer p.busy.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker recovered from panic", "worker", id, "panic", r)
		}
	}()

	p.handler(ctx, job)
}
