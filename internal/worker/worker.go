package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

type ProcessFunc[T any] func(ctx context.Context, job T) error

// Pool runs a fixed number of workers over a buffered job queue.
type Pool[T any] struct {
	name       string
	numWorkers int
	jobs       chan T
	processor  ProcessFunc[T]
	wg         sync.WaitGroup

	processed atomic.Int64
	failed    atomic.Int64
}

func NewPool[T any](name string, numWorkers, bufferSize int, processor ProcessFunc[T]) *Pool[T] {
	return &Pool[T]{
		name:       name,
		numWorkers: max(numWorkers, 1),
		jobs:       make(chan T, bufferSize),
		processor:  processor,
	}
}

func (p *Pool[T]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool[T]) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil {
				p.failed.Add(1)
				slog.Debug("job failed", "pool", p.name, "worker", id, "error", err)
				continue
			}
			p.processed.Add(1)
		}
	}
}

// Submit queues a job, blocking while the queue is full. It reports false
// when ctx ends first.
func (p *Pool[T]) Submit(ctx context.Context, job T) bool {
	select {
	case p.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Stop closes the queue and waits for the workers. Submit must not be called afterwards.
func (p *Pool[T]) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Stats returns the number of successful and failed jobs so far.
func (p *Pool[T]) Stats() (processed, failed int64) {
	return p.processed.Load(), p.failed.Load()
}
