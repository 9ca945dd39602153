// Package queue implements the work-queue port as a bounded in-process
// worker pool.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WorkQueue = (*Pool)(nil)

type job struct {
	id   string
	name string
	run  func(ctx context.Context)
}

// Pool runs submitted jobs on a fixed set of workers. Each job runs at most
// once; a job accepted before shutdown still runs (the buffer is drained),
// but its context is canceled, so blocking work inside it ends promptly.
type Pool struct {
	jobs    chan job
	workers int

	startOnce sync.Once
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and job buffer depth.
func NewPool(workers, depth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 1
	}
	return &Pool{
		jobs:    make(chan job, depth),
		workers: workers,
	}
}

// Start launches the workers. It blocks until ctx is canceled and every
// buffered job has been drained; run it on its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(ctx, i)
		}
	})

	<-ctx.Done()

	p.mu.Lock()
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	slog.Info("work queue stopped")
}

func (p *Pool) worker(ctx context.Context, n int) {
	defer p.wg.Done()

	for j := range p.jobs {
		p.runJob(ctx, n, j)
	}
}

// runJob isolates one job execution so a panicking job takes down neither
// its worker nor the process.
func (p *Pool) runJob(ctx context.Context, worker int, j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("background job panicked",
				"job", j.name,
				"job_id", j.id,
				"worker", worker,
				"panic", r,
			)
		}
	}()

	slog.Debug("background job started", "job", j.name, "job_id", j.id, "worker", worker)
	j.run(ctx)
	slog.Debug("background job finished", "job", j.name, "job_id", j.id, "worker", worker)
}

// Submit enqueues a job without blocking. It returns ErrQueueFull when the
// buffer is full and an error when the pool has shut down.
func (p *Pool) Submit(d driven.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("submitting %q: queue is shut down", d.Name)
	}

	j := job{
		id:   uuid.NewString(),
		name: d.Name,
		run:  d.Run,
	}

	select {
	case p.jobs <- j:
		return nil
	default:
		return fmt.Errorf("submitting %q: %w", d.Name, driven.ErrQueueFull)
	}
}
