package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/briefd/briefd/internal/pipeline"
)

// ErrQueueFull is returned when a submission would exceed the configured
// queue capacity. Callers surface it as a synchronous admission error.
var ErrQueueFull = errors.New("job queue is full")

// Pool runs pipeline jobs on a fixed number of worker goroutines with a
// bounded queue. Submissions never block the request path: a full queue is
// rejected immediately instead of fanning out unbounded goroutines.
type Pool struct {
	workers int
	jobs    chan pipeline.Request
	runner  *pipeline.Runner
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPool creates a worker pool that executes jobs through the runner
func NewPool(workers, queueSize int, runner *pipeline.Runner) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan pipeline.Request, queueSize),
		runner:  runner,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	slog.Info("Starting worker pool",
		"workers", p.workers,
		"queue_size", cap(p.jobs),
	)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the queue and waits for in-flight jobs to finish
func (p *Pool) Stop() {
	slog.Info("Stopping worker pool")

	close(p.jobs)
	p.wg.Wait()
	p.cancel()

	slog.Info("Worker pool stopped")
}

// Submit enqueues a job for background execution. It returns ErrQueueFull
// without blocking when the queue is at capacity.
func (p *Pool) Submit(req pipeline.Request) error {
	select {
	case p.jobs <- req:
		slog.Debug("Job submitted to worker pool",
			"job_id", req.JobID,
			"queue_length", len(p.jobs),
		)
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueLength returns the current number of queued jobs
func (p *Pool) QueueLength() int {
	return len(p.jobs)
}

// worker is the goroutine that drains the job queue
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)

	for req := range p.jobs {
		slog.Debug("Worker processing job",
			"worker_id", id,
			"job_id", req.JobID,
		)
		p.runner.Run(p.ctx, req)
	}

	slog.Debug("Worker stopped", "worker_id", id)
}
