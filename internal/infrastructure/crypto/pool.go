package crypto

import (
	"context"
	"errors"
	"runtime"

	"github.com/rs/zerolog"
)

const channelBuffer = 256

// ErrPoolStopped is returned for work submitted after the pool shut down.
var ErrPoolStopped = errors.New("worker pool stopped")

// task is one unit of CPU-bound work and the channel its submitter waits on.
type task struct {
	fn   func()
	done chan struct{}
}

// WorkerPool runs CPU-bound jobs on a fixed number of goroutines so that a
// burst of password hashing cannot occupy every core.
type WorkerPool struct {
	tasks   chan task
	workers int
	stopped chan struct{}
	log     zerolog.Logger

	// depth observes the queue length after each enqueue and dequeue.
	depth func(n int)
}

// NewWorkerPool creates a pool with numWorkers workers.
// If numWorkers <= 0, GOMAXPROCS is used.
func NewWorkerPool(numWorkers int, log zerolog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{
		tasks:   make(chan task, channelBuffer),
		workers: numWorkers,
		stopped: make(chan struct{}),
		log:     log,
		depth:   func(int) {},
	}
}

// ObserveDepth registers fn to receive the queue length.
func (p *WorkerPool) ObserveDepth(fn func(n int)) {
	if fn != nil {
		p.depth = fn
	}
}

// Start launches the workers. They stop when ctx is cancelled.
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
		p.log.Debug().Int("workers", p.workers).Msg("worker pool stopped")
	}()
}

// Do runs fn on a worker and waits for it. It returns early when ctx is done
// or the pool is stopped; fn may still run in that case.
func (p *WorkerPool) Do(ctx context.Context, fn func()) error {
	select {
	case <-p.stopped:
		return ErrPoolStopped
	default:
	}

	t := task{fn: fn, done: make(chan struct{})}
	select {
	case p.tasks <- t:
		p.depth(len(p.tasks))
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopped:
		return ErrPoolStopped
	}
}

func (p *WorkerPool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.tasks:
			p.depth(len(p.tasks))
			t.fn()
			close(t.done)
		}
	}
}
