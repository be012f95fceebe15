package worker

import (
	"context"
	"sync"
)

// Job is one unit of screening work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed set of worker goroutines
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. After Shutdown it returns without blocking.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and
// returns every result. Call it exactly once, after all Submits.
func (p *Pool) Wait() []Result {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Shutdown cancels in-flight jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
