// Package parallel provides the bounded worker pool used to expand
// independent molecules concurrently.
package parallel

import (
	"context"
	"sync"
)

// Pool runs submitted tasks on a fixed number of worker goroutines.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// NewPool starts a pool with the given number of workers. Non-positive
// counts fall back to a single worker.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{tasks: make(chan func(), workers*2)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit queues a task. Blocks when all workers are busy and the queue is
// full.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}

// ForEach runs fn for every index in [0, n) across the pool's workers and
// returns the first error by index order. A cancelled context stops new
// tasks from starting; tasks already running finish.
func ForEach(ctx context.Context, workers, n int, fn func(i int) error) error {
	p := NewPool(workers)

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(i)
		})
	}
	p.Close()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
