package engine

import (
	"context"
	"sync"
)

type jobResult[T, R any] struct {
	payload T
	value   R
	err     error
}

// workerPool is a fixed-size goroutine pool with a bounded input queue.
// Every accepted job produces exactly one result on Results.
type workerPool[T, R any] struct {
	queue   chan T
	results chan jobResult[T, R]
	process func(ctx context.Context, t T) (R, error)
	wg      sync.WaitGroup
}

// newWorkerPool creates and starts a pool with n goroutines and queue capacity cap.
func newWorkerPool[T, R any](ctx context.Context, n, cap int, fn func(context.Context, T) (R, error)) *workerPool[T, R] {
	if n < 1 {
		n = 1
	}
	p := &workerPool[T, R]{
		queue:   make(chan T, cap),
		results: make(chan jobResult[T, R], cap),
		process: fn,
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *workerPool[T, R]) run(ctx context.Context) {
	for {
		select {
		case t, ok := <-p.queue:
			if !ok {
				return
			}
			v, err := p.process(ctx, t)
			p.results <- jobResult[T, R]{payload: t, value: v, err: err}
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues a job, blocking while the queue is full. It returns false
// once ctx is done.
func (p *workerPool[T, R]) Submit(ctx context.Context, t T) bool {
	select {
	case p.queue <- t:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain closes the queue, waits for all workers to finish and then closes
// Results. Call it once, after the last Submit.
func (p *workerPool[T, R]) Drain() {
	close(p.queue)
	p.wg.Wait()
	close(p.results)
}

// Results yields one result per processed job until Drain completes.
func (p *workerPool[T, R]) Results() <-chan jobResult[T, R] {
	return p.results
}
