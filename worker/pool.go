// Package worker runs capture submissions off the UI goroutine with strict
// back-pressure: one queued job at most, so a second submission while one is
// in flight is rejected instead of piling up.
package worker

import (
	"context"
	"sync"

	"zoom-attendance-llm/capture"
)

// ResultCallback is invoked on completion (from a worker goroutine). UI
// layers should pass a closure that posts back onto their own thread safely.
type ResultCallback func(outcome capture.Outcome, err error)

// Pool is a fixed-size submission pool with a 1-slot input queue.
type Pool struct {
	flow *capture.Flow
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx   context.Context
	image []byte
	cb    ResultCallback
}

// New creates a pool of size workers over the given flow. Size defaults to 1
// when size <= 0; the reference behavior is one submission at a time.
func New(flow *capture.Flow, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{flow: flow, jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				outcome, err := p.flow.Submit(j.ctx, j.image)
				j.cb(outcome, err)
			}
		}()
	}
}

// Submit enqueues a submission if the single-slot queue is free. Returns
// false if dropped.
func (p *Pool) Submit(ctx context.Context, image []byte, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, image: image, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
