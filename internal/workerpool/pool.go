// Package workerpool runs tasks on a fixed number of goroutines.
//
// Submission never blocks: the queue is unbounded, so a running task may
// submit more tasks without deadlocking the pool. Wait joins every task
// submitted so far, including the ones submitted by other tasks while
// waiting.
package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned when a task is submitted to a closed pool.
var ErrClosed = errors.New("workerpool: pool is closed")

// Task is a unit of work run by the pool.
type Task func()

// Stats is a snapshot of the pool counters.
type Stats struct {
	Width     int
	Submitted int64
	Running   int64
	Peak      int64
}

// Pool is a bounded-width executor with a FIFO queue.
type Pool struct {
	logger logr.Logger
	width  int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool

	pending sync.WaitGroup
	workers errgroup.Group

	submitted atomic.Int64
	running   atomic.Int64
	peak      atomic.Int64
}

// New starts a pool of width workers, at least one.
func New(logger logr.Logger, width int) (p *Pool) {
	width = max(width, 1)
	p = &Pool{
		logger: logger.WithName("workerpool"),
		width:  width,
	}
	p.cond = sync.NewCond(&p.mu)
	for range width {
		p.workers.Go(p.work)
	}
	return
}

// Go enqueues task. It never blocks.
func (p *Pool) Go(task Task) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.pending.Add(1)
	p.queue = append(p.queue, task)
	p.submitted.Add(1)
	p.cond.Signal()
	return
}

// Wait blocks until every submitted task has returned. It must not be
// called from a task.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Close stops the workers once the queue is drained. Tasks submitted after
// Close are rejected with ErrClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	_ = p.workers.Wait()
	p.logger.V(1).Info("closed worker pool", "submitted", p.submitted.Load(), "peak", p.peak.Load())
}

// Width returns the number of workers.
func (p *Pool) Width() int {
	return p.width
}

func (p *Pool) Stats() Stats {
	return Stats{
		Width:     p.width,
		Submitted: p.submitted.Load(),
		Running:   p.running.Load(),
		Peak:      p.peak.Load(),
	}
}

func (p *Pool) work() error {
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return nil
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	storeMax(&p.peak, p.running.Add(1))
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(fmt.Errorf("panic: %v", r), "task panicked")
		}
		p.running.Add(-1)
		p.pending.Done()
	}()
	task()
}

func storeMax(v *atomic.Int64, n int64) {
	for {
		current := v.Load()
		if n <= current || v.CompareAndSwap(current, n) {
			return
		}
	}
}
