package worker

import (
	"sync"
)

// Task is a unit of work executed by the pool.
type Task func()

// Pool runs tasks on a fixed set of goroutines fed by a bounded queue.
type Pool struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	jobs   chan Task
	closed bool
}

// NewPool starts n workers draining a queue of the given capacity.
func NewPool(n, queueSize int) *Pool {
	if n <= 0 {
		n = 1
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	p := &Pool{jobs: make(chan Task, queueSize)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// TrySubmit enqueues f without blocking. It returns false when the queue is
// full or the pool has been stopped.
func (p *Pool) TrySubmit(f Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- f:
		return true
	default:
		return false
	}
}

// Len returns the number of queued tasks.
func (p *Pool) Len() int {
	return len(p.jobs)
}

// Stop rejects new tasks and waits for queued ones to finish. It is safe to call twice.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
