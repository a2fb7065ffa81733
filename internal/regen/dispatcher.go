package regen

import (
	"context"
	"sync"
)

// Dispatcher is the single event queue that owns all scheduler state.
// Any goroutine may Post; only the goroutine calling Drain or Run executes
// the posted functions.
type Dispatcher struct {
	mu    sync.Mutex
	queue []func()
	ready chan struct{}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{ready: make(chan struct{}, 1)}
}

// Post queues fn for execution on the processing goroutine.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after Post. Frame loops can poll Drain instead.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Drain runs queued functions, including ones posted while draining, until
// the queue is empty. It returns how many ran.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		d.mu.Lock()
		q := d.queue
		d.queue = nil
		d.mu.Unlock()

		if len(q) == 0 {
			return n
		}
		for _, fn := range q {
			fn()
			n++
		}
	}
}

// Run drains the queue whenever work arrives until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ready:
			d.Drain()
		}
	}
}
