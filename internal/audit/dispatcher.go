package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher forwards events to a Sink from a single background goroutine.
// A nil *Dispatcher is valid and discards everything.
//
// Every event passed to Emit is either delivered to the sink or counted in
// Dropped, including events that arrive after Close.
type Dispatcher struct {
	cfg     Config
	sink    Sink
	queue   chan Event
	stopped chan struct{}
	dropped atomic.Uint64

	// mu orders sends on queue against Close closing it.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher, or returns nil when cfg.Enabled is false.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = noopSink{}
	}

	d := &Dispatcher{
		cfg:     cfg,
		sink:    sink,
		queue:   make(chan Event, cfg.BufferSize),
		stopped: make(chan struct{}),
	}
	go d.deliver()
	return d
}

// deliver runs until Close closes the queue and everything buffered has
// reached the sink.
func (d *Dispatcher) deliver() {
	defer close(d.stopped)
	ctx := context.Background()
	for event := range d.queue {
		d.sink.Emit(ctx, event)
	}
}

// Emit queues event. With DropIfFull it never waits; otherwise it waits for
// buffer space until ctx is done. Refused events are counted in Dropped.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.dropped.Add(1)
	}
}

// Close stops accepting events, flushes the buffer to the sink and waits for
// the worker to exit. It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.stopped
}

// Dropped returns the number of events that never reached the sink.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
