// Package debounce delays a call until input has been quiet for a window.
// Only the last triggered call runs; earlier pending calls are dropped.
package debounce

import (
	"sync"
	"time"
)

const DefaultWait = 300 * time.Millisecond

type Debouncer struct {
	wait  time.Duration
	clock Clock

	mu      sync.Mutex
	timer   Timer
	pending func()
	gen     uint64
}

func New(wait time.Duration, clock Clock) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{wait: wait, clock: clock}
}

// Trigger replaces any pending call with fn and restarts the window.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.take()
	d.mu.Unlock()
	fn()
}

// take clears the pending call and returns it. d.mu must be held.
func (d *Debouncer) take() func() {
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.gen++
	return fn
}

// Flush runs the pending call immediately. It reports whether one was
// pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	fn := d.take()
	d.mu.Unlock()
	fn()
	return true
}

// Stop drops the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.timer = nil
	d.gen++
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) Wait() time.Duration {
	return d.wait
}
