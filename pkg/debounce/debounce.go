// Package debounce collapses bursts of calls into one trailing call.
//
// Each Trigger cancels the pending call, if any, and schedules the new one
// after the window. Only the last function passed within a quiet window
// runs.
//
//	d := debounce.New(500 * time.Millisecond)
//	defer d.Stop()
//
//	for change := range changes {
//	    v := change.Value
//	    d.Trigger(func() { save(v) })
//	}
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithAfterFunc replaces the timer source. Tests use it to drive time by hand.
func WithAfterFunc(fn AfterFunc) Option {
	return func(d *Debouncer) {
		d.afterFunc = fn
	}
}

// Debouncer is a trailing-edge debouncer. It is safe for concurrent use.
type Debouncer struct {
	window    time.Duration
	afterFunc AfterFunc

	// run is held while a call executes, so calls never overlap and finish
	// in the order they were taken.
	run sync.Mutex

	mu      sync.Mutex
	timer   Timer
	pending func()
	gen     uint64
	stopped bool
}

// New creates a debouncer with the given quiet window.
// A window <= 0 runs every call synchronously.
func New(window time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		window: window,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Window returns the quiet window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Trigger schedules fn to run once the window passes without another
// Trigger. A pending call is cancelled. Calls after Stop are ignored.
func (d *Debouncer) Trigger(fn func()) {
	if d.window <= 0 {
		d.run.Lock()
		defer d.run.Unlock()
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.afterFunc(d.window, func() {
		d.fire(gen)
	})
}

// fire runs the pending call if it still belongs to generation gen.
// A timer that was stopped too late to prevent its callback, or that
// waited behind a running call while a newer one was scheduled, sees a
// newer generation and does nothing.
func (d *Debouncer) fire(gen uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush runs the pending call now, on the caller's goroutine, after any
// call already running has finished. It reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	fn := d.pending
	if fn == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
	return true
}

// Stop cancels the pending call and ignores future triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = nil
	d.timer = nil
	d.stopped = true
}
