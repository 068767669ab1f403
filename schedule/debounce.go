package schedule

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled callback once the delay has
// passed without another Schedule. It is trailing-edge and single-flight.
type Debouncer struct {
	clock Clock
	delay time.Duration
	post  func(func())

	mu      sync.Mutex
	gen     uint64
	timer   Timer
	pending bool
}

// NewDebouncer creates a debouncer whose fired callbacks are handed to post,
// normally a Loop's Do. A nil post runs them on the timer goroutine.
func NewDebouncer(clock Clock, delay time.Duration, post func(func())) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Debouncer{clock: clock, delay: delay, post: post}
}

// Delay returns the debounce window.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule replaces any pending callback with fn and restarts the window.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.post(func() { d.fire(gen, fn) })
	})
}

// Cancel drops the pending callback without running it. It reports
// whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	was := d.pending
	d.gen++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return was
}

// Pending reports whether a callback is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) fire(gen uint64, fn func()) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	fn()
}
