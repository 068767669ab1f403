package schedule

import (
	"context"
	"sync"
)

// Tracker counts in-flight goroutines so callers can wait for them to finish.
type Tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

// Go runs fn on a new goroutine and tracks it until fn returns.
func (t *Tracker) Go(fn func()) {
	t.mu.Lock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
	t.mu.Unlock()

	go func() {
		defer t.done()
		fn()
	}()
}

func (t *Tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

// Idle reports whether nothing is in flight.
func (t *Tracker) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n == 0
}

// Wait blocks until nothing is in flight or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return nil
	}
	idle := t.idle
	t.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
