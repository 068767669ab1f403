package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

// Recorder is a Publisher that keeps every change in memory.
type Recorder struct {
	mu      sync.Mutex
	changes []core.Change
	closed  bool
}

var _ core.Publisher = (*Recorder)(nil)

func (r *Recorder) Publish(_ context.Context, change core.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Changes returns the recorded changes.
func (r *Recorder) Changes() []core.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Change(nil), r.changes...)
}

// Actions returns the recorded action types in order.
func (r *Recorder) Actions() []primitives.ActionType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]primitives.ActionType, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Action.Type
	}
	return out
}

// Statuses returns the distinct consecutive statuses seen, starting from IDLE.
func (r *Recorder) Statuses() []primitives.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []primitives.Status{primitives.StatusIdle}
	for _, c := range r.changes {
		if out[len(out)-1] != c.Status {
			out = append(out, c.Status)
		}
	}
	return out
}

// ObserverRecorder is an Observer that counts what it sees.
type ObserverRecorder struct {
	mu          sync.Mutex
	Accepted    int
	Dropped     int
	Transitions [][2]primitives.Status
	Validations []error
	Submits     []error
}

var _ core.Observer = (*ObserverRecorder)(nil)

func (o *ObserverRecorder) ObserveAction(_ primitives.Action, accepted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if accepted {
		o.Accepted++
	} else {
		o.Dropped++
	}
}

func (o *ObserverRecorder) ObserveTransition(from, to primitives.Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Transitions = append(o.Transitions, [2]primitives.Status{from, to})
}

func (o *ObserverRecorder) ObserveValidation(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Validations = append(o.Validations, err)
}

func (o *ObserverRecorder) ObserveSubmit(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Submits = append(o.Submits, err)
}

// DroppedCount returns the number of rejected actions.
func (o *ObserverRecorder) DroppedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Dropped
}
