package extensibility

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/formx/internal/primitives"
	"github.com/comalice/formx/schedule"
)

// Edit is an external write to the field at Path.
type Edit struct {
	Path  primitives.Path
	Value any
}

// Source feeds edits from outside the form, e.g. a websocket or a script.
type Source interface {
	Edits() <-chan Edit
}

// ChannelSource is a Source backed by a caller-owned channel.
type ChannelSource struct {
	ch chan Edit
}

// NewChannelSource creates a ChannelSource reading from ch.
func NewChannelSource(ch chan Edit) *ChannelSource {
	return &ChannelSource{ch: ch}
}

func (s *ChannelSource) Edits() <-chan Edit {
	return s.ch
}

// TimedEdit is an edit delivered After the previous one.
type TimedEdit struct {
	Edit
	After time.Duration
}

// ReplaySource plays back a script of timed edits, the way a user types
// with pauses. The channel closes after the last edit or on Stop.
type ReplaySource struct {
	clock schedule.Clock
	steps []TimedEdit
	ch    chan Edit

	mu      sync.Mutex
	timer   schedule.Timer
	stopped bool
	closed  bool
}

// NewReplaySource starts replaying steps on clock. Edits without a delay
// are delivered immediately.
func NewReplaySource(clock schedule.Clock, steps []TimedEdit) *ReplaySource {
	r := &ReplaySource{
		clock: clock,
		steps: steps,
		ch:    make(chan Edit, len(steps)),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance(0)
	return r
}

func (r *ReplaySource) Edits() <-chan Edit {
	return r.ch
}

// Stop cancels the remaining edits and closes the channel.
func (r *ReplaySource) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.close()
}

// advance delivers due steps from i on and arms the timer for the next
// delayed one. Callers hold mu.
func (r *ReplaySource) advance(i int) {
	for ; i < len(r.steps); i++ {
		if r.steps[i].After > 0 {
			next := i
			r.timer = r.clock.AfterFunc(r.steps[i].After, func() { r.fire(next) })
			return
		}
		r.ch <- r.steps[i].Edit
	}
	r.close()
}

func (r *ReplaySource) fire(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.ch <- r.steps[i].Edit
	r.advance(i + 1)
}

func (r *ReplaySource) close() {
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
}

// Pump applies edits from src until its channel closes or ctx ends.
// Failed edits go to onError, which may be nil, and do not stop the pump.
func Pump(ctx context.Context, src Source, apply func(Edit) error, onError func(Edit, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-src.Edits():
			if !ok {
				return nil
			}
			if err := apply(e); err != nil && onError != nil {
				onError(e, err)
			}
		}
	}
}
