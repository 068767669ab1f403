package formx

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/logger"
	"github.com/comalice/formx/internal/primitives"
	"github.com/comalice/formx/schedule"
)

// DefaultDebounceDelay is the commit window when none is configured.
const DefaultDebounceDelay = 300 * time.Millisecond

// Form is the root of a field tree and owns its loop.
type Form struct {
	id      string
	loop    *schedule.Loop
	clock   schedule.Clock
	baseLog *zap.SugaredLogger
	log     *zap.SugaredLogger
	sm      *fsm.FSM

	state    atomic.Pointer[primitives.FormState]
	subs     listeners[primitives.FormState]
	children branch
	debounce *schedule.Debouncer
	tracker  schedule.Tracker
	closed   atomic.Bool

	validator        core.Validator
	submitter        core.Submitter
	onChange         func(value any)
	validateOnChange bool
	reinit           bool
	delay            time.Duration
	observer         core.Observer
	publisher        core.Publisher
	persister        core.Persister
	publisherClosed  bool

	// prevObserved is the last value handed to onChange. Loop-owned.
	prevObserved any
}

// NewForm creates an IDLE form seeded with initial, which is copied.
// A nil initial value starts from an empty object.
func NewForm(initial any, opts ...Option) *Form {
	f := &Form{
		id:       uuid.NewString(),
		loop:     schedule.NewLoop(),
		clock:    schedule.RealClock(),
		baseLog:  logger.Nop(),
		reinit:   true,
		delay:    DefaultDebounceDelay,
		observer: core.NopObserver{},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.baseLog.Named(logger.ComponentForm).With("form", f.id)

	st := primitives.NewFormState(primitives.Clone(initial), nil)
	f.state.Store(&st)
	f.prevObserved = st.Value

	f.sm = fsm.NewFSM(
		string(primitives.StatusIdle),
		core.StatusEvents,
		fsm.Callbacks{
			"enter_" + string(primitives.StatusValidating): func(_ context.Context, e *fsm.Event) {
				f.runValidator(eventValue(e))
			},
			"enter_" + string(primitives.StatusValidatingOnChange): func(_ context.Context, e *fsm.Event) {
				f.runValidator(eventValue(e))
			},
			"enter_" + string(primitives.StatusSubmitting): func(_ context.Context, e *fsm.Event) {
				f.runSubmitter(eventValue(e))
			},
		},
	)
	f.debounce = schedule.NewDebouncer(f.clock, f.delay, f.loop.Do)
	f.children = branch{
		form:    f,
		kind:    primitives.KindForm,
		reinit:  f.reinit,
		delay:   f.delay,
		current: func() primitives.CompositeState { return f.State().CompositeState },
		post:    f.step,
	}
	return f
}

func eventValue(e *fsm.Event) any {
	if len(e.Args) == 0 {
		return nil
	}
	return e.Args[0]
}

//
// Public API
//

// ID returns the form identifier used by persisters and publishers.
func (f *Form) ID() string { return f.id }

// State returns the current state. Safe from any goroutine.
func (f *Form) State() FormState { return *f.state.Load() }

// Value is shorthand for State().Value.
func (f *Form) Value() any { return f.State().Value }

// Subscribe registers fn for every state the form publishes.
func (f *Form) Subscribe(fn func(FormState)) (unsubscribe func()) {
	return f.subs.add(fn)
}

// Field mounts a scalar field.
func (f *Form) Field(name string, opts FieldOptions) *Field {
	return f.children.mountField(primitives.Name(name), opts)
}

// Object mounts an object field.
func (f *Form) Object(name string, opts FieldOptions) *ObjectField {
	return f.children.mountObject(primitives.Name(name), opts)
}

// Array mounts an array field.
func (f *Form) Array(name string, opts FieldOptions) *ArrayField {
	return f.children.mountArray(primitives.Name(name), opts)
}

// Dispatch applies a raw action to the form reducer.
func (f *Form) Dispatch(a Action) error {
	if f.closed.Load() {
		return ErrClosed
	}
	f.loop.Do(func() { f.step(a) })
	return nil
}

// SetField writes one top-level key as a local edit of the form.
func (f *Form) SetField(name string, v any) error {
	if err := f.editable(); err != nil {
		return err
	}
	a := primitives.SetField(primitives.Name(name), v)
	f.loop.Do(func() {
		if err := f.editable(); err != nil {
			f.log.Debugw("Dropped edit", "action", a.Type, "error", err)
			return
		}
		f.step(primitives.Changing(primitives.Self))
		f.step(a)
		if f.delay <= 0 {
			f.step(primitives.Commit(primitives.Self))
			return
		}
		f.debounce.Schedule(func() { f.step(primitives.Commit(primitives.Self)) })
	})
	return nil
}

// Submit starts validation followed by submission. Only an IDLE form submits.
func (f *Form) Submit() error {
	return f.start(primitives.Submit())
}

// Validate runs the validator without submitting.
func (f *Form) Validate() error {
	return f.start(primitives.Validate())
}

func (f *Form) start(a primitives.Action) error {
	if f.closed.Load() {
		return ErrClosed
	}
	if st := f.State().Status; st != primitives.StatusIdle {
		return fmt.Errorf("%s while %s: %w", a.Type, st, ErrLocked)
	}
	f.loop.Do(func() { f.step(a) })
	return nil
}

// SetInitialValue replaces the baseline. Fields with reinitialize enabled
// adopt the new value; the call is a no-op if v equals the current baseline.
func (f *Form) SetInitialValue(v any) error {
	if err := f.editable(); err != nil {
		return err
	}
	v = primitives.Clone(v)
	f.loop.Do(func() {
		if primitives.Equal(f.State().InitialValue, v) {
			return
		}
		f.step(primitives.SetInitialValue(v, f.reinit))
	})
	return nil
}

// Settle waits until every in-flight validator, submitter and queued step
// has been applied.
func (f *Form) Settle(ctx context.Context) error {
	for {
		if err := f.tracker.Wait(ctx); err != nil {
			return err
		}
		if err := f.loop.Barrier(ctx); err != nil {
			return err
		}
		if f.tracker.Idle() {
			return nil
		}
	}
}

// Close unmounts every field, flushing pending edits, and discards async
// results that arrive afterwards.
func (f *Form) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	f.loop.Do(func() {
		f.children.unmountChildren()
		f.debounce.Cancel()
		f.loop.Do(func() {
			if f.publisher == nil {
				return
			}
			f.publisherClosed = true
			if err := f.publisher.Close(); err != nil {
				f.log.Errorw("Failed to close publisher", "error", err)
			}
		})
	})
	return nil
}

// Visualize renders the status machine in DOT, marking the current status.
func (f *Form) Visualize() string {
	return fsm.Visualize(f.sm)
}

// Snapshot captures the persistent part of the state.
func (f *Form) Snapshot() Snapshot {
	return f.snapshot(f.State())
}

// Restore replaces value, baseline and error with a snapshot's. The form
// comes back IDLE.
func (f *Form) Restore(s Snapshot) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.loop.Do(func() { f.restore(s) })
	return nil
}

// Load restores the snapshot the configured persister holds for this form.
func (f *Form) Load(ctx context.Context) error {
	if f.persister == nil {
		return fmt.Errorf("load %s: no persister: %w", f.id, ErrNotFound)
	}
	s, err := f.persister.Load(ctx, f.id)
	if err != nil {
		return fmt.Errorf("load %s: %w", f.id, err)
	}
	return f.Restore(s)
}

//
// Loop internals
//

func (f *Form) editable() error {
	if f.closed.Load() {
		return ErrClosed
	}
	if f.State().Status.Locked() {
		return ErrLocked
	}
	return nil
}

func (f *Form) step(a primitives.Action) {
	prev := f.State()
	accepted := core.Accepts(prev.Status, a)
	f.observer.ObserveAction(a, accepted)
	if !accepted {
		f.log.Debugw("Dropped action", "action", a.Type, "key", a.Key.String(), "status", prev.Status)
		return
	}
	next := core.ReduceForm(prev, a)
	if a.Type == primitives.ActionSetInitialValue && a.Reinitialize {
		f.debounce.Cancel()
	}
	f.state.Store(&next)
	if prev.Status != next.Status {
		f.transition(prev.Status, next, a)
	}
	f.publish(a, next)
	f.subs.emit(next)
	f.children.syncChildren()
	f.settled(prev, next, a)
}

// transition mirrors a status change into the fsm, whose enter callbacks
// launch the async handlers.
func (f *Form) transition(from primitives.Status, next primitives.FormState, a primitives.Action) {
	f.observer.ObserveTransition(from, next.Status)
	f.log.Debugw("Status transition", "from", from, "to", next.Status, "action", a.Type)
	ev, ok := core.StatusEvent(from, next.Status, a.Type)
	if !ok {
		f.log.Warnw("No status event for transition", "from", from, "to", next.Status)
		f.sm.SetState(string(next.Status))
		return
	}
	if err := f.sm.Event(context.Background(), ev, next.Value); err != nil {
		f.log.Warnw("Status machine out of sync", "event", ev, "error", err)
		f.sm.SetState(string(next.Status))
	}
}

func (f *Form) settled(prev, next primitives.FormState, a primitives.Action) {
	if next.Status != primitives.StatusIdle {
		return
	}
	changed := !primitives.Equal(next.Value, f.prevObserved)
	if f.persister != nil && (changed || prev.Status != primitives.StatusIdle) {
		f.persist(next)
	}
	if !changed {
		return
	}
	f.prevObserved = next.Value
	if f.onChange != nil {
		f.onChange(primitives.Clone(next.Value))
	}
	if f.validateOnChange && !handlerResult(a.Type) {
		f.loop.Do(func() { f.step(primitives.Validate()) })
	}
}

func handlerResult(t primitives.ActionType) bool {
	switch t {
	case primitives.ActionValidatingDone, primitives.ActionValidatingFailed,
		primitives.ActionSubmittingDone, primitives.ActionSubmittingFailed:
		return true
	}
	return false
}

func (f *Form) runValidator(value any) {
	if f.validator == nil {
		f.loop.Do(func() { f.step(primitives.ValidatingDone(nil)) })
		return
	}
	input := primitives.Clone(value)
	start := f.clock.Now()
	f.tracker.Go(func() {
		out, err := safeValidate(f.validator, input)
		f.loop.Do(func() {
			if f.closed.Load() {
				f.log.Warnw("Discarding validation result after close", "error", err)
				return
			}
			f.observer.ObserveValidation(f.clock.Now().Sub(start), err)
			if err != nil {
				f.log.Debugw("Validation failed", "error", err)
				f.step(primitives.ValidatingFailed(primitives.ErrorTree(err)))
				return
			}
			f.step(primitives.ValidatingDone(out))
		})
	})
}

func (f *Form) runSubmitter(value any) {
	if f.submitter == nil {
		f.loop.Do(func() { f.step(primitives.SubmittingDone()) })
		return
	}
	input := primitives.Clone(value)
	start := f.clock.Now()
	f.tracker.Go(func() {
		err := safeSubmit(f.submitter, input)
		f.loop.Do(func() {
			if f.closed.Load() {
				f.log.Warnw("Discarding submit result after close", "error", err)
				return
			}
			f.observer.ObserveSubmit(f.clock.Now().Sub(start), err)
			if err != nil {
				f.log.Debugw("Submit failed", "error", err)
				f.step(primitives.SubmittingFailed(primitives.ErrorTree(err)))
				return
			}
			f.step(primitives.SubmittingDone())
		})
	})
}

func safeValidate(v core.Validator, value any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panicked: %v", r)
		}
	}()
	return v.Validate(context.Background(), value)
}

func safeSubmit(s core.Submitter, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submitter panicked: %v", r)
		}
	}()
	return s.Submit(context.Background(), value)
}

func (f *Form) publish(a primitives.Action, next primitives.FormState) {
	if f.publisher == nil || f.publisherClosed {
		return
	}
	change := core.Change{
		FormID:    f.id,
		Action:    a,
		Status:    next.Status,
		Value:     next.Value,
		Timestamp: f.clock.Now(),
	}
	if err := f.publisher.Publish(context.Background(), change); err != nil {
		f.log.Errorw("Failed to publish change", "action", a.Type, "error", err)
	}
}

func (f *Form) persist(st primitives.FormState) {
	if err := f.persister.Save(context.Background(), f.snapshot(st)); err != nil {
		f.log.Errorw("Failed to save snapshot", "error", err)
	}
}

func (f *Form) snapshot(st primitives.FormState) Snapshot {
	return core.Snapshot{
		ID:           uuid.NewString(),
		FormID:       f.id,
		Value:        primitives.Clone(st.Value),
		InitialValue: primitives.Clone(st.InitialValue),
		Error:        st.Error,
		Status:       st.Status,
		Timestamp:    f.clock.Now(),
	}
}

func (f *Form) restore(s Snapshot) {
	prev := f.State()
	if prev.Status.Locked() {
		f.log.Debugw("Dropped restore while locked", "status", prev.Status)
		return
	}
	st := primitives.NewFormState(primitives.Clone(s.InitialValue), primitives.Clone(s.Value))
	st.FieldState = seedError(st.FieldState, s.Error)
	f.debounce.Cancel()
	f.state.Store(&st)
	if prev.Status != st.Status {
		f.observer.ObserveTransition(prev.Status, st.Status)
		f.sm.SetState(string(st.Status))
	}
	f.prevObserved = st.Value
	f.log.Debugw("Restored snapshot", "snapshot", s.ID)
	f.subs.emit(st)
	f.children.syncChildren()
}
