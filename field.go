package formx

import (
	"sync/atomic"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

// Field is a scalar leaf. Change is optimistic: the local state updates
// at once and the parent sees the value after the debounce window.
type Field struct {
	base
	state atomic.Pointer[primitives.FieldState]
	subs  listeners[primitives.FieldState]
}

// State returns the current state. Safe from any goroutine.
func (f *Field) State() FieldState { return *f.state.Load() }

// Value is shorthand for State().Value.
func (f *Field) Value() any { return f.State().Value }

// Subscribe registers fn for every state the field publishes. Listeners
// run on the form loop and must not block.
func (f *Field) Subscribe(fn func(FieldState)) (unsubscribe func()) {
	return f.subs.add(fn)
}

// Change edits the value. It fails fast if the form is locked or closed,
// or the field is unmounted.
func (f *Field) Change(v any) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.form.loop.Do(func() { f.change(v) })
	return nil
}

// Focus marks the field focused and touched.
func (f *Field) Focus() { f.form.loop.Do(func() { f.step(primitives.Focus()) }) }

// Blur clears focus.
func (f *Field) Blur() { f.form.loop.Do(func() { f.step(primitives.Blur()) }) }

// Dispatch applies a raw action. CHANGE goes through the debounce like
// Change; other mutating actions are dropped while the form is locked.
func (f *Field) Dispatch(a Action) error {
	if a.Type == primitives.ActionChange {
		return f.Change(a.Value)
	}
	if a.Mutating() {
		if err := f.editable(); err != nil {
			return err
		}
	}
	f.form.loop.Do(func() { f.step(a) })
	return nil
}

// Unmount flushes the latest value to the parent and detaches the field.
func (f *Field) Unmount() { f.form.loop.Do(f.unmount) }

func (f *Field) change(v any) {
	if err := f.editable(); err != nil {
		f.log.Debugw("Dropped edit", "error", err)
		return
	}
	f.step(primitives.Change(v))
	f.commitAfter(func() { f.step(primitives.Commit(primitives.Self)) })
}

func (f *Field) step(a primitives.Action) {
	prev := f.State()
	next := core.ReduceField(prev, a)
	if a.Type == primitives.ActionSetInitialValue && a.Reinitialize {
		f.debounce.Cancel()
	}
	f.state.Store(&next)
	f.subs.emit(next)
	f.report(next.Value, next.Changing)
}

func (f *Field) local() slice {
	st := f.State()
	return slice{Initial: st.InitialValue, Value: st.Value, Error: st.Error}
}

func (f *Field) pending() bool { return f.State().Changing }

func (f *Field) sync() { f.syncFrom(f) }

func (f *Field) unmount() {
	if f.unmounted.Load() {
		return
	}
	f.debounce.Cancel()
	f.flush(f.State().Value)
}
