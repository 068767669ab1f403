package formx

import (
	"sync/atomic"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

// composite is the shared runtime of object and array fields.
type composite struct {
	base
	children branch
	state    atomic.Pointer[primitives.CompositeState]
	subs     listeners[primitives.CompositeState]
}

// State returns the current state. Safe from any goroutine.
func (c *composite) State() CompositeState { return *c.state.Load() }

// Value is shorthand for State().Value.
func (c *composite) Value() any { return c.State().Value }

// Subscribe registers fn for every state the node publishes.
func (c *composite) Subscribe(fn func(CompositeState)) (unsubscribe func()) {
	return c.subs.add(fn)
}

// Focus marks the node focused and touched.
func (c *composite) Focus() { c.form.loop.Do(func() { c.step(primitives.Focus()) }) }

// Blur clears focus.
func (c *composite) Blur() { c.form.loop.Do(func() { c.step(primitives.Blur()) }) }

// Dispatch applies a raw action. Mutating actions are dropped while the
// form is locked.
func (c *composite) Dispatch(a Action) error {
	if a.Mutating() {
		if err := c.editable(); err != nil {
			return err
		}
	}
	c.form.loop.Do(func() { c.step(a) })
	return nil
}

// Unmount unmounts the children, then flushes this node's value.
func (c *composite) Unmount() { c.form.loop.Do(c.unmount) }

// Children returns the number of mounted children.
func (c *composite) Children() int { return c.children.Len() }

// edit applies a structural change as a local edit tracked under Self.
func (c *composite) edit(a primitives.Action) error {
	if err := c.editable(); err != nil {
		return err
	}
	c.form.loop.Do(func() {
		if err := c.editable(); err != nil {
			c.log.Debugw("Dropped edit", "action", a.Type, "error", err)
			return
		}
		c.step(primitives.Changing(primitives.Self))
		c.step(a)
		c.commitAfter(func() { c.step(primitives.Commit(primitives.Self)) })
	})
	return nil
}

func (c *composite) step(a primitives.Action) {
	prev := c.State()
	var next primitives.CompositeState
	if prev.Kind == primitives.KindArray {
		next = core.ReduceArray(prev, a)
	} else {
		next = core.ReduceObject(prev, a)
	}
	if a.Type == primitives.ActionSetInitialValue && a.Reinitialize {
		c.debounce.Cancel()
	}
	c.state.Store(&next)
	c.subs.emit(next)
	c.children.syncChildren()
	c.report(next.Value, next.Changing)
}

func (c *composite) local() slice {
	st := c.State()
	return slice{Initial: st.InitialValue, Value: st.Value, Error: st.Error}
}

func (c *composite) pending() bool { return c.State().Changing }

func (c *composite) sync() { c.syncFrom(c) }

func (c *composite) unmount() {
	if c.unmounted.Load() || !c.closing.CompareAndSwap(false, true) {
		return
	}
	c.children.unmountChildren()
	c.debounce.Cancel()
	// Children flush through the loop; flush this node behind them.
	c.form.loop.Do(func() { c.flush(c.State().Value) })
}

// ObjectField is a composite keyed by name.
type ObjectField struct {
	*composite
}

// Field mounts a scalar child.
func (o *ObjectField) Field(name string, opts FieldOptions) *Field {
	return o.children.mountField(primitives.Name(name), opts)
}

// Object mounts an object child.
func (o *ObjectField) Object(name string, opts FieldOptions) *ObjectField {
	return o.children.mountObject(primitives.Name(name), opts)
}

// Array mounts an array child.
func (o *ObjectField) Array(name string, opts FieldOptions) *ArrayField {
	return o.children.mountArray(primitives.Name(name), opts)
}

// SetField writes one key of the object as a local edit.
func (o *ObjectField) SetField(name string, v any) error {
	return o.edit(primitives.SetField(primitives.Name(name), v))
}

// ArrayField is a composite keyed by index.
type ArrayField struct {
	*composite
}

// Field mounts a scalar item.
func (a *ArrayField) Field(i int, opts FieldOptions) *Field {
	return a.children.mountField(primitives.Index(i), opts)
}

// Object mounts an object item.
func (a *ArrayField) Object(i int, opts FieldOptions) *ObjectField {
	return a.children.mountObject(primitives.Index(i), opts)
}

// Array mounts a nested array item.
func (a *ArrayField) Array(i int, opts FieldOptions) *ArrayField {
	return a.children.mountArray(primitives.Index(i), opts)
}

// Len returns the number of items in the current value.
func (a *ArrayField) Len() int { return primitives.Len(a.Value()) }

// AddItem appends v.
func (a *ArrayField) AddItem(v any) error { return a.edit(primitives.AddValue(v)) }

// RemoveItem splices out the item at i.
func (a *ArrayField) RemoveItem(i int) error { return a.edit(primitives.RemoveValue(i)) }

// RemoveLastItem drops the last item.
func (a *ArrayField) RemoveLastItem() error { return a.edit(primitives.RemoveLastValue()) }

// SetItem writes v at i, filling any gap with nil.
func (a *ArrayField) SetItem(i int, v any) error {
	return a.edit(primitives.SetValueAtIndex(i, v))
}
