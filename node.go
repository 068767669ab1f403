package formx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/formx/internal/logger"
	"github.com/comalice/formx/internal/primitives"
	"github.com/comalice/formx/schedule"
)

// FieldOptions configures a mounted field.
type FieldOptions struct {
	// DebounceDelay is the commit window for local edits. Zero inherits
	// from the parent; negative commits immediately.
	DebounceDelay time.Duration
	// EnableReinitialize overrides the parent's setting when non-nil.
	EnableReinitialize *bool
	// RemoveOnUnmount excises the field's key from the parent on unmount.
	RemoveOnUnmount bool
}

// slice is a child's view of its parent at its key.
type slice struct {
	Initial any
	Value   any
	Error   *primitives.ErrorNode
}

// link is all a child holds of its parent: a read of its slice and a way
// to post actions. It never references the parent's storage.
type link struct {
	key      primitives.Key
	read     func() slice
	dispatch func(primitives.Action)
	detach   func()
}

type child interface {
	sync()
	unmount()
}

// stepper is the kind-specific half of a nested node.
type stepper interface {
	local() slice
	pending() bool
	step(a primitives.Action)
}

// base is the propagation state shared by every nested node. The plain
// fields are owned by the form loop.
type base struct {
	form     *Form
	link     *link
	path     primitives.Path
	reinit   bool
	delay    time.Duration
	remove   bool
	debounce *schedule.Debouncer
	log      *zap.SugaredLogger

	seen             slice
	synced           any
	reportedChanging bool
	closing          atomic.Bool
	unmounted        atomic.Bool
}

// Key returns the node's key in its parent.
func (b *base) Key() primitives.Key { return b.link.key }

// Path returns the node's path from the form root.
func (b *base) Path() primitives.Path { return b.path }

// report tells the parent about a local transition: CHANGING once when an
// edit starts, CHANGE_FIELD once the node settles on a value it has not
// reported yet.
func (b *base) report(value any, changing bool) {
	if b.unmounted.Load() {
		return
	}
	if changing {
		if !b.reportedChanging {
			b.reportedChanging = true
			b.link.dispatch(primitives.Changing(b.link.key))
		}
		return
	}
	if b.reportedChanging || !primitives.Equal(value, b.synced) {
		b.reportedChanging = false
		b.synced = value
		b.log.Debugw("Committed value", "value", value)
		b.link.dispatch(primitives.ChangeField(b.link.key, value))
	}
}

// syncFrom re-derives the node's slice from the parent and dispatches
// SET_INITIAL_VALUE, SET_VALUE and SET_ERROR for whatever changed.
func (b *base) syncFrom(n stepper) {
	if b.unmounted.Load() || b.closing.Load() {
		return
	}
	cur := b.link.read()
	seen := b.seen
	b.seen = cur
	local := n.local()

	skipValue := false
	if !primitives.Equal(cur.Initial, seen.Initial) && !primitives.Equal(cur.Initial, local.Initial) {
		if b.reinit {
			b.synced = cur.Value
			n.step(primitives.SetInitialValue(cur.Initial, true))
		} else {
			n.step(primitives.SetInitialValue(cur.Initial, false))
			if v := n.local().Value; !primitives.Equal(v, cur.Value) && !n.pending() {
				b.synced = v
				b.link.dispatch(primitives.ChangeField(b.link.key, v))
				skipValue = true
			}
		}
		local = n.local()
	}

	if !skipValue && !primitives.Equal(cur.Value, seen.Value) && !primitives.Equal(cur.Value, local.Value) && !n.pending() {
		b.synced = cur.Value
		n.step(primitives.SetValue(cur.Value))
	}

	if !primitives.Equal(cur.Error, seen.Error) && !primitives.Equal(cur.Error, local.Error) {
		n.step(primitives.SetError(cur.Error))
	}
}

// flush is the last write of an unmounting node.
func (b *base) flush(value any) {
	b.unmounted.Store(true)
	b.link.detach()
	b.link.dispatch(primitives.ChangeField(b.link.key, value))
	if b.remove {
		b.link.dispatch(primitives.RemoveField(b.link.key))
	}
	b.log.Debugw("Unmounted", "remove", b.remove)
}

// editable is checked before and again inside every user edit.
func (b *base) editable() error {
	if b.unmounted.Load() || b.closing.Load() {
		return ErrUnmounted
	}
	return b.form.editable()
}

// commitAfter runs commit now or after the node's debounce window.
func (b *base) commitAfter(commit func()) {
	if b.delay <= 0 {
		commit()
		return
	}
	b.debounce.Schedule(commit)
}

// branch holds the children of a composite or form.
type branch struct {
	form    *Form
	kind    primitives.Kind
	path    primitives.Path
	reinit  bool
	delay   time.Duration
	current func() primitives.CompositeState
	post    func(primitives.Action)

	mu       sync.Mutex
	children []child
}

func (b *branch) slice(key primitives.Key) slice {
	st := b.current()
	return slice{
		Initial: primitives.Get(st.InitialValue, key),
		Value:   primitives.Get(st.Value, key),
		Error:   st.Error.Child(key),
	}
}

func (b *branch) checkKey(key primitives.Key) {
	if key.IsSelf() {
		panic(fmt.Sprintf("formx: cannot mount a child of %s with the self key", b.path))
	}
	switch b.kind {
	case primitives.KindArray:
		if !key.IsIndex() || key.Index() < 0 {
			panic(fmt.Sprintf("formx: array %s needs an index key, got %q", b.path, key.Name()))
		}
	default:
		if key.IsIndex() {
			panic(fmt.Sprintf("formx: %s %s needs a name key, got index %d", b.kind, b.path, key.Index()))
		}
	}
}

func (b *branch) initBase(n *base, key primitives.Key, opts FieldOptions) {
	b.checkKey(key)
	reinit := b.reinit
	if opts.EnableReinitialize != nil {
		reinit = *opts.EnableReinitialize
	}
	delay := b.delay
	switch {
	case opts.DebounceDelay < 0:
		delay = 0
	case opts.DebounceDelay > 0:
		delay = opts.DebounceDelay
	}
	path := b.path.Append(key)
	l := &link{
		key:  key,
		read: func() slice { return b.slice(key) },
		dispatch: func(a primitives.Action) {
			b.form.loop.Do(func() { b.post(a) })
		},
	}
	n.form = b.form
	n.link = l
	n.path = path
	n.reinit = reinit
	n.delay = delay
	n.remove = opts.RemoveOnUnmount
	n.debounce = schedule.NewDebouncer(b.form.clock, delay, b.form.loop.Do)
	n.log = b.form.baseLog.Named(logger.ComponentField).With("form", b.form.id, "field", path.String())
}

func (b *branch) attach(c child, l *link) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.children = append(b.children, c)
	l.detach = func() { b.detach(c) }
}

func (b *branch) detach(c child) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, x := range b.children {
		if x == c {
			b.children = append(b.children[:i:i], b.children[i+1:]...)
			return
		}
	}
}

func (b *branch) snapshot() []child {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]child, len(b.children))
	copy(out, b.children)
	return out
}

// syncChildren queues a sync for every child behind the current step.
func (b *branch) syncChildren() {
	for _, c := range b.snapshot() {
		b.form.loop.Do(c.sync)
	}
}

// unmountChildren unmounts children, last mounted first.
func (b *branch) unmountChildren() {
	children := b.snapshot()
	for i := len(children) - 1; i >= 0; i-- {
		children[i].unmount()
	}
}

// Len returns the number of mounted children.
func (b *branch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.children)
}

func (b *branch) mountField(key primitives.Key, opts FieldOptions) *Field {
	f := &Field{}
	b.initBase(&f.base, key, opts)
	cur := f.link.read()
	st := primitives.NewFieldState(cur.Initial, cur.Value)
	st = seedError(st, cur.Error)
	f.state.Store(&st)
	f.seen = cur
	f.synced = st.Value
	b.attach(f, f.link)
	return f
}

func (b *branch) mountComposite(kind primitives.Kind, key primitives.Key, opts FieldOptions) *composite {
	c := &composite{}
	b.initBase(&c.base, key, opts)
	cur := c.link.read()
	st := primitives.NewCompositeState(kind, cur.Initial, cur.Value)
	st.FieldState = seedError(st.FieldState, cur.Error)
	c.state.Store(&st)
	c.seen = cur
	c.synced = st.Value
	c.children = branch{
		form:    b.form,
		kind:    kind,
		path:    c.path,
		reinit:  c.reinit,
		delay:   c.delay,
		current: c.State,
		post:    c.step,
	}
	b.attach(c, c.link)
	return c
}

func (b *branch) mountObject(key primitives.Key, opts FieldOptions) *ObjectField {
	return &ObjectField{composite: b.mountComposite(primitives.KindObject, key, opts)}
}

func (b *branch) mountArray(key primitives.Key, opts FieldOptions) *ArrayField {
	return &ArrayField{composite: b.mountComposite(primitives.KindArray, key, opts)}
}

func seedError(s primitives.FieldState, err *primitives.ErrorNode) primitives.FieldState {
	if err.Empty() {
		return s
	}
	s.Error = err
	s.Valid = false
	return s
}
