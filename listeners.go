package formx

import "sync"

type listener[S any] struct {
	id int
	fn func(S)
}

// listeners is a registry of state callbacks, called in registration order.
type listeners[S any] struct {
	mu   sync.Mutex
	next int
	fns  []listener[S]
}

func (l *listeners[S]) add(fn func(S)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	id := l.next
	l.fns = append(l.fns, listener[S]{id: id, fn: fn})
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, x := range l.fns {
			if x.id == id {
				l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[S]) emit(s S) {
	l.mu.Lock()
	fns := make([]listener[S], len(l.fns))
	copy(fns, l.fns)
	l.mu.Unlock()
	for _, x := range fns {
		x.fn(s)
	}
}
