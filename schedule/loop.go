package schedule

import (
	"context"
	"sync"
)

type task struct {
	seq uint64
	fn  func()
}

// Loop is a run-to-completion serial executor. The goroutine that posts
// into an idle loop drains it; concurrent and reentrant posts are queued.
type Loop struct {
	mu      sync.Mutex
	queue   []task
	seq     uint64
	running bool
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{queue: make([]task, 0, 16)}
}

// Do posts fn. If no task is running, fn and everything queued behind it
// run before Do returns.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	l.seq++
	l.queue = append(l.queue, task{seq: l.seq, fn: fn})
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()
	l.drain()
}

// Running reports whether a task is executing.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Barrier returns once every task posted before it has run.
func (l *Loop) Barrier(ctx context.Context) error {
	done := make(chan struct{})
	l.Do(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) drain() {
	clean := false
	defer func() {
		if !clean {
			l.mu.Lock()
			l.running = false
			l.mu.Unlock()
		}
	}()
	for {
		batch := l.collect()
		if batch == nil {
			clean = true
			return
		}
		for _, t := range batch {
			t.fn()
		}
	}
}

// collect atomically takes the queued batch. An empty queue ends the drain.
func (l *Loop) collect() []task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		l.running = false
		return nil
	}
	batch := l.queue
	l.queue = make([]task, 0, cap(batch))
	return batch
}
