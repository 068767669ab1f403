package schedule

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsReentrantTasksAfterCurrent(t *testing.T) {
	l := NewLoop()
	var order []string
	l.Do(func() {
		order = append(order, "a-start")
		l.Do(func() { order = append(order, "b") })
		order = append(order, "a-end")
	})
	want := []string{"a-start", "a-end", "b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if l.Running() {
		t.Error("loop still running after drain")
	}
}

func TestLoopRecoversFromPanic(t *testing.T) {
	l := NewLoop()
	func() {
		defer func() { _ = recover() }()
		l.Do(func() { panic("boom") })
	}()
	ran := false
	l.Do(func() { ran = true })
	if !ran {
		t.Error("loop stuck after a panicking task")
	}
}

func TestLoopConcurrentPostsAreSerialised(t *testing.T) {
	l := NewLoop()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Do(func() { counter++ })
		}()
	}
	wg.Wait()
	if err := l.Barrier(context.Background()); err != nil {
		t.Fatal(err)
	}
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestManualClockOrder(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	var fired []int
	c.AfterFunc(20*time.Millisecond, func() { fired = append(fired, 20) })
	c.AfterFunc(5*time.Millisecond, func() { fired = append(fired, 5) })
	stopped := c.AfterFunc(10*time.Millisecond, func() { fired = append(fired, 10) })
	if !stopped.Stop() {
		t.Error("Stop on pending timer returned false")
	}
	c.Advance(5 * time.Millisecond)
	if len(fired) != 1 || fired[0] != 5 {
		t.Fatalf("after 5ms fired = %v", fired)
	}
	c.Advance(15 * time.Millisecond)
	if len(fired) != 2 || fired[1] != 20 {
		t.Errorf("after 20ms fired = %v", fired)
	}
	if got := c.Now(); !got.Equal(time.Unix(0, 0).Add(20 * time.Millisecond)) {
		t.Errorf("Now() = %v", got)
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	c := NewManualClock(time.Time{})
	l := NewLoop()
	d := NewDebouncer(c, 10*time.Millisecond, l.Do)
	var committed []string
	for _, v := range []string{"a", "ab", "abc"} {
		v := v
		d.Schedule(func() { committed = append(committed, v) })
		c.Advance(3 * time.Millisecond)
	}
	if !d.Pending() {
		t.Fatal("expected a pending commit")
	}
	c.Advance(10 * time.Millisecond)
	if len(committed) != 1 || committed[0] != "abc" {
		t.Errorf("committed = %v, want [abc]", committed)
	}
}

func TestDebouncerCancel(t *testing.T) {
	c := NewManualClock(time.Time{})
	d := NewDebouncer(c, time.Millisecond, nil)
	fired := false
	d.Schedule(func() { fired = true })
	if !d.Cancel() {
		t.Error("Cancel should report a pending callback")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("cancelled callback fired")
	}
	if d.Cancel() {
		t.Error("second Cancel should report nothing pending")
	}
}

func TestDebouncerStaleFireIsNoop(t *testing.T) {
	c := NewManualClock(time.Time{})
	var held []func()
	d := NewDebouncer(c, time.Millisecond, func(fn func()) { held = append(held, fn) })
	count := 0
	d.Schedule(func() { count++ })
	c.Advance(time.Millisecond)
	d.Schedule(func() { count += 10 })
	c.Advance(time.Millisecond)
	for _, fn := range held {
		fn()
	}
	if count != 10 {
		t.Errorf("count = %d, want 10 (superseded fire must be dropped)", count)
	}
}

func TestTrackerWait(t *testing.T) {
	var tr Tracker
	release := make(chan struct{})
	tr.Go(func() { <-release })
	if tr.Idle() {
		t.Fatal("tracker idle with a running goroutine")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := tr.Wait(ctx); err == nil {
		t.Error("Wait should time out while blocked")
	}
	close(release)
	if err := tr.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !tr.Idle() {
		t.Error("tracker not idle after Wait")
	}
}
