// Package schedule provides the cooperative scheduling primitives of the
// form engine.
//
// A Loop serialises every reducer step of one form tree. Tasks run to
// completion in submission order; a task posted while another is running is
// queued behind it rather than nested inside it. Timers and handler
// goroutines never touch state directly, they only post tasks.
//
// # Example Usage
//
//	clock := schedule.NewManualClock(time.Time{})
//	loop := schedule.NewLoop()
//	d := schedule.NewDebouncer(clock, 5*time.Millisecond, loop.Do)
//	d.Schedule(func() { fmt.Println("committed") })
//	clock.Advance(5 * time.Millisecond) // prints "committed"
//
// # Ordering Guarantees
//
//   - Tasks posted from one goroutine run in posting order (sequence number)
//   - A Debouncer is single-flight: a new Schedule supersedes a pending one
//   - A superseded or cancelled timer that already fired is a no-op
//   - ManualClock fires due timers in deadline order, ties by creation order
//
// # Use Cases
//
//   - Real forms: RealClock with time.AfterFunc
//   - Tests and replays: ManualClock for reproducible debounce timing
package schedule
