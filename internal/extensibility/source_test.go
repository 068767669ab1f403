package extensibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/comalice/formx/internal/primitives"
	"github.com/comalice/formx/schedule"
)

func TestPumpAppliesEditsUntilClosed(t *testing.T) {
	ch := make(chan Edit, 3)
	ch <- Edit{Path: primitives.ParsePath("a"), Value: 1}
	ch <- Edit{Path: primitives.ParsePath("bad"), Value: 2}
	ch <- Edit{Path: primitives.ParsePath("b"), Value: 3}
	close(ch)

	var applied []string
	var failed []string
	err := Pump(context.Background(), NewChannelSource(ch), func(e Edit) error {
		if e.Path.String() == "bad" {
			return errors.New("no such field")
		}
		applied = append(applied, e.Path.String())
		return nil
	}, func(e Edit, _ error) {
		failed = append(failed, e.Path.String())
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 2 || len(failed) != 1 {
		t.Errorf("applied %v, failed %v", applied, failed)
	}
}

func TestPumpStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Pump(ctx, NewChannelSource(make(chan Edit)), func(Edit) error { return nil }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Pump = %v", err)
	}
}

func drain(ch <-chan Edit) []string {
	var out []string
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return append(out, "closed")
			}
			out = append(out, e.Path.String())
		default:
			return out
		}
	}
}

func TestReplaySourceHonoursDelays(t *testing.T) {
	clock := schedule.NewManualClock(time.Unix(0, 0))
	r := NewReplaySource(clock, []TimedEdit{
		{Edit: Edit{Path: primitives.ParsePath("email"), Value: "a"}},
		{Edit: Edit{Path: primitives.ParsePath("email"), Value: "ab"}, After: 50 * time.Millisecond},
		{Edit: Edit{Path: primitives.ParsePath("tags[0]"), Value: "x"}, After: 100 * time.Millisecond},
	})

	if diff := cmp.Diff([]string{"email"}, drain(r.Edits())); diff != "" {
		t.Fatalf("at start (-want +got):\n%s", diff)
	}
	clock.Advance(49 * time.Millisecond)
	if got := drain(r.Edits()); len(got) != 0 {
		t.Fatalf("edit delivered early: %v", got)
	}
	clock.Advance(time.Millisecond)
	if diff := cmp.Diff([]string{"email"}, drain(r.Edits())); diff != "" {
		t.Fatalf("after 50ms (-want +got):\n%s", diff)
	}
	clock.Advance(100 * time.Millisecond)
	if diff := cmp.Diff([]string{"tags[0]", "closed"}, drain(r.Edits())); diff != "" {
		t.Errorf("after 150ms (-want +got):\n%s", diff)
	}
	r.Stop()
}

func TestReplaySourceStop(t *testing.T) {
	clock := schedule.NewManualClock(time.Unix(0, 0))
	r := NewReplaySource(clock, []TimedEdit{
		{Edit: Edit{Path: primitives.ParsePath("email"), Value: "a"}, After: time.Second},
	})
	r.Stop()
	r.Stop()
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d", clock.Pending())
	}
	clock.Advance(time.Second)
	if diff := cmp.Diff([]string{"closed"}, drain(r.Edits())); diff != "" {
		t.Errorf("after stop (-want +got):\n%s", diff)
	}
}

func TestPumpReplayIntoApply(t *testing.T) {
	r := NewReplaySource(schedule.RealClock(), []TimedEdit{
		{Edit: Edit{Path: primitives.ParsePath("a"), Value: 1}},
		{Edit: Edit{Path: primitives.ParsePath("b"), Value: 2}, After: 5 * time.Millisecond},
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var applied []string
	err := Pump(ctx, r, func(e Edit) error {
		applied = append(applied, e.Path.String())
		return nil
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
}
