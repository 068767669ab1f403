package formx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	. "github.com/comalice/formx"
)

func TestFieldFocusBlur(t *testing.T) {
	form := NewForm(map[string]any{"name": ""}, WithClock(newClock()))
	name := form.Field("name", FieldOptions{})

	name.Focus()
	if st := name.State(); !st.Focused || !st.Touched {
		t.Fatalf("after focus: %+v", st)
	}
	name.Blur()
	if st := name.State(); st.Focused || !st.Touched {
		t.Fatalf("after blur: %+v", st)
	}
	wantStatus(t, form, StatusIdle)
}

func TestFieldSubscribe(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{"name": ""}, WithClock(clock))
	name := form.Field("name", FieldOptions{DebounceDelay: 10 * time.Millisecond})

	var values []any
	var changing []bool
	unsubscribe := name.Subscribe(func(s FieldState) {
		values = append(values, s.Value)
		changing = append(changing, s.Changing)
	})

	if err := name.Change("x"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(10 * time.Millisecond)
	unsubscribe()
	name.Focus()

	if diff := cmp.Diff([]any{"x", "x"}, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false}, changing); diff != "" {
		t.Errorf("changing mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldDispatchChangeIsDebounced(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{"name": ""}, WithClock(clock))
	name := form.Field("name", FieldOptions{DebounceDelay: 10 * time.Millisecond})

	if err := name.Dispatch(Action{Type: ActionChange, Value: "x"}); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, form, StatusChanging)
	clock.Advance(10 * time.Millisecond)
	if diff := cmp.Diff(map[string]any{"name": "x"}, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldSetErrorIsLocal(t *testing.T) {
	form := NewForm(map[string]any{"name": ""}, WithClock(newClock()))
	name := form.Field("name", FieldOptions{})

	if err := name.Dispatch(SetError(NewError("taken"))); err != nil {
		t.Fatal(err)
	}
	if st := name.State(); st.Valid || st.Error.Message != "taken" {
		t.Fatalf("field = %+v", st)
	}
	if form.State().Error != nil {
		t.Error("field error must not reach the form")
	}
}

func TestFieldUnmountFlushesPendingValue(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{"name": ""}, WithClock(clock))
	name := form.Field("name", FieldOptions{DebounceDelay: time.Second})

	if err := name.Change("typed"); err != nil {
		t.Fatal(err)
	}
	wantStatus(t, form, StatusChanging)
	name.Unmount()

	wantStatus(t, form, StatusIdle)
	if diff := cmp.Diff(map[string]any{"name": "typed"}, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if err := name.Change("late"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("Change after unmount = %v", err)
	}
	clock.Advance(time.Second)
	if diff := cmp.Diff(map[string]any{"name": "typed"}, form.Value()); diff != "" {
		t.Errorf("cancelled commit fired (-want +got):\n%s", diff)
	}
}

func TestFieldRemoveOnUnmount(t *testing.T) {
	form := NewForm(map[string]any{"name": "a", "nick": "b"}, WithClock(newClock()))
	nick := form.Field("nick", FieldOptions{RemoveOnUnmount: true})

	nick.Unmount()
	if diff := cmp.Diff(map[string]any{"name": "a"}, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectUnmountCascades(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{"address": map[string]any{"city": "", "zip": ""}}, WithClock(clock))
	address := form.Object("address", FieldOptions{})
	city := address.Field("city", FieldOptions{DebounceDelay: time.Second})
	zip := address.Field("zip", FieldOptions{DebounceDelay: time.Second, RemoveOnUnmount: true})

	if err := city.Change("Oslo"); err != nil {
		t.Fatal(err)
	}
	if err := zip.Change("0150"); err != nil {
		t.Fatal(err)
	}
	if address.Children() != 2 {
		t.Fatalf("children = %d", address.Children())
	}

	address.Unmount()
	wantStatus(t, form, StatusIdle)
	want := map[string]any{"address": map[string]any{"city": "Oslo"}}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if address.Children() != 0 {
		t.Errorf("children after unmount = %d", address.Children())
	}
	if err := address.SetField("city", "x"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("SetField after unmount = %v", err)
	}
}

func TestObjectSetFieldReachesChild(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{"address": map[string]any{"city": ""}}, WithClock(clock))
	address := form.Object("address", FieldOptions{DebounceDelay: 10 * time.Millisecond})
	city := address.Field("city", FieldOptions{})

	if err := address.SetField("city", "Bergen"); err != nil {
		t.Fatal(err)
	}
	if city.Value() != "Bergen" {
		t.Errorf("child = %v", city.Value())
	}
	wantStatus(t, form, StatusChanging)
	clock.Advance(10 * time.Millisecond)
	wantStatus(t, form, StatusIdle)
	want := map[string]any{"address": map[string]any{"city": "Bergen"}}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedArrayOfObjects(t *testing.T) {
	clock := newClock()
	form := NewForm(map[string]any{
		"people": []any{map[string]any{"name": "ada"}},
	}, WithClock(clock), WithDebounceDelay(0))
	people := form.Array("people", FieldOptions{})
	first := people.Object(0, FieldOptions{})
	name := first.Field("name", FieldOptions{})

	if name.Path().String() != "people[0].name" {
		t.Errorf("path = %s", name.Path())
	}
	if err := name.Change("Ada"); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"people": []any{map[string]any{"name": "Ada"}}}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	wantStatus(t, form, StatusIdle)
}

func TestMountRejectsBadKeys(t *testing.T) {
	form := NewForm(map[string]any{"tags": []any{}})
	tags := form.Array("tags", FieldOptions{})

	cases := map[string]func(){
		"self key":       func() { form.Field("", FieldOptions{}) },
		"negative index": func() { tags.Field(-1, FieldOptions{}) },
	}
	for name, mount := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			mount()
		})
	}
}
