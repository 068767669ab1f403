package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/comalice/formx/internal/primitives"
)

func TestReduceFieldFocusBlur(t *testing.T) {
	s := primitives.NewFieldState("", nil)
	s = ReduceField(s, primitives.Focus())
	if !s.Focused || !s.Touched {
		t.Fatalf("after FOCUS: %+v", s)
	}
	s = ReduceField(s, primitives.Blur())
	if s.Focused || !s.Touched {
		t.Errorf("after BLUR: focused=%v touched=%v, want false true", s.Focused, s.Touched)
	}
}

func TestReduceFieldChangeAndCommit(t *testing.T) {
	s := primitives.NewFieldState("a", nil)
	s = ReduceField(s, primitives.Change("b"))
	if s.Value != "b" || !s.Dirty || !s.Changing {
		t.Fatalf("after CHANGE: %+v", s)
	}
	s = ReduceField(s, primitives.Commit(primitives.Self))
	if s.Changing {
		t.Error("COMMIT did not clear changing")
	}
	s = ReduceField(s, primitives.Change("a"))
	if s.Dirty {
		t.Error("changing back to the initial value should clear dirty")
	}
}

func TestReduceFieldSetValueKeepsChanging(t *testing.T) {
	s := primitives.NewFieldState("a", nil)
	s = ReduceField(s, primitives.SetValue("x"))
	if s.Value != "x" || !s.Dirty || s.Changing {
		t.Errorf("after SET_VALUE: %+v", s)
	}
}

func TestReduceFieldSetInitialValue(t *testing.T) {
	tests := []struct {
		name      string
		reinit    bool
		wantValue any
		wantDirty bool
	}{
		{"reinitialize", true, "new", false},
		{"keep value", false, "edited", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := primitives.NewFieldState("old", nil)
			s = ReduceField(s, primitives.Focus())
			s = ReduceField(s, primitives.Change("edited"))
			s = ReduceField(s, primitives.SetInitialValue("new", tt.reinit))
			if s.Value != tt.wantValue || s.Dirty != tt.wantDirty {
				t.Errorf("value=%v dirty=%v, want %v %v", s.Value, s.Dirty, tt.wantValue, tt.wantDirty)
			}
			if s.InitialValue != "new" || s.Touched {
				t.Errorf("initial=%v touched=%v", s.InitialValue, s.Touched)
			}
		})
	}
}

func TestReduceFieldSetError(t *testing.T) {
	s := primitives.NewFieldState("", "x")
	s = ReduceField(s, primitives.SetError(primitives.NewError("required")))
	if s.Valid || s.Error.Message != "required" || s.Value != "x" {
		t.Errorf("after SET_ERROR: %+v", s)
	}
	s = ReduceField(s, primitives.SetError(&primitives.ErrorNode{}))
	if !s.Valid || s.Error != nil {
		t.Errorf("empty error should clear: %+v", s)
	}
}

func TestReduceObjectChangingAggregation(t *testing.T) {
	s := primitives.NewCompositeState(primitives.KindObject, map[string]any{"a": "", "b": ""}, nil)
	a, b := primitives.Name("a"), primitives.Name("b")

	s = ReduceObject(s, primitives.Changing(a))
	s = ReduceObject(s, primitives.Changing(b))
	if !s.Changing {
		t.Fatal("composite should be changing")
	}
	s = ReduceObject(s, primitives.ChangeField(a, "x"))
	if !s.Changing || s.IsChanging(a) {
		t.Fatalf("after first CHANGE_FIELD: changing=%v keys=%v", s.Changing, s.ChangingKeys())
	}
	s = ReduceObject(s, primitives.ChangeField(b, "y"))
	if s.Changing {
		t.Error("last CHANGE_FIELD must clear changing in the same step")
	}
	if diff := cmp.Diff(map[string]any{"a": "x", "b": "y"}, s.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	if !s.Dirty {
		t.Error("value differs from initial; dirty should be true")
	}
}

func TestReduceObjectDoesNotMutateInput(t *testing.T) {
	initial := map[string]any{"a": 1}
	s := primitives.NewCompositeState(primitives.KindObject, initial, map[string]any{"a": 1})
	before := s
	_ = ReduceObject(s, primitives.Changing(primitives.Name("a")))
	_ = ReduceObject(s, primitives.SetField(primitives.Name("b"), 2))
	if len(before.Value.(map[string]any)) != 1 || len(before.ChangingFields) != 0 {
		t.Errorf("input state mutated: %+v", before)
	}
}

func TestReduceObjectRemoveField(t *testing.T) {
	s := primitives.NewCompositeState(primitives.KindObject, map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2})
	s = ReduceObject(s, primitives.Changing(primitives.Name("b")))
	s = ReduceObject(s, primitives.RemoveField(primitives.Name("b")))
	if s.Changing || s.Dirty {
		t.Errorf("after REMOVE_FIELD: changing=%v dirty=%v", s.Changing, s.Dirty)
	}
}

func TestReduceArrayOps(t *testing.T) {
	s := primitives.NewCompositeState(primitives.KindArray, []any{"a", "b"}, nil)
	s = ReduceArray(s, primitives.RemoveValue(1))
	s = ReduceArray(s, primitives.AddValue(""))
	if diff := cmp.Diff([]any{"a", ""}, s.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
	s = ReduceArray(s, primitives.SetValueAtIndex(4, "e"))
	if diff := cmp.Diff([]any{"a", "", nil, nil, "e"}, s.Value); diff != "" {
		t.Errorf("sparse fill mismatch (-want +got):\n%s", diff)
	}
	s = ReduceArray(s, primitives.RemoveLastValue())
	if primitives.Len(s.Value) != 4 {
		t.Errorf("len after REMOVE_LAST_VALUE = %d, want 4", primitives.Len(s.Value))
	}
	before := s.Value
	s = ReduceArray(s, primitives.SetField(primitives.Name("x"), 1))
	if !primitives.Equal(before, s.Value) {
		t.Errorf("SET_FIELD changed an array: %v", s.Value)
	}
}

func TestReduceArrayRemoveShiftsFlags(t *testing.T) {
	s := primitives.NewCompositeState(primitives.KindArray, []any{"a", "b", "c", "d"}, nil)
	for _, i := range []int{0, 1, 3} {
		s = ReduceArray(s, primitives.Changing(primitives.Index(i)))
	}
	s = ReduceArray(s, primitives.Changing(primitives.Self))
	s = ReduceArray(s, primitives.RemoveValue(1))

	want := map[primitives.Key]struct{}{
		primitives.Index(0): {},
		primitives.Index(2): {},
		primitives.Self:     {},
	}
	if diff := cmp.Diff(want, s.ChangingFields, cmp.AllowUnexported(primitives.Key{})); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestDirtyInvariant(t *testing.T) {
	s := primitives.NewCompositeState(primitives.KindObject, map[string]any{"tags": []any{"x"}}, nil)
	actions := []primitives.Action{
		primitives.SetField(primitives.Name("tags"), []any{"x", "y"}),
		primitives.SetField(primitives.Name("tags"), []any{"x"}),
		primitives.ChangeField(primitives.Name("n"), 1),
		primitives.RemoveField(primitives.Name("n")),
		primitives.SetValue(map[string]any{"tags": []any{"x"}}),
	}
	for _, a := range actions {
		s = ReduceObject(s, a)
		if want := !primitives.Equal(s.Value, s.InitialValue); s.Dirty != want {
			t.Errorf("after %s: dirty=%v want %v (value=%v)", a.Type, s.Dirty, want, s.Value)
		}
	}
}
