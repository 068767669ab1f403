// Package core provides the pure reducers of the form engine and the
// pluggable interfaces the runtime is wired with.
//
// Reducers take a state record and an Action and return the next record.
// They never fail and never mutate their input: maps and slices are copied
// on write so a published state can be read from any goroutine.
package core

import (
	"github.com/comalice/formx/internal/primitives"
)

// ReduceField is the scalar field reducer.
func ReduceField(s primitives.FieldState, a primitives.Action) primitives.FieldState {
	switch a.Type {
	case primitives.ActionFocus:
		s.Focused = true
		s.Touched = true
	case primitives.ActionBlur:
		s.Focused = false
	case primitives.ActionChange:
		s.Value = a.Value
		s.Dirty = !primitives.Equal(s.Value, s.InitialValue)
		s.Changing = true
	case primitives.ActionCommit:
		s.Changing = false
	case primitives.ActionSetValue:
		s.Value = a.Value
		s.Dirty = !primitives.Equal(s.Value, s.InitialValue)
	case primitives.ActionSetInitialValue:
		s.InitialValue = a.Value
		s.Touched = false
		if a.Reinitialize {
			s.Value = primitives.Clone(a.Value)
			s.Dirty = false
			s.Changing = false
		} else {
			s.Dirty = !primitives.Equal(s.Value, s.InitialValue)
		}
	case primitives.ActionSetError:
		s.Error = normalizeError(a.Error)
		s.Valid = s.Error == nil
	}
	return s
}

func normalizeError(n *primitives.ErrorNode) *primitives.ErrorNode {
	if n.Empty() {
		return nil
	}
	return n
}

// ReduceObject is the object field reducer.
func ReduceObject(s primitives.CompositeState, a primitives.Action) primitives.CompositeState {
	return reduceComposite(s, a)
}

// ReduceArray is the array field reducer.
func ReduceArray(s primitives.CompositeState, a primitives.Action) primitives.CompositeState {
	return reduceComposite(s, a)
}

func reduceComposite(s primitives.CompositeState, a primitives.Action) primitives.CompositeState {
	switch a.Type {
	case primitives.ActionChanging:
		s.ChangingFields = withFlag(s.ChangingFields, a.Key)
	case primitives.ActionCommit:
		s.ChangingFields = withoutFlag(s.ChangingFields, a.Key)
	case primitives.ActionChangeField:
		v, err := primitives.With(s.Value, s.Kind, a.Key, a.Value)
		if err != nil {
			return s
		}
		s.Value = v
		s.ChangingFields = withoutFlag(s.ChangingFields, a.Key)
	case primitives.ActionSetField:
		if s.Kind == primitives.KindArray {
			return s
		}
		v, err := primitives.With(s.Value, s.Kind, a.Key, a.Value)
		if err != nil {
			return s
		}
		s.Value = v
	case primitives.ActionRemoveField:
		s = removeKey(s, a.Key)
	case primitives.ActionAddValue:
		if s.Kind != primitives.KindArray {
			return s
		}
		items := primitives.AsSlice(s.Value)
		s.Value = append(items, a.Value)
	case primitives.ActionRemoveValue:
		if s.Kind != primitives.KindArray {
			return s
		}
		s = removeKey(s, a.Key)
	case primitives.ActionRemoveLastValue:
		if s.Kind != primitives.KindArray {
			return s
		}
		n := primitives.Len(s.Value)
		if n == 0 {
			return s
		}
		s = removeKey(s, primitives.Index(n-1))
	case primitives.ActionSetValueAtIndex:
		if s.Kind != primitives.KindArray {
			return s
		}
		v, err := primitives.With(s.Value, s.Kind, a.Key, a.Value)
		if err != nil {
			return s
		}
		s.Value = v
	case primitives.ActionSetValue:
		s.Value = a.Value
	case primitives.ActionSetInitialValue:
		s.FieldState = ReduceField(s.FieldState, a)
		if a.Reinitialize {
			s.ChangingFields = nil
		}
	case primitives.ActionFocus, primitives.ActionBlur, primitives.ActionSetError:
		s.FieldState = ReduceField(s.FieldState, a)
		return s
	default:
		return s
	}
	s.Dirty = !primitives.Equal(s.Value, s.InitialValue)
	s.Changing = len(s.ChangingFields) > 0
	return s
}

// removeKey excises key from the value and the changing flags. Array
// removal shifts the flags of later indices down by one.
func removeKey(s primitives.CompositeState, key primitives.Key) primitives.CompositeState {
	v, err := primitives.Without(s.Value, s.Kind, key)
	if err != nil {
		return s
	}
	s.Value = v
	if s.Kind != primitives.KindArray {
		s.ChangingFields = withoutFlag(s.ChangingFields, key)
		return s
	}
	removed := key.Index()
	if removed < 0 || len(s.ChangingFields) == 0 {
		return s
	}
	shifted := make(map[primitives.Key]struct{}, len(s.ChangingFields))
	for k := range s.ChangingFields {
		switch {
		case !k.IsIndex():
			shifted[k] = struct{}{}
		case k.Index() < removed:
			shifted[k] = struct{}{}
		case k.Index() > removed:
			shifted[primitives.Index(k.Index()-1)] = struct{}{}
		}
	}
	s.ChangingFields = shifted
	return s
}

func withFlag(flags map[primitives.Key]struct{}, key primitives.Key) map[primitives.Key]struct{} {
	if _, ok := flags[key]; ok {
		return flags
	}
	out := make(map[primitives.Key]struct{}, len(flags)+1)
	for k := range flags {
		out[k] = struct{}{}
	}
	out[key] = struct{}{}
	return out
}

func withoutFlag(flags map[primitives.Key]struct{}, key primitives.Key) map[primitives.Key]struct{} {
	if _, ok := flags[key]; !ok {
		return flags
	}
	if len(flags) == 1 {
		return nil
	}
	out := make(map[primitives.Key]struct{}, len(flags)-1)
	for k := range flags {
		if k != key {
			out[k] = struct{}{}
		}
	}
	return out
}
