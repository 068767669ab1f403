package primitives

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/tiendc/go-deepcopy"
)

var equalOpts = cmp.Options{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmp.FilterValues(func(x, y any) bool { return isEmpty(x) && isEmpty(y) }, cmp.Comparer(func(_, _ any) bool { return true })),
}

// Equal compares two values. Maps, slices and structs are compared
// structurally; comparable scalars use ==. Absent values are all equal at
// any depth: untyped nil, nil pointers, and nil or empty maps and slices.
func Equal(a, b any) bool {
	if ea, eb := isEmpty(a), isEmpty(b); ea || eb {
		return ea && eb
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == tb && ta.Comparable() && !structured(ta) {
		return a == b
	}
	return cmp.Equal(a, b, equalOpts)
}

func structured(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Interface, reflect.Pointer:
		return true
	}
	return false
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Clone returns a deep copy of v. Values that cannot be copied are
// returned unchanged.
func Clone(v any) any {
	if v == nil {
		return nil
	}
	src := reflect.ValueOf(v)
	switch src.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
	default:
		return v
	}
	dst := reflect.New(src.Type())
	srcPtr := reflect.New(src.Type())
	srcPtr.Elem().Set(src)
	if err := deepcopy.Copy(dst.Interface(), srcPtr.Interface()); err != nil {
		return v
	}
	return dst.Elem().Interface()
}

// Get reads the child at key from a map with string keys or a slice.
// Missing keys, out-of-range indices and non-container values yield nil.
func Get(container any, key Key) any {
	if container == nil {
		return nil
	}
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		v := rv.MapIndex(reflect.ValueOf(key.Name()).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	case reflect.Slice, reflect.Array:
		i := key.Index()
		if i < 0 || i >= rv.Len() {
			return nil
		}
		return rv.Index(i).Interface()
	}
	return nil
}

// Len returns the number of children of a map or slice value.
func Len(container any) int {
	if container == nil {
		return 0
	}
	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len()
	}
	return 0
}

// AsMap returns a shallow map[string]any view of an object value.
func AsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m)+1)
		for k, x := range m {
			out[k] = x
		}
		return out
	}
	out := map[string]any{}
	if v == nil {
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
	}
	return out
}

// AsSlice returns a shallow []any copy of an array value.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		out := make([]any, len(s), len(s)+1)
		copy(out, s)
		return out
	}
	if v == nil {
		return []any{}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// With returns a copy of container with key set to v. Array writes past
// the end fill the gap with nil.
func With(container any, kind Kind, key Key, v any) (any, error) {
	switch kind {
	case KindObject, KindForm:
		if key.IsIndex() {
			return nil, fmt.Errorf("with: index key %s on %s", key, kind)
		}
		m := AsMap(container)
		m[key.Name()] = v
		return m, nil
	case KindArray:
		i := key.Index()
		if i < 0 {
			return nil, fmt.Errorf("with: name key %q on %s", key.Name(), kind)
		}
		s := AsSlice(container)
		for len(s) <= i {
			s = append(s, nil)
		}
		s[i] = v
		return s, nil
	}
	return nil, fmt.Errorf("with: %s is not a composite", kind)
}

// Without returns a copy of container with key removed. Array removal
// splices, shifting later elements down.
func Without(container any, kind Kind, key Key) (any, error) {
	switch kind {
	case KindObject, KindForm:
		m := AsMap(container)
		delete(m, key.Name())
		return m, nil
	case KindArray:
		s := AsSlice(container)
		i := key.Index()
		if i < 0 || i >= len(s) {
			return s, nil
		}
		return append(s[:i], s[i+1:]...), nil
	}
	return nil, fmt.Errorf("without: %s is not a composite", kind)
}
