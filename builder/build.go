package builder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/comalice/formx"
	"github.com/comalice/formx/internal/extensibility"
	"github.com/comalice/formx/internal/primitives"
)

// ErrUnknownField is returned when an edit names a path with no mounted scalar.
var ErrUnknownField = errors.New("unknown field")

// Tree is a form with every schema field mounted, indexed by path.
type Tree struct {
	Form      *formx.Form
	Validator *extensibility.RuleValidator

	fields  map[string]*formx.Field
	objects map[string]*formx.ObjectField
	arrays  map[string]*formx.ArrayField
}

// Build validates s, creates the form and mounts its fields. The compiled
// rule validator is installed first, so a WithValidator in opts replaces it.
func Build(s Schema, opts ...formx.Option) (*Tree, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{
		Validator: extensibility.NewRuleValidator(s.Rules()),
		fields:    map[string]*formx.Field{},
		objects:   map[string]*formx.ObjectField{},
		arrays:    map[string]*formx.ArrayField{},
	}
	base := []formx.Option{
		formx.WithID(s.ID),
		formx.WithValidator(t.Validator),
		formx.WithValidateOnChange(s.ValidateOnChange),
	}
	if s.Debounce > 0 {
		base = append(base, formx.WithDebounceDelay(s.Debounce))
	}
	t.Form = formx.NewForm(s.Initial, append(base, opts...)...)

	for _, f := range s.Fields {
		t.mount(f, mountFuncs{
			field:  func(o formx.FieldOptions) *formx.Field { return t.Form.Field(f.Name, o) },
			object: func(o formx.FieldOptions) *formx.ObjectField { return t.Form.Object(f.Name, o) },
			array:  func(o formx.FieldOptions) *formx.ArrayField { return t.Form.Array(f.Name, o) },
		})
	}
	return t, nil
}

type mountFuncs struct {
	field  func(formx.FieldOptions) *formx.Field
	object func(formx.FieldOptions) *formx.ObjectField
	array  func(formx.FieldOptions) *formx.ArrayField
}

func (t *Tree) mount(f FieldSpec, m mountFuncs) {
	switch f.kind() {
	case KindObject:
		obj := m.object(f.options())
		t.objects[obj.Path().String()] = obj
		for _, c := range f.Fields {
			t.mount(c, mountFuncs{
				field:  func(o formx.FieldOptions) *formx.Field { return obj.Field(c.Name, o) },
				object: func(o formx.FieldOptions) *formx.ObjectField { return obj.Object(c.Name, o) },
				array:  func(o formx.FieldOptions) *formx.ArrayField { return obj.Array(c.Name, o) },
			})
		}
	case KindArray:
		arr := m.array(f.options())
		t.arrays[arr.Path().String()] = arr
		if f.Item == nil {
			return
		}
		for i := range arr.Len() {
			item := *f.Item
			item.Name = fmt.Sprint(i)
			t.mount(item, mountFuncs{
				field:  func(o formx.FieldOptions) *formx.Field { return arr.Field(i, o) },
				object: func(o formx.FieldOptions) *formx.ObjectField { return arr.Object(i, o) },
				array:  func(o formx.FieldOptions) *formx.ArrayField { return arr.Array(i, o) },
			})
		}
	default:
		fld := m.field(f.options())
		t.fields[fld.Path().String()] = fld
	}
}

// Field returns the scalar mounted at path ("address.city", "tags[0]").
func (t *Tree) Field(path string) (*formx.Field, bool) {
	f, ok := t.fields[normalize(path)]
	return f, ok
}

// Object returns the object mounted at path.
func (t *Tree) Object(path string) (*formx.ObjectField, bool) {
	o, ok := t.objects[normalize(path)]
	return o, ok
}

// Array returns the array mounted at path.
func (t *Tree) Array(path string) (*formx.ArrayField, bool) {
	a, ok := t.arrays[normalize(path)]
	return a, ok
}

// Paths returns the paths of every mounted scalar, sorted.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.fields))
	for p := range t.fields {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Apply changes the scalar at e.Path.
func (t *Tree) Apply(e extensibility.Edit) error {
	f, ok := t.fields[e.Path.String()]
	if !ok {
		return fmt.Errorf("apply %s: %w", e.Path, ErrUnknownField)
	}
	return f.Change(e.Value)
}

func normalize(path string) string {
	return primitives.ParsePath(path).String()
}
