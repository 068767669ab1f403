package primitives

// Kind is the discriminant for a node in the form tree.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindArray
	KindForm
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindObject:
		return "OBJECT"
	case KindArray:
		return "ARRAY"
	case KindForm:
		return "FORM"
	default:
		return "UNKNOWN"
	}
}

// Composite reports whether nodes of this kind aggregate children.
func (k Kind) Composite() bool { return k != KindScalar }

// Status is the form orchestration state.
type Status string

const (
	StatusIdle               Status = "IDLE"
	StatusChanging           Status = "CHANGING"
	StatusValidating         Status = "VALIDATING"
	StatusValidatingOnChange Status = "VALIDATING_ON_CHANGE"
	StatusSubmitting         Status = "SUBMITTING"
)

// Locked reports whether mutating actions are rejected in this status.
func (s Status) Locked() bool {
	return s != StatusIdle && s != StatusChanging
}

// FieldState is the state record of a scalar field. Composite and form
// states embed it.
type FieldState struct {
	Value        any        `json:"value" yaml:"value"`
	InitialValue any        `json:"initialValue" yaml:"initialValue"`
	Dirty        bool       `json:"dirty" yaml:"dirty"`
	Focused      bool       `json:"focused" yaml:"focused"`
	Touched      bool       `json:"touched" yaml:"touched"`
	Changing     bool       `json:"changing" yaml:"changing"`
	Error        *ErrorNode `json:"error,omitempty" yaml:"error,omitempty"`
	Valid        bool       `json:"valid" yaml:"valid"`
}

// NewFieldState seeds a field. A nil value falls back to the initial value.
func NewFieldState(initial, value any) FieldState {
	if value == nil {
		value = initial
	}
	return FieldState{
		Value:        value,
		InitialValue: initial,
		Dirty:        !Equal(value, initial),
		Valid:        true,
	}
}

// CompositeState is the state record of an object or array field.
type CompositeState struct {
	FieldState `yaml:",inline"`
	Kind       Kind `json:"kind" yaml:"kind"`

	// ChangingFields holds the child keys with a pending debounced edit.
	// Self marks the composite's own structural edit. Never mutated in place.
	ChangingFields map[Key]struct{} `json:"-" yaml:"-"`
}

// NewCompositeState seeds a composite. Nil values default to an empty
// map or slice for the kind.
func NewCompositeState(kind Kind, initial, value any) CompositeState {
	if initial == nil {
		initial = Empty(kind)
	}
	if value == nil {
		value = Clone(initial)
	}
	return CompositeState{
		FieldState: FieldState{
			Value:        value,
			InitialValue: initial,
			Dirty:        !Equal(value, initial),
			Valid:        true,
		},
		Kind: kind,
	}
}

// IsChanging reports whether key has a pending edit.
func (s CompositeState) IsChanging(key Key) bool {
	_, ok := s.ChangingFields[key]
	return ok
}

// ChangingKeys returns the pending keys in no particular order.
func (s CompositeState) ChangingKeys() []Key {
	keys := make([]Key, 0, len(s.ChangingFields))
	for k := range s.ChangingFields {
		keys = append(keys, k)
	}
	return keys
}

// FormState is the state record of the root node.
type FormState struct {
	CompositeState `yaml:",inline"`
	Status         Status `json:"status" yaml:"status"`
}

// NewFormState seeds an IDLE form.
func NewFormState(initial, value any) FormState {
	return FormState{
		CompositeState: NewCompositeState(KindForm, initial, value),
		Status:         StatusIdle,
	}
}

// Empty returns the zero composite value for kind: an empty map for
// objects and forms, an empty slice for arrays, nil for scalars.
func Empty(kind Kind) any {
	switch kind {
	case KindObject, KindForm:
		return map[string]any{}
	case KindArray:
		return []any{}
	default:
		return nil
	}
}
