package primitives

// ActionType is the discriminant of an Action.
type ActionType string

// Field actions.
const (
	ActionFocus           ActionType = "FOCUS"
	ActionBlur            ActionType = "BLUR"
	ActionChange          ActionType = "CHANGE"
	ActionCommit          ActionType = "COMMIT"
	ActionSetValue        ActionType = "SET_VALUE"
	ActionSetInitialValue ActionType = "SET_INITIAL_VALUE"
	ActionSetError        ActionType = "SET_ERROR"
)

// Composite actions. Children report into their parent with these.
const (
	ActionChanging    ActionType = "CHANGING"
	ActionChangeField ActionType = "CHANGE_FIELD"
	ActionRemoveField ActionType = "REMOVE_FIELD"
	ActionSetField    ActionType = "SET_FIELD"
)

// Array actions.
const (
	ActionAddValue        ActionType = "ADD_VALUE"
	ActionRemoveValue     ActionType = "REMOVE_VALUE"
	ActionRemoveLastValue ActionType = "REMOVE_LAST_VALUE"
	ActionSetValueAtIndex ActionType = "SET_VALUE_AT_INDEX"
)

// Form actions.
const (
	ActionSubmit           ActionType = "SUBMIT"
	ActionValidate         ActionType = "VALIDATE"
	ActionValidatingDone   ActionType = "VALIDATING_DONE"
	ActionValidatingFailed ActionType = "VALIDATING_FAILED"
	ActionSubmittingDone   ActionType = "SUBMITTING_DONE"
	ActionSubmittingFailed ActionType = "SUBMITTING_FAILED"
)

// Action is a tagged union. Only the fields relevant to Type are set.
type Action struct {
	Type         ActionType `json:"type" yaml:"type"`
	Key          Key        `json:"key,omitempty" yaml:"key,omitempty"`
	Value        any        `json:"value,omitempty" yaml:"value,omitempty"`
	Error        *ErrorNode `json:"error,omitempty" yaml:"error,omitempty"`
	Reinitialize bool       `json:"reinitialize,omitempty" yaml:"reinitialize,omitempty"`
}

// Mutating reports whether the action writes a form's value or baseline.
// The form drops mutating actions while it is locked.
func (a Action) Mutating() bool {
	switch a.Type {
	case ActionChanging, ActionChangeField, ActionSetValue, ActionSetField, ActionRemoveField,
		ActionAddValue, ActionRemoveValue, ActionRemoveLastValue, ActionSetValueAtIndex,
		ActionSetInitialValue, ActionChange:
		return true
	}
	return false
}

func Focus() Action { return Action{Type: ActionFocus} }

func Blur() Action { return Action{Type: ActionBlur} }

// Change is a local, optimistic edit.
func Change(v any) Action { return Action{Type: ActionChange, Value: v} }

// Commit clears the pending edit tracked under key. Scalars ignore the key.
func Commit(key Key) Action { return Action{Type: ActionCommit, Key: key} }

// SetValue is an authoritative overwrite pushed from above.
func SetValue(v any) Action { return Action{Type: ActionSetValue, Value: v} }

func SetInitialValue(v any, reinitialize bool) Action {
	return Action{Type: ActionSetInitialValue, Value: v, Reinitialize: reinitialize}
}

func SetError(err *ErrorNode) Action { return Action{Type: ActionSetError, Error: err} }

func Changing(key Key) Action { return Action{Type: ActionChanging, Key: key} }

// ChangeField merges a child's committed value and clears its changing flag.
func ChangeField(key Key, v any) Action {
	return Action{Type: ActionChangeField, Key: key, Value: v}
}

func RemoveField(key Key) Action { return Action{Type: ActionRemoveField, Key: key} }

func SetField(key Key, v any) Action { return Action{Type: ActionSetField, Key: key, Value: v} }

func AddValue(v any) Action { return Action{Type: ActionAddValue, Value: v} }

func RemoveValue(i int) Action { return Action{Type: ActionRemoveValue, Key: Index(i)} }

func RemoveLastValue() Action { return Action{Type: ActionRemoveLastValue} }

func SetValueAtIndex(i int, v any) Action {
	return Action{Type: ActionSetValueAtIndex, Key: Index(i), Value: v}
}

func Submit() Action { return Action{Type: ActionSubmit} }

func Validate() Action { return Action{Type: ActionValidate} }

// ValidatingDone carries the validator's result. A nil value keeps the current one.
func ValidatingDone(v any) Action { return Action{Type: ActionValidatingDone, Value: v} }

func ValidatingFailed(err *ErrorNode) Action {
	return Action{Type: ActionValidatingFailed, Error: err}
}

func SubmittingDone() Action { return Action{Type: ActionSubmittingDone} }

func SubmittingFailed(err *ErrorNode) Action {
	return Action{Type: ActionSubmittingFailed, Error: err}
}
