package formx

import "github.com/comalice/formx/internal/primitives"

const (
	ActionFocus           = primitives.ActionFocus
	ActionBlur            = primitives.ActionBlur
	ActionChange          = primitives.ActionChange
	ActionCommit          = primitives.ActionCommit
	ActionSetValue        = primitives.ActionSetValue
	ActionSetInitialValue = primitives.ActionSetInitialValue
	ActionSetError        = primitives.ActionSetError

	ActionChanging    = primitives.ActionChanging
	ActionChangeField = primitives.ActionChangeField
	ActionRemoveField = primitives.ActionRemoveField
	ActionSetField    = primitives.ActionSetField

	ActionAddValue        = primitives.ActionAddValue
	ActionRemoveValue     = primitives.ActionRemoveValue
	ActionRemoveLastValue = primitives.ActionRemoveLastValue
	ActionSetValueAtIndex = primitives.ActionSetValueAtIndex

	ActionSubmit           = primitives.ActionSubmit
	ActionValidate         = primitives.ActionValidate
	ActionValidatingDone   = primitives.ActionValidatingDone
	ActionValidatingFailed = primitives.ActionValidatingFailed
	ActionSubmittingDone   = primitives.ActionSubmittingDone
	ActionSubmittingFailed = primitives.ActionSubmittingFailed
)

// Action constructors for Dispatch.
var (
	Focus           = primitives.Focus
	Blur            = primitives.Blur
	SetValue        = primitives.SetValue
	SetInitialValue = primitives.SetInitialValue
	SetError        = primitives.SetError
	SetFieldAction  = primitives.SetField
	RemoveField     = primitives.RemoveField
	AddValue        = primitives.AddValue
	RemoveValue     = primitives.RemoveValue
	RemoveLastValue = primitives.RemoveLastValue
	SetValueAtIndex = primitives.SetValueAtIndex
)

// NewError returns a leaf error node.
func NewError(msg string) *ErrorNode { return primitives.NewError(msg) }
