// Package formx is a state engine for hierarchical forms.
//
// A Form is the root of a tree of fields. Scalar Fields, ObjectFields and
// ArrayFields read their slice of value, initial value and error from the
// parent on every cycle and write back only through dispatched actions.
// Local edits are optimistic and reach the parent after a per-field debounce.
// The Form sequences IDLE, CHANGING, VALIDATING, VALIDATING_ON_CHANGE and
// SUBMITTING around an external Validator and Submitter.
//
// All reducer steps of one tree run on a single schedule.Loop, so state is
// never observed half-updated. State() is safe from any goroutine.
package formx

import (
	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

type (
	Key             = primitives.Key
	Path            = primitives.Path
	Kind            = primitives.Kind
	Status          = primitives.Status
	Action          = primitives.Action
	ActionType      = primitives.ActionType
	FieldState      = primitives.FieldState
	CompositeState  = primitives.CompositeState
	FormState       = primitives.FormState
	ErrorNode       = primitives.ErrorNode
	Issue           = primitives.Issue
	ValidationError = primitives.ValidationError

	Validator     = core.Validator
	ValidatorFunc = core.ValidatorFunc
	Submitter     = core.Submitter
	SubmitFunc    = core.SubmitFunc
	Snapshot      = core.Snapshot
	Persister     = core.Persister
	Publisher     = core.Publisher
	Change        = core.Change
	Observer      = core.Observer
)

const (
	StatusIdle               = primitives.StatusIdle
	StatusChanging           = primitives.StatusChanging
	StatusValidating         = primitives.StatusValidating
	StatusValidatingOnChange = primitives.StatusValidatingOnChange
	StatusSubmitting         = primitives.StatusSubmitting

	KindScalar = primitives.KindScalar
	KindObject = primitives.KindObject
	KindArray  = primitives.KindArray
	KindForm   = primitives.KindForm
)

var (
	ErrClosed        = core.ErrClosed
	ErrLocked        = core.ErrLocked
	ErrUnmounted     = core.ErrUnmounted
	ErrNotFound      = core.ErrNotFound
	ErrInvalidConfig = core.ErrInvalidConfig
)

// Self is the key a composite uses for its own pending edit.
var Self = primitives.Self

// Name returns an object key.
func Name(name string) Key { return primitives.Name(name) }

// Index returns an array key.
func Index(i int) Key { return primitives.Index(i) }

// ParsePath parses "a.b[1]" style paths.
func ParsePath(s string) Path { return primitives.ParsePath(s) }

// NewValidationError builds a path-tagged validation error.
func NewValidationError(issues ...Issue) *ValidationError {
	return primitives.NewValidationError(issues...)
}

// AsValidationError extracts a *ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	return primitives.AsValidationError(err)
}
