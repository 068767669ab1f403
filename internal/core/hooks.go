package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/formx/internal/primitives"
)

// Sentinel errors shared by the runtime and its adapters.
var (
	ErrClosed        = errors.New("form closed")
	ErrLocked        = errors.New("form locked")
	ErrUnmounted     = errors.New("field unmounted")
	ErrNotFound      = errors.New("snapshot not found")
	ErrInvalidConfig = errors.New("invalid config")
)

// Validator is the external async validator. It may return a normalized
// value (nil keeps the current one) or an error; a *ValidationError is
// rendered into the error tree by path.
type Validator interface {
	Validate(ctx context.Context, value any) (any, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, value any) (any, error)

func (f ValidatorFunc) Validate(ctx context.Context, value any) (any, error) {
	return f(ctx, value)
}

// Submitter is the external async submit handler.
type Submitter interface {
	Submit(ctx context.Context, value any) error
}

// SubmitFunc adapts a function to Submitter.
type SubmitFunc func(ctx context.Context, value any) error

func (f SubmitFunc) Submit(ctx context.Context, value any) error {
	return f(ctx, value)
}

// Snapshot is the serializable state of a form.
type Snapshot struct {
	ID           string                `json:"id" yaml:"id"`
	FormID       string                `json:"formID" yaml:"formID"`
	Value        any                   `json:"value" yaml:"value"`
	InitialValue any                   `json:"initialValue" yaml:"initialValue"`
	Error        *primitives.ErrorNode `json:"error,omitempty" yaml:"error,omitempty"`
	Status       primitives.Status     `json:"status" yaml:"status"`
	Timestamp    time.Time             `json:"timestamp" yaml:"timestamp"`
}

// Persister stores form snapshots.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, formID string) (Snapshot, error)
}

// Change is published for every action the form accepts.
type Change struct {
	FormID    string            `json:"formID" yaml:"formID"`
	Action    primitives.Action `json:"action" yaml:"action"`
	Status    primitives.Status `json:"status" yaml:"status"`
	Value     any               `json:"value" yaml:"value"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
}

// Publisher receives form changes. Implementations must not block the caller.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
	Close() error
}

// Observer is notified of reducer steps and async handler outcomes.
type Observer interface {
	ObserveAction(action primitives.Action, accepted bool)
	ObserveTransition(from, to primitives.Status)
	ObserveValidation(d time.Duration, err error)
	ObserveSubmit(d time.Duration, err error)
}

// Visualizer renders the status machine and form state.
type Visualizer interface {
	ExportDOT(current primitives.Status) string
	ExportJSON(state primitives.FormState) ([]byte, error)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) ObserveAction(primitives.Action, bool) {}
func (NopObserver) ObserveTransition(primitives.Status, primitives.Status) {}
func (NopObserver) ObserveValidation(time.Duration, error) {}
func (NopObserver) ObserveSubmit(time.Duration, error) {}
