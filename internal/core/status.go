package core

import (
	"github.com/looplab/fsm"

	"github.com/comalice/formx/internal/primitives"
)

// Status machine event names.
const (
	EventChanging         = "CHANGING"
	EventSettled          = "SETTLED"
	EventSubmit           = "SUBMIT"
	EventValidate         = "VALIDATE"
	EventValidatingDone   = "VALIDATING_DONE"
	EventValidatingFailed = "VALIDATING_FAILED"
	EventSubmittingDone   = "SUBMITTING_DONE"
	EventSubmittingFailed = "SUBMITTING_FAILED"
)

var (
	idle               = string(primitives.StatusIdle)
	changing           = string(primitives.StatusChanging)
	validating         = string(primitives.StatusValidating)
	validatingOnChange = string(primitives.StatusValidatingOnChange)
	submitting         = string(primitives.StatusSubmitting)
)

// StatusEvents is the form orchestration transition table. The pure
// reducer and the runtime's fsm mirror are both driven by it.
var StatusEvents = []fsm.EventDesc{
	{Name: EventChanging, Src: []string{idle, changing}, Dst: changing},
	{Name: EventSettled, Src: []string{changing}, Dst: idle},
	{Name: EventSubmit, Src: []string{idle}, Dst: validating},
	{Name: EventValidate, Src: []string{idle}, Dst: validatingOnChange},
	{Name: EventValidatingDone, Src: []string{validating}, Dst: submitting},
	{Name: EventValidatingDone, Src: []string{validatingOnChange}, Dst: idle},
	{Name: EventValidatingFailed, Src: []string{validating, validatingOnChange}, Dst: idle},
	{Name: EventSubmittingDone, Src: []string{submitting}, Dst: idle},
	{Name: EventSubmittingFailed, Src: []string{submitting}, Dst: idle},
}

// NextStatus looks up the transition for event from status.
func NextStatus(from primitives.Status, event string) (primitives.Status, bool) {
	for _, e := range StatusEvents {
		if e.Name != event {
			continue
		}
		for _, src := range e.Src {
			if src == string(from) {
				return primitives.Status(e.Dst), true
			}
		}
	}
	return from, false
}

// StatusEvent finds the event that moves from one status to another.
// The action that caused the move disambiguates the two transitions into IDLE.
func StatusEvent(from, to primitives.Status, cause primitives.ActionType) (string, bool) {
	if want, ok := actionEvents[cause]; ok {
		if dst, ok := NextStatus(from, want); ok && dst == to {
			return want, true
		}
	}
	for _, e := range StatusEvents {
		if e.Dst != string(to) {
			continue
		}
		for _, src := range e.Src {
			if src == string(from) {
				return e.Name, true
			}
		}
	}
	return "", false
}

var actionEvents = map[primitives.ActionType]string{
	primitives.ActionSubmit:           EventSubmit,
	primitives.ActionValidate:         EventValidate,
	primitives.ActionValidatingDone:   EventValidatingDone,
	primitives.ActionValidatingFailed: EventValidatingFailed,
	primitives.ActionSubmittingDone:   EventSubmittingDone,
	primitives.ActionSubmittingFailed: EventSubmittingFailed,
}

// Accepts reports whether a form in status s applies action a.
func Accepts(s primitives.Status, a primitives.Action) bool {
	if a.Mutating() {
		return !s.Locked()
	}
	if ev, ok := actionEvents[a.Type]; ok {
		_, ok := NextStatus(s, ev)
		return ok
	}
	return true
}

// ReduceForm is the root reducer. It layers the status machine over the
// object reducer and drops mutating actions while the form is locked.
func ReduceForm(s primitives.FormState, a primitives.Action) primitives.FormState {
	if !Accepts(s.Status, a) {
		return s
	}
	switch a.Type {
	case primitives.ActionSubmit:
		s.Status, _ = NextStatus(s.Status, EventSubmit)
		s.Error = nil
		s.Valid = true
		return s
	case primitives.ActionValidate:
		s.Status, _ = NextStatus(s.Status, EventValidate)
		s.Error = nil
		s.Valid = true
		return s
	case primitives.ActionValidatingDone:
		s.Status, _ = NextStatus(s.Status, EventValidatingDone)
		if a.Value != nil {
			s.Value = a.Value
			s.Dirty = !primitives.Equal(s.Value, s.InitialValue)
		}
		s.Error = nil
		s.Valid = true
		return s
	case primitives.ActionValidatingFailed:
		s.Status, _ = NextStatus(s.Status, EventValidatingFailed)
		s.Error, s.Valid = failure(a.Error)
		return s
	case primitives.ActionSubmittingDone:
		s.Status, _ = NextStatus(s.Status, EventSubmittingDone)
		return s
	case primitives.ActionSubmittingFailed:
		s.Status, _ = NextStatus(s.Status, EventSubmittingFailed)
		s.Error, s.Valid = failure(a.Error)
		return s
	}

	s.CompositeState = reduceComposite(s.CompositeState, a)
	if s.Changing {
		s.Status, _ = NextStatus(s.Status, EventChanging)
	} else {
		s.Status, _ = NextStatus(s.Status, EventSettled)
	}
	return s
}

func failure(n *primitives.ErrorNode) (*primitives.ErrorNode, bool) {
	if n.Empty() {
		n = primitives.NewError("validation failed")
	}
	return n, false
}
