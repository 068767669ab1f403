package production

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"
	"github.com/looplab/fsm"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

// DefaultVisualizer renders the status machine with looplab/fsm and the
// form state as JSON.
type DefaultVisualizer struct{}

var _ core.Visualizer = (*DefaultVisualizer)(nil)

// ExportDOT generates Graphviz DOT source for the status machine with
// current highlighted.
func (v *DefaultVisualizer) ExportDOT(current primitives.Status) string {
	return fsm.Visualize(statusMachine(current))
}

// ExportMermaid generates a Mermaid state diagram.
func (v *DefaultVisualizer) ExportMermaid(current primitives.Status) (string, error) {
	out, err := fsm.VisualizeWithType(statusMachine(current), fsm.MermaidStateDiagram)
	if err != nil {
		return "", fmt.Errorf("mermaid: %w", err)
	}
	return out, nil
}

func statusMachine(current primitives.Status) *fsm.FSM {
	if current == "" {
		current = primitives.StatusIdle
	}
	return fsm.NewFSM(string(current), core.StatusEvents, fsm.Callbacks{})
}

type stateView struct {
	Status         primitives.Status `json:"status"`
	Value          any               `json:"value"`
	InitialValue   any               `json:"initialValue"`
	Dirty          bool              `json:"dirty"`
	Changing       bool              `json:"changing"`
	ChangingFields []string          `json:"changingFields,omitempty"`
	Valid          bool              `json:"valid"`
	Error          map[string]any    `json:"error,omitempty"`
}

// ExportJSON serializes the form state. Pending keys are listed in order.
func (v *DefaultVisualizer) ExportJSON(state primitives.FormState) ([]byte, error) {
	view := stateView{
		Status:       state.Status,
		Value:        state.Value,
		InitialValue: state.InitialValue,
		Dirty:        state.Dirty,
		Changing:     state.Changing,
		Valid:        state.Valid,
	}
	for _, k := range state.ChangingKeys() {
		view.ChangingFields = append(view.ChangingFields, k.String())
	}
	slices.Sort(view.ChangingFields)
	if !state.Error.Empty() {
		view.Error = state.Error.Map()
	}
	return json.MarshalIndent(view, "", "  ")
}
