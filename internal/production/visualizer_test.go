package production

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

func TestExportDOT(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(primitives.StatusSubmitting)
	for _, want := range []string{"digraph", `"IDLE" -> "VALIDATING"`, "SUBMITTING_FAILED"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestExportMermaid(t *testing.T) {
	v := &DefaultVisualizer{}
	out, err := v.ExportMermaid("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "stateDiagram") {
		t.Errorf("unexpected mermaid output:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	st := primitives.NewFormState(map[string]any{"a": 1}, map[string]any{"a": 2})
	st = core.ReduceForm(st, primitives.Changing(primitives.Name("b")))
	st = core.ReduceForm(st, primitives.Changing(primitives.Name("a")))

	data, err := (&DefaultVisualizer{}).ExportJSON(st)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "CHANGING" || got["dirty"] != true {
		t.Errorf("got %v", got)
	}
	if diff := cmp.Diff([]any{"a", "b"}, got["changingFields"]); diff != "" {
		t.Errorf("changing fields mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got["error"]; ok {
		t.Error("empty error should be omitted")
	}
}
