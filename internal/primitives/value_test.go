package primitives

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil vs empty string", nil, "", false},
		{"strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"int vs float", 1, 1.0, false},
		{"maps", map[string]any{"a": []any{1, "x"}}, map[string]any{"a": []any{1, "x"}}, true},
		{"maps differ", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"slices", []any{"a", nil}, []any{"a", nil}, true},
		{"slice length", []any{"a"}, []any{"a", nil}, false},
		{"nil map vs nil slice", map[string]any(nil), []any(nil), true},
		{"nil vs empty map", nil, map[string]any{}, true},
		{"empty map vs nil", map[string]any{}, nil, true},
		{"nil map vs empty map", map[string]any(nil), map[string]any{}, true},
		{"empty map vs empty slice", map[string]any{}, []any{}, true},
		{"nil vs non-empty map", nil, map[string]any{"a": 1}, false},
		{"nested nil vs empty", map[string]any{"a": nil}, map[string]any{"a": []any{}}, true},
		{"nested nil vs value", map[string]any{"a": nil}, map[string]any{"a": ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	src := map[string]any{"tags": []any{"a", "b"}, "n": 1}
	dst := Clone(src).(map[string]any)
	dst["tags"].([]any)[0] = "z"
	dst["n"] = 2
	if src["tags"].([]any)[0] != "a" || src["n"] != 1 {
		t.Errorf("Clone shared storage: %v", src)
	}
	if Clone("x") != "x" {
		t.Error("scalar clone changed value")
	}
}

func TestWithObject(t *testing.T) {
	orig := map[string]any{"a": 1}
	got, err := With(orig, KindObject, Name("b"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(orig) != 1 {
		t.Error("With mutated the original map")
	}
	if !Equal(got, map[string]any{"a": 1, "b": 2}) {
		t.Errorf("got %v", got)
	}
	if _, err := With(orig, KindObject, Index(0), 1); err == nil {
		t.Error("expected error for index key on object")
	}
}

func TestWithArraySparseFill(t *testing.T) {
	got, err := With([]any{"a"}, KindArray, Index(3), "d")
	if err != nil {
		t.Fatal(err)
	}
	want := []any{"a", nil, nil, "d"}
	if !Equal(got, want) {
		t.Errorf("got %v want %v", got, want)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a",null,null,"d"]` {
		t.Errorf("holes encoded as %s", data)
	}
}

func TestWithout(t *testing.T) {
	arr := []any{"a", "b", "c"}
	got, _ := Without(arr, KindArray, Index(1))
	if !Equal(got, []any{"a", "c"}) {
		t.Errorf("got %v", got)
	}
	if !Equal(arr, []any{"a", "b", "c"}) {
		t.Errorf("Without mutated the original: %v", arr)
	}
	obj, _ := Without(map[string]any{"a": 1, "b": 2}, KindObject, Name("a"))
	if !Equal(obj, map[string]any{"b": 2}) {
		t.Errorf("got %v", obj)
	}
}

func TestGet(t *testing.T) {
	type strMap map[string]string
	if got := Get(strMap{"a": "x"}, Name("a")); got != "x" {
		t.Errorf("typed map Get = %v", got)
	}
	if got := Get([]any{"a"}, Index(5)); got != nil {
		t.Errorf("out of range Get = %v", got)
	}
	if got := Get("scalar", Name("a")); got != nil {
		t.Errorf("scalar Get = %v", got)
	}
}
