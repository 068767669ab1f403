// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/formx/builder"
)

// GenFlatInitial creates an object value with n string fields f0..fn-1.
func GenFlatInitial(n int) map[string]any {
	if n < 1 {
		n = 1
	}
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		out[FieldName(i)] = ""
	}
	return out
}

// GenDeepInitial creates depth nested objects, each under the key "n",
// with a scalar "leaf" at the bottom.
func GenDeepInitial(depth int) map[string]any {
	if depth < 1 {
		depth = 1
	}
	var v any = map[string]any{"leaf": ""}
	for i := 1; i < depth; i++ {
		v = map[string]any{"n": v}
	}
	return v.(map[string]any)
}

// GenArrayInitial creates {"items": [0 .. n-1]}.
func GenArrayInitial(n int) map[string]any {
	items := make([]any, n)
	for i := range items {
		items[i] = i
	}
	return map[string]any{"items": items}
}

// FieldName is the name GenFlatInitial gives field i.
func FieldName(i int) string { return fmt.Sprintf("f%d", i) }

// GenSchemaYAML renders a flat builder schema of n required fields.
func GenSchemaYAML(n int) []byte {
	s := builder.Schema{ID: fmt.Sprintf("flat_%d", n), Initial: GenFlatInitial(n)}
	for i := 0; i < n; i++ {
		s.Fields = append(s.Fields, builder.FieldSpec{Name: FieldName(i), Rules: "required"})
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		panic(err)
	}
	return data
}
