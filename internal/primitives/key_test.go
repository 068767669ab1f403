package primitives

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestKeyBasics(t *testing.T) {
	if !Self.IsSelf() {
		t.Error("Self.IsSelf() = false")
	}
	if Name("").IsSelf() != true {
		t.Error("empty name key should be the self key")
	}
	if Index(0).IsSelf() {
		t.Error("Index(0) must not be the self key")
	}
	if got := Index(3).String(); got != "3" {
		t.Errorf("Index(3).String() = %q, want 3", got)
	}
	if got := Name("email").Index(); got != -1 {
		t.Errorf("Name.Index() = %d, want -1", got)
	}
	if KeyOf(2) != Index(2) || KeyOf("a") != Name("a") || KeyOf(Name("b")) != Name("b") {
		t.Error("KeyOf did not convert")
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"", Path{}},
		{"email", Path{Name("email")}},
		{"a.b", Path{Name("a"), Name("b")}},
		{"items[1].name", Path{Name("items"), Index(1), Name("name")}},
		{"a[b][2]", Path{Name("a"), Name("b"), Index(2)}},
		{"a.0", Path{Name("a"), Name("0")}},
	}
	for _, tt := range tests {
		got := ParsePath(tt.in)
		if !cmp.Equal(got, tt.want, cmp.AllowUnexported(Key{})) {
			t.Errorf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPathString(t *testing.T) {
	p := Path{Name("items"), Index(1), Name("name")}
	if got := p.String(); got != "items[1].name" {
		t.Errorf("String() = %q, want items[1].name", got)
	}
	if got := ParsePath(p.String()); !cmp.Equal(got, p, cmp.AllowUnexported(Key{})) {
		t.Errorf("round trip = %v, want %v", got, p)
	}
}

func TestPathAppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Name("a")
	x := base.Append(Name("x"))
	y := base.Append(Name("y"))
	if x[1] != Name("x") || y[1] != Name("y") {
		t.Errorf("Append aliased: x=%v y=%v", x, y)
	}
}

func TestKeyJSON(t *testing.T) {
	data, err := json.Marshal([]Key{Name("a"), Index(2)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a",2]` {
		t.Errorf("got %s want [\"a\",2]", data)
	}
	var keys []Key
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatal(err)
	}
	if keys[0] != Name("a") || keys[1] != Index(2) {
		t.Errorf("decoded %v", keys)
	}
}

func TestKeyYAML(t *testing.T) {
	var p Path
	if err := yaml.Unmarshal([]byte("[items, 3, '4']"), &p); err != nil {
		t.Fatal(err)
	}
	want := Path{Name("items"), Index(3), Name("4")}
	if !cmp.Equal(p, want, cmp.AllowUnexported(Key{})) {
		t.Errorf("got %v want %v", p, want)
	}
}
