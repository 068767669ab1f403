package primitives

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Key addresses a child inside a composite value: a string name for objects,
// an integer index for arrays. The zero Key is Self, which a composite uses to
// track its own pending edits.
type Key struct {
	name    string
	index   int
	indexed bool
}

// Self is the key a composite node uses for its own structural edits.
var Self = Key{}

// Name returns an object key.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns an array key.
func Index(i int) Key {
	return Key{index: i, indexed: true}
}

// KeyOf converts a string, integer or Key into a Key.
// Unknown types are formatted with %v and used as names.
func KeyOf(v any) Key {
	switch k := v.(type) {
	case Key:
		return k
	case string:
		return Name(k)
	case int:
		return Index(k)
	case int32:
		return Index(int(k))
	case int64:
		return Index(int(k))
	case uint:
		return Index(int(k))
	case float64:
		return Index(int(k))
	default:
		return Name(fmt.Sprintf("%v", v))
	}
}

// IsSelf reports whether k is the self key.
func (k Key) IsSelf() bool { return k == Self }

// IsIndex reports whether k addresses an array element.
func (k Key) IsIndex() bool { return k.indexed }

// Index returns the array index, or -1 for name keys.
func (k Key) Index() int {
	if !k.indexed {
		return -1
	}
	return k.index
}

// Name returns the object key name. Index keys render their decimal form.
func (k Key) Name() string {
	if k.indexed {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// String is the segment used in error trees and paths.
func (k Key) String() string { return k.Name() }

// MarshalJSON encodes index keys as numbers and name keys as strings.
func (k Key) MarshalJSON() ([]byte, error) {
	if k.indexed {
		return json.Marshal(k.index)
	}
	return json.Marshal(k.name)
}

// UnmarshalJSON accepts a number or a string.
func (k *Key) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*k = Index(int(v))
	case string:
		*k = Name(v)
	default:
		return fmt.Errorf("key: unsupported JSON value %s", string(data))
	}
	return nil
}

// MarshalYAML encodes index keys as ints and name keys as strings.
func (k Key) MarshalYAML() (any, error) {
	if k.indexed {
		return k.index, nil
	}
	return k.name, nil
}

// UnmarshalYAML accepts an int or a string scalar.
func (k *Key) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("key: expected scalar, got kind %d at line %d", node.Kind, node.Line)
	}
	if node.ShortTag() == "!!int" {
		i, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("key: %w", err)
		}
		*k = Index(i)
		return nil
	}
	*k = Name(node.Value)
	return nil
}

// Path is a sequence of keys from the root of a value tree.
type Path []Key

// segmentPattern matches the same segments as "a.b[1].c" or "a[b][1]".
var segmentPattern = regexp.MustCompile(`[^\[\].]+`)

// ParsePath splits a dotted/bracketed path. Purely numeric bracket segments
// become index keys; everything else is a name. The empty string is the root path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	var p Path
	for _, loc := range segmentPattern.FindAllStringIndex(s, -1) {
		seg := s[loc[0]:loc[1]]
		bracketed := loc[0] > 0 && s[loc[0]-1] == '['
		if i, err := strconv.Atoi(seg); err == nil && bracketed {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Name(seg))
	}
	return p
}

// Append returns a new path with keys appended; p is never modified.
func (p Path) Append(keys ...Key) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// String renders the path as "a.b[1].c".
func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if k.IsIndex() {
			fmt.Fprintf(&b, "[%d]", k.Index())
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(k.Name())
	}
	return b.String()
}
