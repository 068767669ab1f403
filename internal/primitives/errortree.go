package primitives

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrorNode is one level of the path-indexed error tree. Message is the
// error at this exact path (the "" key on the wire); Fields holds deeper errors.
type ErrorNode struct {
	Message string
	Fields  map[string]*ErrorNode
	// Indexed marks a node that sits under an array index in its parent.
	// The wire shape does not carry it.
	Indexed bool
}

// NewError returns a leaf node.
func NewError(msg string) *ErrorNode {
	return &ErrorNode{Message: msg}
}

// Empty reports whether the node carries no message and no children.
func (n *ErrorNode) Empty() bool {
	return n == nil || (n.Message == "" && len(n.Fields) == 0)
}

// Child returns the subtree at key, or nil. Safe on a nil receiver.
func (n *ErrorNode) Child(key Key) *ErrorNode {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[key.Name()]
}

// Lookup walks path and returns the subtree there, or nil.
func (n *ErrorNode) Lookup(path Path) *ErrorNode {
	cur := n
	for _, k := range path {
		cur = cur.Child(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// With returns a copy of n with msg recorded at path. A later message at
// the same path replaces an earlier one; deeper entries never displace it.
func (n *ErrorNode) With(path Path, msg string) *ErrorNode {
	out := n.clone()
	if out == nil {
		out = &ErrorNode{}
	}
	cur := out
	for _, k := range path {
		if cur.Fields == nil {
			cur.Fields = map[string]*ErrorNode{}
		}
		next, ok := cur.Fields[k.Name()]
		if !ok {
			next = &ErrorNode{Indexed: k.IsIndex()}
			cur.Fields[k.Name()] = next
		}
		cur = next
	}
	cur.Message = msg
	return out
}

func (n *ErrorNode) clone() *ErrorNode {
	if n == nil {
		return nil
	}
	out := &ErrorNode{Message: n.Message, Indexed: n.Indexed}
	if len(n.Fields) > 0 {
		out.Fields = make(map[string]*ErrorNode, len(n.Fields))
		for k, c := range n.Fields {
			out.Fields[k] = c.clone()
		}
	}
	return out
}

// Issues flattens the tree into path-tagged entries, sorted by path.
func (n *ErrorNode) Issues() []Issue {
	var out []Issue
	n.collect(nil, &out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path.String() < out[j].Path.String()
	})
	return out
}

func (n *ErrorNode) collect(prefix Path, out *[]Issue) {
	if n == nil {
		return
	}
	if n.Message != "" {
		*out = append(*out, Issue{Path: prefix.Append(), Message: n.Message})
	}
	for k, c := range n.Fields {
		c.collect(prefix.Append(c.key(k)), out)
	}
}

// key rebuilds the path segment a child was recorded under.
func (n *ErrorNode) key(name string) Key {
	if n.Indexed {
		if i, err := strconv.Atoi(name); err == nil && i >= 0 {
			return Index(i)
		}
	}
	return Name(name)
}

// Map renders the wire shape. The root is always a mapping with the
// form-level message under "". Deeper leaves render as plain strings;
// a node with both a message and children renders {"": msg, ...}.
func (n *ErrorNode) Map() map[string]any {
	out := map[string]any{}
	if n == nil {
		return out
	}
	if n.Message != "" {
		out[""] = n.Message
	}
	for k, c := range n.Fields {
		out[k] = c.render()
	}
	return out
}

func (n *ErrorNode) render() any {
	if len(n.Fields) == 0 {
		return n.Message
	}
	m := make(map[string]any, len(n.Fields)+1)
	if n.Message != "" {
		m[""] = n.Message
	}
	for k, c := range n.Fields {
		m[k] = c.render()
	}
	return m
}

// ErrorTreeFromMap parses the wire shape produced by Map.
func ErrorTreeFromMap(m map[string]any) (*ErrorNode, error) {
	n := &ErrorNode{}
	for k, v := range m {
		if k == "" {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("error tree: root message is %T, want string", v)
			}
			n.Message = s
			continue
		}
		child, err := parseErrorValue(v)
		if err != nil {
			return nil, fmt.Errorf("error tree: %s: %w", k, err)
		}
		if n.Fields == nil {
			n.Fields = map[string]*ErrorNode{}
		}
		n.Fields[k] = child
	}
	return n, nil
}

func parseErrorValue(v any) (*ErrorNode, error) {
	switch x := v.(type) {
	case string:
		return &ErrorNode{Message: x}, nil
	case map[string]any:
		return ErrorTreeFromMap(x)
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}

func (n *ErrorNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Map())
}

func (n *ErrorNode) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := ErrorTreeFromMap(m)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

func (n *ErrorNode) MarshalYAML() (any, error) {
	return n.Map(), nil
}

func (n *ErrorNode) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return err
	}
	parsed, err := ErrorTreeFromMap(m)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// String renders the tree as compact JSON.
func (n *ErrorNode) String() string {
	data, err := json.Marshal(n.Map())
	if err != nil {
		return fmt.Sprintf("%v", n.Map())
	}
	return string(data)
}
