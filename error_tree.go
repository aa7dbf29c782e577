package formskema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrorTree mirrors the shape of a value and carries its validation messages.
// A nil *ErrorTree means "no error".
//
//   - leaf positions set Message;
//   - objects set Fields, keyed by field name;
//   - arrays set Members, keyed by the schema's KeySelector;
//   - objects and arrays set Internal for node-level messages.
type ErrorTree struct {
	Message  string
	Internal string
	Fields   map[string]*ErrorTree
	Members  map[string]*ErrorTree
}

// LeafError returns a leaf error node, or nil for an empty message.
func LeafError(msg string) *ErrorTree {
	if msg == "" {
		return nil
	}
	return &ErrorTree{Message: msg}
}

// Field returns the error recorded for a field, or nil.
func (e *ErrorTree) Field(name string) *ErrorTree {
	if e == nil {
		return nil
	}
	return e.Fields[name]
}

// Member returns the error recorded for an array member, or nil.
func (e *ErrorTree) Member(key string) *ErrorTree {
	if e == nil {
		return nil
	}
	return e.Members[key]
}

// HasErrors reports whether e represents at least one error. An empty but
// present Fields or Members map counts as no errors.
func HasErrors(e *ErrorTree) bool {
	if e == nil {
		return false
	}
	if e.Message != "" || e.Internal != "" {
		return true
	}
	for _, fe := range e.Fields {
		if HasErrors(fe) {
			return true
		}
	}
	for _, me := range e.Members {
		if HasErrors(me) {
			return true
		}
	}
	return false
}

// Tree converts e to plain maps and strings in its wire shape: a leaf becomes
// its message, other nodes become {"fields", "members", "$internal"} with empty
// parts omitted. A nil tree becomes nil.
func (e *ErrorTree) Tree() any {
	if e == nil {
		return nil
	}
	if e.Message != "" && e.Internal == "" && len(e.Fields) == 0 && len(e.Members) == 0 {
		return e.Message
	}
	out := map[string]any{}
	if e.Internal != "" {
		out["$internal"] = e.Internal
	}
	if len(e.Fields) > 0 {
		out["fields"] = treeMap(e.Fields)
	}
	if len(e.Members) > 0 {
		out["members"] = treeMap(e.Members)
	}
	return out
}

func treeMap(m map[string]*ErrorTree) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = v.Tree()
	}
	return out
}

// MarshalJSON encodes the wire shape returned by Tree.
func (e *ErrorTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Tree())
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (e *ErrorTree) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseErrorTree(raw)
	if err != nil {
		return err
	}
	if parsed == nil {
		*e = ErrorTree{}
		return nil
	}
	*e = *parsed
	return nil
}

// ParseErrorTree converts a decoded wire-shape value back into an ErrorTree.
// Strings become leaf errors; a list of strings becomes a leaf error holding
// the first message.
func ParseErrorTree(v any) (*ErrorTree, error) {
	return parseErrorTree(v, rootPath)
}

func parseErrorTree(v any, p *path) (*ErrorTree, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return LeafError(t), nil
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok && s != "" {
				return LeafError(s), nil
			}
		}
		return nil, nil
	case map[string]any:
		node := &ErrorTree{}
		if in, ok := t["$internal"]; ok && in != nil {
			s, ok := in.(string)
			if !ok {
				return nil, fmt.Errorf("formskema: %s/$internal: expected string, got %T", trimRoot(p), in)
			}
			node.Internal = s
		}
		var err error
		if node.Fields, err = parseErrorMap(t["fields"], p, "fields"); err != nil {
			return nil, err
		}
		if node.Members, err = parseErrorMap(t["members"], p, "members"); err != nil {
			return nil, err
		}
		return pruneNode(node), nil
	default:
		return nil, fmt.Errorf("formskema: %s: unexpected error value of type %T", p.pointer(), v)
	}
}

func parseErrorMap(v any, p *path, part string) (map[string]*ErrorTree, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("formskema: %s/%s: expected object, got %T", trimRoot(p), part, v)
	}
	out := map[string]*ErrorTree{}
	for k, child := range m {
		ce, err := parseErrorTree(child, p.field(k))
		if err != nil {
			return nil, err
		}
		if ce != nil {
			out[k] = ce
		}
	}
	return out, nil
}

func trimRoot(p *path) string {
	if s := p.pointer(); s != "/" {
		return s
	}
	return ""
}

// pruneNode returns nil when the node carries neither an internal message nor
// any child errors.
func pruneNode(n *ErrorTree) *ErrorTree {
	if len(n.Fields) == 0 {
		n.Fields = nil
	}
	if len(n.Members) == 0 {
		n.Members = nil
	}
	if n.Internal == "" && n.Message == "" && n.Fields == nil && n.Members == nil {
		return nil
	}
	return n
}
