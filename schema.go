package formskema

// Kind discriminates the variants of a Schema node.
type Kind int

const (
	KindInvalid Kind = iota // Zero value; always a schema definition error.
	KindLeaf                // Scalar position validated by an ordered rule sequence.
	KindObject              // Named fields, each with its own schema.
	KindArray               // Homogeneous list of members matched by key.
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Rule is a pure check over a value. It returns an error message, or "" when
// the value passes.
type Rule func(value any) string

// Schema describes the shape of a value and the rules that apply to it.
//
// Fields is a closure rather than a static map so that field sets can depend on
// runtime context (for example a field that is only required in some states).
// It is called once per operation on the node.
type Schema struct {
	Kind Kind

	// Rules are evaluated in order for KindLeaf; the first failure wins.
	Rules []Rule

	// Fields returns the field schemas of a KindObject node.
	Fields func() map[string]*Schema

	// Member and KeySelector describe a KindArray node. KeySelector must return
	// a key that is stable and unique within one array state.
	Member      *Schema
	KeySelector func(element any) string

	// Validation runs on the whole value of a KindObject or KindArray node and
	// is reported as the node's Internal message. A leaf with Validation is
	// malformed; put the check in Rules instead.
	Validation Rule
}

// maxSchemaDepth bounds CheckSchema on self-referential schemas.
const maxSchemaDepth = 64

// CheckSchema walks s and returns a *SchemaDefinitionError for the first
// malformed node. Operations tolerate malformed nodes (they log and skip them);
// callers that prefer to fail fast check their schemas up front.
func CheckSchema(s *Schema) error {
	if s == nil {
		return ErrNilSchema
	}
	return checkSchema(s, rootPath, 0)
}

func checkSchema(s *Schema, p *path, depth int) error {
	if depth > maxSchemaDepth {
		return nil
	}
	if reason := malformed(s); reason != "" {
		return &SchemaDefinitionError{Path: p.pointer(), Reason: reason}
	}
	switch s.Kind {
	case KindObject:
		fields := s.Fields()
		for _, k := range sortedSchemaKeys(fields) {
			if err := checkSchema(fields[k], p.field(k), depth+1); err != nil {
				return err
			}
		}
	case KindArray:
		return checkSchema(s.Member, p.field("*"), depth+1)
	}
	return nil
}

// malformed returns a reason when s is not a usable node.
func malformed(s *Schema) string {
	if s == nil {
		return "nil schema"
	}
	switch s.Kind {
	case KindLeaf:
		if s.Validation != nil {
			return "validation not allowed on a leaf"
		}
		return ""
	case KindObject:
		if s.Fields == nil {
			return "object schema without fields"
		}
		return ""
	case KindArray:
		if s.Member == nil {
			return "array schema without member"
		}
		if s.KeySelector == nil {
			return "array schema without key selector"
		}
		return ""
	default:
		return "unknown schema kind"
	}
}
