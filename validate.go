package formskema

// Validate runs every rule of s against value and returns the resulting error
// tree, or nil when nothing failed. A malformed schema node is logged and
// contributes no error.
func Validate(value any, s *Schema) *ErrorTree {
	return validate(value, s, rootPath)
}

func validate(value any, s *Schema, p *path) *ErrorTree {
	if reason := malformed(s); reason != "" {
		reportMalformed("validate", p, reason)
		return nil
	}
	if s.Kind == KindLeaf {
		return LeafError(firstFailure(s.Rules, value))
	}
	node := &ErrorTree{Internal: internalMessage(s, value)}
	switch s.Kind {
	case KindArray:
		for _, el := range ListOf(value) {
			key := s.KeySelector(el)
			if me := validate(el, s.Member, p.field(key)); me != nil {
				node.Members = putChild(node.Members, key, me)
			}
		}
	case KindObject:
		for name, fs := range s.Fields() {
			if fe := validate(FieldOf(value, name), fs, p.field(name)); fe != nil {
				node.Fields = putChild(node.Fields, name, fe)
			}
		}
	}
	return pruneNode(node)
}

// firstFailure evaluates rules in order and returns the first message.
// Later rules are not evaluated.
func firstFailure(rules []Rule, value any) string {
	for _, r := range rules {
		if r == nil {
			continue
		}
		if msg := r(value); msg != "" {
			return msg
		}
	}
	return ""
}

func internalMessage(s *Schema, value any) string {
	if s.Validation == nil {
		return ""
	}
	return s.Validation(value)
}

func putChild(m map[string]*ErrorTree, key string, e *ErrorTree) map[string]*ErrorTree {
	if m == nil {
		m = map[string]*ErrorTree{}
	}
	m[key] = e
	return m
}
