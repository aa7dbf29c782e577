package formskema

import (
	"go.uber.org/zap"

	"github.com/reoring/formskema/internal/ident"
	"github.com/reoring/formskema/internal/listdiff"
)

// ValidateIncremental re-validates newValue against s, reusing oldErr for
// every subtree whose value did not change since oldValue.
//
// When oldValue and newValue are the same value, oldErr is returned as is and
// no rule runs. Containers are compared by identity (see internal/ident), so
// callers must keep unchanged branches as the same maps and slices between
// snapshots. Errors of untouched subtrees are kept even if the rules that
// produced them have changed since; run Validate to refresh everything.
//
// Array members are matched by KeySelector, never by position: reordering,
// insertion and removal keep the errors of unrelated members.
func ValidateIncremental(oldValue, newValue any, oldErr *ErrorTree, s *Schema) *ErrorTree {
	return validateIncremental(oldValue, newValue, oldErr, s, rootPath)
}

func validateIncremental(oldValue, newValue any, oldErr *ErrorTree, s *Schema, p *path) *ErrorTree {
	if ident.Same(oldValue, newValue) {
		return oldErr
	}
	if reason := malformed(s); reason != "" {
		reportMalformed("validate_incremental", p, reason)
		return nil
	}
	if s.Kind == KindLeaf {
		return LeafError(firstFailure(s.Rules, newValue))
	}
	node := &ErrorTree{Internal: internalMessage(s, newValue)}
	switch s.Kind {
	case KindArray:
		res := listdiff.Compare(ListOf(oldValue), ListOf(newValue), s.KeySelector, ident.Same)
		if len(res.Duplicates) > 0 {
			Logger().Debug("duplicate array keys",
				zap.String("path", p.pointer()),
				zap.Strings("keys", res.Duplicates))
		}
		for _, k := range res.Unmodified {
			if prev := oldErr.Member(k); prev != nil {
				node.Members = putChild(node.Members, k, prev)
			}
		}
		for _, m := range res.Modified {
			if me := validateIncremental(m.Old, m.New, oldErr.Member(m.Key), s.Member, p.field(m.Key)); me != nil {
				node.Members = putChild(node.Members, m.Key, me)
			}
		}
		for _, m := range res.Added {
			if me := validate(m.New, s.Member, p.field(m.Key)); me != nil {
				node.Members = putChild(node.Members, m.Key, me)
			}
		}
	case KindObject:
		for name, fs := range s.Fields() {
			oldField, newField := FieldOf(oldValue, name), FieldOf(newValue, name)
			prev := oldErr.Field(name)
			if prev != nil && ident.Same(oldField, newField) {
				node.Fields = putChild(node.Fields, name, prev)
				continue
			}
			if fe := validateIncremental(oldField, newField, prev, fs, p.field(name)); fe != nil {
				node.Fields = putChild(node.Fields, name, fe)
			}
		}
	}
	return pruneNode(node)
}
