package formskema

import "strconv"

// ExtractOpt configures Extract.
type ExtractOpt struct {
	// NoFalsyValues returns empty containers instead of FalsyValue for objects
	// and arrays without values, and leaves absent leaves absent.
	NoFalsyValues bool
	// FalsyValue replaces absent leaves and empty containers. Defaults to nil,
	// which drops the position from its parent object.
	FalsyValue any
}

// Extract returns a cleaned copy of value shaped by s: object fields whose
// extracted value is nil are omitted, and objects and arrays without values
// collapse to FalsyValue (or to empty containers with NoFalsyValues). Rules are
// not evaluated. A malformed schema node is logged and yields nil.
func Extract(value any, s *Schema, opts ...ExtractOpt) any {
	var opt ExtractOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return extract(value, s, opt, rootPath)
}

func extract(value any, s *Schema, opt ExtractOpt, p *path) any {
	if reason := malformed(s); reason != "" {
		reportMalformed("extract", p, reason)
		return nil
	}
	switch s.Kind {
	case KindLeaf:
		if IsNull(value) && !opt.NoFalsyValues {
			return opt.FalsyValue
		}
		return value
	case KindArray:
		elems := ListOf(value)
		values := make([]any, len(elems))
		for i, el := range elems {
			values[i] = extract(el, s.Member, opt, p.field(strconv.Itoa(i)))
		}
		if hasNoValues(values) {
			if opt.NoFalsyValues {
				return []any{}
			}
			return opt.FalsyValue
		}
		return values
	default: // KindObject
		fields := s.Fields()
		values := make(map[string]any, len(fields))
		for name, fs := range fields {
			fv := extract(FieldOf(value, name), fs, opt, p.field(name))
			if fv != nil {
				values[name] = fv
			}
		}
		if len(values) == 0 {
			if opt.NoFalsyValues {
				return map[string]any{}
			}
			return opt.FalsyValue
		}
		return values
	}
}

func hasNoValues(values []any) bool {
	for _, v := range values {
		if Truthy(v) {
			return false
		}
	}
	return true
}
