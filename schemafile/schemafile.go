// Package schemafile loads formskema schemas from declarative YAML documents.
//
// A node is a mapping with an optional kind (leaf, object or array; leaf when
// omitted):
//
//	kind: object
//	validation: [{match: [password, confirm]}]
//	fields:
//	  name: {rules: [required, {minLength: 3}]}
//	  tags:
//	    kind: array
//	    key: id
//	    validation: [atLeastOne, {uniqueBy: label}]
//	    member:
//	      kind: object
//	      fields:
//	        label: {rules: [requiredString]}
//
// Rules are written as a bare name or as a single-key mapping from name to
// argument. Errors name the JSON Pointer of the offending node.
package schemafile

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/rules"
)

// RuleFactory builds a rule from the argument written next to its name. arg
// is nil for bare names.
type RuleFactory func(arg any) (formskema.Rule, error)

// Loader turns YAML documents into schemas using a rule registry.
type Loader struct {
	mu    sync.RWMutex
	rules map[string]RuleFactory
}

// NewLoader returns a Loader that knows the built-in rules.
func NewLoader() *Loader {
	l := &Loader{rules: make(map[string]RuleFactory, len(builtinRules))}
	for k, f := range builtinRules {
		l.rules[k] = f
	}
	return l
}

// Register adds or replaces a rule. Names are case-sensitive.
func (l *Loader) Register(name string, f RuleFactory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules[name] = f
}

// RuleNames lists the registered rule names in order.
func (l *Loader) RuleNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.rules))
	for k := range l.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var defaultLoader = NewLoader()

// Load parses data with the default loader.
func Load(data []byte) (*formskema.Schema, error) { return defaultLoader.Load(data) }

// LoadFile reads and parses a schema file with the default loader.
func LoadFile(path string) (*formskema.Schema, error) { return defaultLoader.LoadFile(path) }

// LoadFile reads and parses a schema file.
func (l *Loader) LoadFile(path string) (*formskema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return l.Load(data)
}

// Load parses a YAML schema document. The result has passed
// formskema.CheckSchema.
func (l *Loader) Load(data []byte) (*formskema.Schema, error) {
	doc, err := ReadYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("schemafile: empty document")
	}
	s, err := l.build(doc, "")
	if err != nil {
		return nil, err
	}
	if err := formskema.CheckSchema(s); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return s, nil
}

var nodeKeys = map[string]struct{}{
	"kind": {}, "rules": {}, "validation": {}, "fields": {}, "member": {}, "key": {},
}

func (l *Loader) build(v any, ptr string) (*formskema.Schema, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errorf(ptr, "expected mapping, got %T", v)
	}
	for _, k := range sortedKeys(m) {
		if _, known := nodeKeys[k]; !known {
			return nil, errorf(ptr+"/"+escape(k), "unknown key")
		}
	}
	kind, _ := m["kind"].(string)
	if kind == "" {
		kind = "leaf"
	}
	switch kind {
	case "leaf":
		for _, k := range []string{"fields", "member", "key", "validation"} {
			if _, ok := m[k]; ok {
				return nil, errorf(ptr+"/"+k, "not allowed on a leaf")
			}
		}
		rs, err := l.parseRules(m["rules"], ptr+"/rules")
		if err != nil {
			return nil, err
		}
		return dsl.Leaf(rs...), nil
	case "object":
		if _, ok := m["rules"]; ok {
			return nil, errorf(ptr+"/rules", "use validation on objects")
		}
		fm, ok := m["fields"].(map[string]any)
		if !ok {
			return nil, errorf(ptr+"/fields", "object needs a fields mapping")
		}
		b := dsl.Object()
		for _, name := range sortedKeys(fm) {
			fs, err := l.build(fm[name], ptr+"/fields/"+escape(name))
			if err != nil {
				return nil, err
			}
			b.Field(name, fs)
		}
		vr, err := l.parseValidation(m["validation"], ptr+"/validation")
		if err != nil {
			return nil, err
		}
		return b.Validation(vr).Build()
	case "array":
		if _, ok := m["rules"]; ok {
			return nil, errorf(ptr+"/rules", "use validation on arrays")
		}
		key, _ := m["key"].(string)
		if key == "" {
			return nil, errorf(ptr+"/key", "array needs a key field name")
		}
		if m["member"] == nil {
			return nil, errorf(ptr+"/member", "array needs a member")
		}
		member, err := l.build(m["member"], ptr+"/member")
		if err != nil {
			return nil, err
		}
		vr, err := l.parseValidation(m["validation"], ptr+"/validation")
		if err != nil {
			return nil, err
		}
		return dsl.Array(member, dsl.KeyField(key)).Validation(vr).Build()
	default:
		return nil, errorf(ptr+"/kind", "unknown kind %q", kind)
	}
}

func (l *Loader) parseValidation(v any, ptr string) (formskema.Rule, error) {
	rs, err := l.parseRules(v, ptr)
	if err != nil || len(rs) == 0 {
		return nil, err
	}
	if len(rs) == 1 {
		return rs[0], nil
	}
	return rules.All(rs...), nil
}

func (l *Loader) parseRules(v any, ptr string) ([]formskema.Rule, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errorf(ptr, "expected a list of rules")
	}
	out := make([]formskema.Rule, 0, len(list))
	for i, spec := range list {
		p := ptr + "/" + strconv.Itoa(i)
		name, arg, err := splitRuleSpec(spec)
		if err != nil {
			return nil, errorf(p, "%v", err)
		}
		l.mu.RLock()
		f, ok := l.rules[name]
		l.mu.RUnlock()
		if !ok {
			return nil, errorf(p, "unknown rule %q", name)
		}
		r, err := f(arg)
		if err != nil {
			return nil, errorf(p, "%s: %v", name, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func splitRuleSpec(spec any) (string, any, error) {
	switch t := spec.(type) {
	case string:
		return t, nil, nil
	case map[string]any:
		if len(t) != 1 {
			return "", nil, fmt.Errorf("rule mapping must have exactly one key, got %d", len(t))
		}
		for k, v := range t {
			return k, v, nil
		}
	}
	return "", nil, fmt.Errorf("rule must be a name or a {name: argument} mapping, got %T", spec)
}

func errorf(ptr, format string, a ...any) error {
	if ptr == "" {
		ptr = "/"
	}
	return fmt.Errorf("schemafile: %s: %s", ptr, fmt.Sprintf(format, a...))
}

func escape(seg string) string {
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}

func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
