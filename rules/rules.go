// Package rules provides leaf rules, combinators and object/array-level rules
// for formskema schemas. Messages come from the i18n package.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// ParseOp maps "eq", "ne", "lt", "le", "gt", "ge" (or their symbols) to an Op.
func ParseOp(s string) (Op, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "==", "=":
		return Eq, true
	case "ne", "!=":
		return Ne, true
	case "lt", "<":
		return Lt, true
	case "le", "<=":
		return Le, true
	case "gt", ">":
		return Gt, true
	case "ge", ">=":
		return Ge, true
	}
	return 0, false
}

// Conditional composes conditional execution of rules over a node value.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer like "/status" relative to the node the rule is attached to.
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAll(conds...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAny(conds...)
}

// Holds evaluates the condition against v.
func (c Conditional) Holds(v any) bool { return evalConditional(v, c) }

// Then attaches rules to run when the condition is satisfied. The first
// failing rule's message is returned.
func (c Conditional) Then(rules ...formskema.Rule) formskema.Rule {
	inner := All(rules...)
	return func(v any) string {
		if !evalConditional(v, c) {
			return ""
		}
		return inner(v)
	}
}

// RequiredIf reports field as required on the node when the condition holds
// and the field is empty.
func RequiredIf(c Conditional, field string) formskema.Rule {
	rel := strings.TrimPrefix(normalizePath(field), "/")
	data := map[string]string{"field": rel}
	return c.Then(func(v any) string {
		val, _ := valueAtPathWithin(v, rel)
		if isEmpty(val) {
			return i18n.T(i18n.CodeRequiredField, data)
		}
		return ""
	})
}

// Match requires the values at two field paths to be equal.
func Match(field, other string) formskema.Rule {
	a := strings.TrimPrefix(normalizePath(field), "/")
	b := strings.TrimPrefix(normalizePath(other), "/")
	data := map[string]string{"field": b, "other": a}
	return func(v any) string {
		va, _ := valueAtPathWithin(v, a)
		vb, _ := valueAtPathWithin(v, b)
		if !reflect.DeepEqual(va, vb) {
			return i18n.T(i18n.CodeMismatch, data)
		}
		return ""
	}
}

// AtLeastOne ensures the collection has at least 1 element.
func AtLeastOne() formskema.Rule {
	return func(v any) string {
		if len(formskema.ListOf(v)) == 0 {
			return i18n.T(i18n.CodeAtLeastOne, nil)
		}
		return ""
	}
}

// UniqueBy ensures elements in a collection have unique key values.
// keyPath is a relative path inside each element (e.g., "sku" or "/sku").
// Elements without the key are ignored.
// Note: keys are compared via fmt.Sprint, so mixed-type keys may stringify to
// identical values.
func UniqueBy(keyPath string) formskema.Rule {
	kp := strings.TrimPrefix(keyPath, "/")
	return func(v any) string {
		seen := map[string]struct{}{}
		for _, elem := range formskema.ListOf(v) {
			kv, ok := valueAtPathWithin(elem, kp)
			if !ok || formskema.IsNull(kv) {
				continue
			}
			key := fmt.Sprint(kv)
			if _, dup := seen[key]; dup {
				return i18n.T(i18n.CodeUniqueness, map[string]string{"key": key})
			}
			seen[key] = struct{}{}
		}
		return ""
	}
}

// ---------- Rule combinators ----------

// All returns the message of the first failing rule. nil rules are skipped.
func All(rules ...formskema.Rule) formskema.Rule {
	return func(v any) string {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if msg := r(v); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Any succeeds if any rule passes. When all fail, the first message is returned.
func Any(rules ...formskema.Rule) formskema.Rule {
	return func(v any) string {
		first := ""
		for _, r := range rules {
			if r == nil {
				continue
			}
			msg := r(v)
			if msg == "" {
				return ""
			}
			if first == "" {
				first = msg
			}
		}
		return first
	}
}

// When runs rules only when pred(v) is true.
func When(pred func(any) bool, rules ...formskema.Rule) formskema.Rule {
	inner := All(rules...)
	return func(v any) string {
		if pred == nil || !pred(v) {
			return ""
		}
		return inner(v)
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func evalConditional(v any, c Conditional) bool {
	// composite AND
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(v, it) {
				return false
			}
		}
		return true
	}
	// composite OR
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(v, it) {
				return true
			}
		}
		return false
	}
	// simple predicate
	cur, ok := valueAtPathWithin(v, strings.TrimPrefix(c.path, "/"))
	if !ok {
		// a missing value differs from any present one
		return c.op == Ne && !formskema.IsNull(c.want)
	}
	return compare(cur, c.op, c.want)
}

// valueAtPathWithin navigates v (objects and lists) by a slash-separated
// relative path. List segments are indexes.
func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		if formskema.IsNull(cur) {
			return nil, false
		}
		if list := formskema.ListOf(cur); list != nil || isList(cur) {
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(list) {
				return nil, false
			}
			cur = list[idx]
			continue
		}
		next := formskema.FieldOf(cur, seg)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func isList(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

func compareOrdered(cur any, op Op, want any) bool {
	a, okA := ToFloat(cur)
	b, okB := ToFloat(want)
	if !okA || !okB {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}
