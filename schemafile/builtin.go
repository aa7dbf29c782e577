package schemafile

import (
	"errors"
	"fmt"
	"regexp"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/rules"
)

var builtinRules = map[string]RuleFactory{
	"required":       noArg(rules.Required),
	"requiredString": noArg(rules.RequiredString),
	"requiredList":   noArg(rules.RequiredList),
	"email":          noArg(rules.Email),
	"url":            noArg(rules.URL),
	"integer":        noArg(rules.Integer),
	"atLeastOne":     noArg(rules.AtLeastOne),
	"min":            numberArg(rules.Min),
	"max":            numberArg(rules.Max),
	"greaterThan":    numberArg(rules.GreaterThan),
	"lessThan":       numberArg(rules.LessThan),
	"minLength":      intArg(rules.MinLength),
	"maxLength":      intArg(rules.MaxLength),
	"oneOf":          listArg(rules.OneOf),
	"notIn":          listArg(rules.NotIn),
	"pattern":        patternRule,
	"uniqueBy":       uniqueByRule,
	"match":          matchRule,
	"requiredIf":     requiredIfRule,
}

func noArg(f func() formskema.Rule) RuleFactory {
	return func(arg any) (formskema.Rule, error) {
		if arg != nil {
			return nil, errors.New("takes no argument")
		}
		return f(), nil
	}
}

func numberArg(f func(float64) formskema.Rule) RuleFactory {
	return func(arg any) (formskema.Rule, error) {
		if _, isStr := arg.(string); isStr {
			return nil, fmt.Errorf("expected a number, got %q", arg)
		}
		n, ok := rules.ToFloat(arg)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", arg)
		}
		return f(n), nil
	}
}

func intArg(f func(int) formskema.Rule) RuleFactory {
	return func(arg any) (formskema.Rule, error) {
		n, ok := arg.(int64)
		if !ok || n < 0 {
			return nil, fmt.Errorf("expected a non-negative integer, got %v", arg)
		}
		return f(int(n)), nil
	}
}

func listArg(f func(...any) formskema.Rule) RuleFactory {
	return func(arg any) (formskema.Rule, error) {
		list, ok := arg.([]any)
		if !ok || len(list) == 0 {
			return nil, errors.New("expected a non-empty list")
		}
		return f(list...), nil
	}
}

func stringArg(arg any) (string, error) {
	s, ok := arg.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("expected a string, got %v", arg)
	}
	return s, nil
}

func patternRule(arg any) (formskema.Rule, error) {
	s, err := stringArg(arg)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, err
	}
	return rules.Pattern(re), nil
}

func uniqueByRule(arg any) (formskema.Rule, error) {
	s, err := stringArg(arg)
	if err != nil {
		return nil, err
	}
	return rules.UniqueBy(s), nil
}

func matchRule(arg any) (formskema.Rule, error) {
	list, ok := arg.([]any)
	if !ok || len(list) != 2 {
		return nil, errors.New("expected [field, other]")
	}
	a, err := stringArg(list[0])
	if err != nil {
		return nil, err
	}
	b, err := stringArg(list[1])
	if err != nil {
		return nil, err
	}
	return rules.Match(a, b), nil
}

// requiredIfRule reads {field: name, when: {path: /status, op: eq, value: x}}.
func requiredIfRule(arg any) (formskema.Rule, error) {
	m, ok := arg.(map[string]any)
	if !ok {
		return nil, errors.New("expected {field, when}")
	}
	field, err := stringArg(m["field"])
	if err != nil {
		return nil, fmt.Errorf("field: %w", err)
	}
	when, ok := m["when"].(map[string]any)
	if !ok {
		return nil, errors.New("when: expected {path, op, value}")
	}
	path, err := stringArg(when["path"])
	if err != nil {
		return nil, fmt.Errorf("when.path: %w", err)
	}
	opName, _ := when["op"].(string)
	if opName == "" {
		opName = "eq"
	}
	op, ok := rules.ParseOp(opName)
	if !ok {
		return nil, fmt.Errorf("when.op: unknown operator %q", opName)
	}
	return rules.RequiredIf(rules.If(path, op, when["value"]), field), nil
}
