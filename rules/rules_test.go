package rules_test

import (
	"math"
	"regexp"
	"testing"

	json "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/rules"
)

func TestLeafRules(t *testing.T) {
	required := i18n.T(i18n.CodeRequired, nil)
	cases := []struct {
		name string
		rule formskema.Rule
		in   any
		want string
	}{
		{"required nil", rules.Required(), nil, required},
		{"required Null", rules.Required(), formskema.Null, required},
		{"required empty string", rules.Required(), "", required},
		{"required empty list", rules.Required(), []any{}, required},
		{"required zero is a value", rules.Required(), 0, ""},
		{"required false is a value", rules.Required(), false, ""},
		{"requiredString blank", rules.RequiredString(), "   ", required},
		{"requiredString ok", rules.RequiredString(), " a ", ""},
		{"requiredList nil", rules.RequiredList(), nil, required},
		{"requiredList ok", rules.RequiredList(), []string{"a"}, ""},
		{"email ok", rules.Email(), "a@b.io", ""},
		{"email bad", rules.Email(), "a@b", i18n.T(i18n.CodeInvalidEmail, nil)},
		{"email absent passes", rules.Email(), nil, ""},
		{"url ok", rules.URL(), "https://example.org/x", ""},
		{"url bad", rules.URL(), "example.org", i18n.T(i18n.CodeInvalidURL, nil)},
		{"integer ok", rules.Integer(), 3.0, ""},
		{"integer frac", rules.Integer(), 3.5, i18n.T(i18n.CodeNotInteger, nil)},
		{"integer not number", rules.Integer(), "x", i18n.T(i18n.CodeNotNumber, nil)},
		{"integer json.Number", rules.Integer(), json.Number("12"), ""},
		{"min large uint", rules.Min(0), uint64(1 << 63), ""},
		{"gt beyond int64", rules.GreaterThan(math.MaxInt64), uint64(math.MaxUint64), ""},
		{"min ok", rules.Min(1), 1, ""},
		{"min fail", rules.Min(1), 0, i18n.T(i18n.CodeTooSmall, map[string]string{"min": "1"})},
		{"max fail", rules.Max(10), 10.5, i18n.T(i18n.CodeTooBig, map[string]string{"max": "10"})},
		{"gt fail", rules.GreaterThan(0), 0, i18n.T(i18n.CodeNotGreater, map[string]string{"min": "0"})},
		{"lt ok", rules.LessThan(5), uint8(4), ""},
		{"minLength runes", rules.MinLength(3), "日本", i18n.T(i18n.CodeTooShort, map[string]string{"min": "3"})},
		{"minLength empty passes", rules.MinLength(3), "", ""},
		{"maxLength list", rules.MaxLength(1), []any{1, 2}, i18n.T(i18n.CodeTooLong, map[string]string{"max": "1"})},
		{"pattern fail", rules.Pattern(regexp.MustCompile(`^\d+$`)), "12a", i18n.T(i18n.CodePattern, map[string]string{"pattern": `^\d+$`})},
		{"oneOf numeric", rules.OneOf(1, 2), 2.0, ""},
		{"oneOf fail", rules.OneOf("a", "b"), "c", i18n.T(i18n.CodeInvalidEnum, map[string]string{"values": "a, b"})},
		{"notIn", rules.NotIn("root"), "root", i18n.T(i18n.CodeBlacklisted, nil)},
	}
	for _, tc := range cases {
		if got := tc.rule(tc.in); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestCombinators(t *testing.T) {
	fail := func(msg string) formskema.Rule { return func(any) string { return msg } }
	pass := func(any) string { return "" }

	if got := rules.All(nil, pass, fail("a"), fail("b"))(nil); got != "a" {
		t.Fatalf("All must return the first failure, got %q", got)
	}
	if got := rules.Any(fail("a"), pass)(nil); got != "" {
		t.Fatalf("Any must pass when one rule passes, got %q", got)
	}
	if got := rules.Any(fail("a"), fail("b"))(nil); got != "a" {
		t.Fatalf("Any must return the first failure, got %q", got)
	}
	isBig := func(v any) bool { f, _ := rules.ToFloat(v); return f > 10 }
	if got := rules.When(isBig, fail("big"))(3); got != "" {
		t.Fatalf("When must skip when the predicate is false, got %q", got)
	}
	if got := rules.When(isBig, fail("big"))(30); got != "big" {
		t.Fatalf("When must run when the predicate is true, got %q", got)
	}
}

func TestNodeRules(t *testing.T) {
	value := map[string]any{
		"status":   "published",
		"password": "a",
		"confirm":  "b",
		"items": []any{
			map[string]any{"sku": "x"},
			map[string]any{"sku": "y"},
			map[string]any{"sku": "x"},
		},
	}

	reqIf := rules.RequiredIf(rules.If("/status", rules.Eq, "published"), "publishedOn")
	if got := reqIf(value); got != i18n.T(i18n.CodeRequiredField, map[string]string{"field": "publishedOn"}) {
		t.Fatalf("RequiredIf: got %q", got)
	}
	if got := reqIf(map[string]any{"status": "draft"}); got != "" {
		t.Fatalf("RequiredIf must not fire when the condition fails, got %q", got)
	}

	if got := rules.Match("password", "confirm")(value); got == "" {
		t.Fatalf("Match must fail for different values")
	}

	if got := rules.UniqueBy("sku")(value["items"]); got != i18n.T(i18n.CodeUniqueness, map[string]string{"key": "x"}) {
		t.Fatalf("UniqueBy: got %q", got)
	}
	if got := rules.AtLeastOne()([]any{}); got == "" {
		t.Fatalf("AtLeastOne must fail on empty list")
	}

	c := rules.If("/items/1/sku", rules.Eq, "y").And(rules.If("status", rules.Ne, "draft"))
	if !c.Holds(value) {
		t.Fatalf("composite condition must hold")
	}
	if rules.IfAny(rules.If("/missing", rules.Eq, 1), rules.If("/status", rules.Gt, 1)).Holds(value) {
		t.Fatalf("neither branch should hold")
	}
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]rules.Op{"eq": rules.Eq, "!=": rules.Ne, "LT": rules.Lt, "ge": rules.Ge} {
		got, ok := rules.ParseOp(in)
		if !ok || got != want {
			t.Fatalf("ParseOp(%q) = %v,%v", in, got, ok)
		}
	}
	if _, ok := rules.ParseOp("nope"); ok {
		t.Fatalf("unknown op must not parse")
	}
}
