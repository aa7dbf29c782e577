package rules

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// emailPattern: one @, no spaces, a dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails on nil, Null, the empty string and empty lists.
func Required() formskema.Rule {
	return func(v any) string {
		if isEmpty(v) {
			return i18n.T(i18n.CodeRequired, nil)
		}
		return ""
	}
}

// RequiredString is Required that also treats whitespace-only strings as empty.
func RequiredString() formskema.Rule {
	return func(v any) string {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return i18n.T(i18n.CodeRequired, nil)
		}
		if isEmpty(v) {
			return i18n.T(i18n.CodeRequired, nil)
		}
		return ""
	}
}

// RequiredList fails unless v is a list with at least one element.
func RequiredList() formskema.Rule {
	return func(v any) string {
		if len(formskema.ListOf(v)) == 0 {
			return i18n.T(i18n.CodeRequired, nil)
		}
		return ""
	}
}

// Email checks that a present string looks like an email address.
func Email() formskema.Rule {
	return func(v any) string {
		s, ok := presentString(v)
		if !ok {
			return ""
		}
		if !emailPattern.MatchString(s) {
			return i18n.T(i18n.CodeInvalidEmail, nil)
		}
		return ""
	}
}

// URL checks that a present string is an absolute http(s) URL.
func URL() formskema.Rule {
	return func(v any) string {
		s, ok := presentString(v)
		if !ok {
			return ""
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return i18n.T(i18n.CodeInvalidURL, nil)
		}
		return ""
	}
}

// Integer checks that a present value is a whole number.
func Integer() formskema.Rule {
	return func(v any) string {
		if isEmpty(v) {
			return ""
		}
		f, ok := ToFloat(v)
		if !ok {
			return i18n.T(i18n.CodeNotNumber, nil)
		}
		if f != math.Trunc(f) {
			return i18n.T(i18n.CodeNotInteger, nil)
		}
		return ""
	}
}

// Min checks v >= min.
func Min(min float64) formskema.Rule {
	return numberRule(func(f float64) bool { return f >= min }, i18n.CodeTooSmall, "min", min)
}

// Max checks v <= max.
func Max(max float64) formskema.Rule {
	return numberRule(func(f float64) bool { return f <= max }, i18n.CodeTooBig, "max", max)
}

// GreaterThan checks v > min.
func GreaterThan(min float64) formskema.Rule {
	return numberRule(func(f float64) bool { return f > min }, i18n.CodeNotGreater, "min", min)
}

// LessThan checks v < max.
func LessThan(max float64) formskema.Rule {
	return numberRule(func(f float64) bool { return f < max }, i18n.CodeNotLess, "max", max)
}

func numberRule(ok func(float64) bool, code, param string, bound float64) formskema.Rule {
	data := map[string]string{param: strconv.FormatFloat(bound, 'f', -1, 64)}
	return func(v any) string {
		if isEmpty(v) {
			return ""
		}
		f, isNum := ToFloat(v)
		if !isNum {
			return i18n.T(i18n.CodeNotNumber, nil)
		}
		if !ok(f) {
			return i18n.T(code, data)
		}
		return ""
	}
}

// MinLength checks the length of a string (in runes) or a list.
func MinLength(n int) formskema.Rule {
	data := map[string]string{"min": strconv.Itoa(n)}
	return func(v any) string {
		l, ok := length(v)
		if ok && l > 0 && l < n {
			return i18n.T(i18n.CodeTooShort, data)
		}
		return ""
	}
}

// MaxLength checks the length of a string (in runes) or a list.
func MaxLength(n int) formskema.Rule {
	data := map[string]string{"max": strconv.Itoa(n)}
	return func(v any) string {
		l, ok := length(v)
		if ok && l > n {
			return i18n.T(i18n.CodeTooLong, data)
		}
		return ""
	}
}

// Pattern checks a present string against re.
func Pattern(re *regexp.Regexp) formskema.Rule {
	return func(v any) string {
		s, ok := presentString(v)
		if !ok {
			return ""
		}
		if !re.MatchString(s) {
			return i18n.T(i18n.CodePattern, map[string]string{"pattern": re.String()})
		}
		return ""
	}
}

// OneOf checks that a present value equals one of values.
func OneOf(values ...any) formskema.Rule {
	parts := make([]string, len(values))
	for i, w := range values {
		parts[i] = fmt.Sprint(w)
	}
	data := map[string]string{"values": strings.Join(parts, ", ")}
	return func(v any) string {
		if isEmpty(v) {
			return ""
		}
		for _, w := range values {
			if equal(v, w) {
				return ""
			}
		}
		return i18n.T(i18n.CodeInvalidEnum, data)
	}
}

// NotIn rejects values listed in blacklist.
func NotIn(blacklist ...any) formskema.Rule {
	return func(v any) string {
		for _, w := range blacklist {
			if equal(v, w) {
				return i18n.T(i18n.CodeBlacklisted, nil)
			}
		}
		return ""
	}
}

// ------- helpers -------

func isEmpty(v any) bool {
	if formskema.IsNull(v) {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func presentString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func length(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// ToFloat converts numeric values (including json.Number and numeric strings)
// to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}

// equal compares numbers numerically and everything else with DeepEqual.
func equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if _, isStr := a.(string); isStr {
		return false
	}
	if _, isStr := b.(string); isStr {
		return false
	}
	fa, okA := ToFloat(a)
	fb, okB := ToFloat(b)
	return okA && okB && fa == fb
}
