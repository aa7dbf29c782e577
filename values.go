package formskema

import (
	"math"
	"reflect"
	"sort"
	"strings"
)

type null struct{}

func (null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (null) String() string { return "null" }

// Null is an explicit "no value" marker. Used as ExtractOpt.FalsyValue it keeps
// pruned positions in the output and encodes them as JSON null; as an input it
// behaves like nil.
var Null any = null{}

// IsNull reports whether v is nil or Null.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(null)
	return ok
}

// Truthy reports whether v counts as a value: nil, Null, false, "", numeric
// zero and NaN are falsy; everything else, including empty maps and slices,
// is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil, null:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// FieldOf returns the value stored under name in v. Objects may be
// map[string]any, any map keyed by strings, or structs (and pointers to them).
// Anything else has no fields.
func FieldOf(v any, name string) any {
	switch t := v.(type) {
	case nil, null:
		return nil
	case map[string]any:
		return t[name]
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			if ResolveStructKey(sf) == name {
				return rv.Field(i).Interface()
			}
		}
	}
	return nil
}

// ListOf returns the elements of v when v is a slice or array. Absent and
// non-list values yield no elements.
func ListOf(v any) []any {
	switch t := v.(type) {
	case nil, null:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// ResolveStructKey resolves a struct field's external key.
// Priority: formskema:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("formskema"); gt != "" {
		parts := strings.Split(gt, ",")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

func sortedSchemaKeys(m map[string]*Schema) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
