package schemafile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/schemafile"
)

const signupYAML = `
kind: object
validation:
  - match: [password, confirm]
fields:
  name:
    rules: [requiredString, {minLength: 3}]
  age:
    rules: [integer, {min: 18}]
  password: {rules: [required]}
  confirm: {}
  status:
    rules: [{oneOf: [draft, published]}]
  tags:
    kind: array
    key: id
    validation: [atLeastOne, {uniqueBy: label}]
    member:
      kind: object
      fields:
        label: {rules: [requiredString]}
`

func TestLoad_Signup(t *testing.T) {
	s, err := schemafile.Load([]byte(signupYAML))
	require.NoError(t, err)
	require.Equal(t, formskema.KindObject, s.Kind)

	value := map[string]any{
		"name":     "Al",
		"age":      int64(17),
		"password": "a",
		"confirm":  "b",
		"status":   "archived",
		"tags": []any{
			map[string]any{"id": int64(1), "label": "x"},
			map[string]any{"id": int64(2), "label": "x"},
			map[string]any{"id": int64(3), "label": " "},
		},
	}
	e := formskema.Validate(value, s)
	require.NotNil(t, e)

	assert.Equal(t, i18n.T(i18n.CodeMismatch, map[string]string{"field": "confirm", "other": "password"}), e.Internal)
	assert.Equal(t, i18n.T(i18n.CodeTooShort, map[string]string{"min": "3"}), e.Field("name").Message)
	assert.Equal(t, i18n.T(i18n.CodeTooSmall, map[string]string{"min": "18"}), e.Field("age").Message)
	assert.NotEmpty(t, e.Field("status").Message)
	assert.Nil(t, e.Field("password"))

	tags := e.Field("tags")
	require.NotNil(t, tags)
	assert.Equal(t, i18n.T(i18n.CodeUniqueness, map[string]string{"key": "x"}), tags.Internal)
	assert.Nil(t, tags.Member("1"))
	assert.Equal(t, i18n.T(i18n.CodeRequired, nil), tags.Member("3").Field("label").Message)
}

func TestLoad_RequiredIf(t *testing.T) {
	s, err := schemafile.Load([]byte(`
kind: object
validation:
  - requiredIf: {field: publishedOn, when: {path: /status, op: eq, value: published}}
fields:
  status: {}
  publishedOn: {}
`))
	require.NoError(t, err)
	assert.False(t, formskema.HasErrors(formskema.Validate(map[string]any{"status": "draft"}, s)))
	assert.True(t, formskema.HasErrors(formskema.Validate(map[string]any{"status": "published"}, s)))
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", ``, "empty document"},
		{"not a mapping", `- a`, "/: expected mapping"},
		{"unknown key", `{kind: leaf, extra: 1}`, "/extra: unknown key"},
		{"unknown kind", `{kind: tuple}`, "/kind: unknown kind"},
		{"unknown rule", `{rules: [nope]}`, `/rules/0: unknown rule "nope"`},
		{"bad arg", `{rules: [{minLength: x}]}`, "/rules/0: minLength"},
		{"no arg expected", `{rules: [{required: 1}]}`, "takes no argument"},
		{"array without key", "kind: array\nmember: {}", "/key: array needs a key"},
		{"object without fields", `{kind: object}`, "/fields: object needs a fields mapping"},
		{"nested", "kind: object\nfields:\n  a/b: {rules: [{pattern: '['}]}", "/fields/a~1b/rules/0"},
		{"leaf with fields", "fields: {}", "/fields: not allowed on a leaf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schemafile.Load([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReadYAML_DuplicateKey(t *testing.T) {
	_, err := schemafile.ReadYAML(strings.NewReader("a: 1\na: 2\n"))
	var dup *schemafile.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Key)
	assert.Equal(t, 2, dup.Line)
}

func TestLoader_Register(t *testing.T) {
	l := schemafile.NewLoader()
	l.Register("even", func(arg any) (formskema.Rule, error) {
		return func(v any) string {
			if n, ok := v.(int64); ok && n%2 != 0 {
				return "must be even"
			}
			return ""
		}, nil
	})
	assert.Contains(t, l.RuleNames(), "even")

	s, err := l.Load([]byte(`{rules: [even]}`))
	require.NoError(t, err)
	assert.Equal(t, "must be even", formskema.Validate(int64(3), s).Message)

	// the default loader is untouched
	_, err = schemafile.Load([]byte(`{rules: [even]}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(p, []byte(signupYAML), 0o644))
	s, err := schemafile.LoadFile(p)
	require.NoError(t, err)
	assert.NoError(t, formskema.CheckSchema(s))

	_, err = schemafile.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
