package form_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/form"
	"github.com/reoring/formskema/rules"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counter struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *counter) rule(name string) formskema.Rule {
	return func(v any) string {
		c.mu.Lock()
		c.n[name]++
		c.mu.Unlock()
		if s, _ := v.(string); s == "" {
			return "required"
		}
		return ""
	}
}

func (c *counter) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

func profileSchema(c *counter) *formskema.Schema {
	return dsl.Object().
		Field("name", dsl.Leaf(c.rule("name"))).
		Field("email", dsl.Leaf(c.rule("email"))).
		MustBuild()
}

func TestForm_New(t *testing.T) {
	c := &counter{n: map[string]int{}}
	f := form.New(profileSchema(c), map[string]any{"name": "a"})

	assert.True(t, f.Pristine())
	assert.True(t, f.HasErrors())
	assert.Equal(t, "required", f.Errors().Field("email").Message)
	assert.Nil(t, f.Errors().Field("name"))
}

func TestForm_SetFieldValue_RevalidatesOnlyChangedField(t *testing.T) {
	c := &counter{n: map[string]int{}}
	f := form.New(profileSchema(c), map[string]any{"name": "", "email": ""})
	require.Equal(t, 1, c.get("name"))
	require.Equal(t, 1, c.get("email"))

	errs := f.SetFieldValue("email", "a@example.com")
	assert.Equal(t, 1, c.get("name"), "unchanged field must not be re-validated")
	assert.Equal(t, 2, c.get("email"))
	assert.Nil(t, errs.Field("email"))
	assert.Equal(t, "required", errs.Field("name").Message)
	assert.False(t, f.Pristine())
}

func TestForm_SetValue_SameValueKeepsPristine(t *testing.T) {
	c := &counter{n: map[string]int{}}
	v := map[string]any{"name": "x", "email": "y"}
	f := form.New(profileSchema(c), v)
	f.SetValue(v)
	assert.True(t, f.Pristine())
	assert.Equal(t, 1, c.get("name"))
}

func TestForm_SetErrors(t *testing.T) {
	c := &counter{n: map[string]int{}}
	f := form.New(profileSchema(c), map[string]any{"name": "x", "email": "y"})
	require.False(t, f.HasErrors())

	server := &formskema.ErrorTree{Fields: map[string]*formskema.ErrorTree{"email": formskema.LeafError("taken")}}
	f.SetErrors(server)
	assert.Same(t, server, f.Errors())

	// server errors on untouched fields survive local edits
	f.SetFieldValue("name", "z")
	assert.Equal(t, "taken", f.Errors().Field("email").Message)

	// a full validation discards them
	assert.Nil(t, f.Validate())
}

func TestForm_Submit(t *testing.T) {
	s := dsl.Object().
		Field("name", dsl.Leaf()).Required().
		Field("note", dsl.Leaf()).
		MustBuild()
	core, logs := observer.New(zap.DebugLevel)
	f := form.New(s, map[string]any{"note": ""}, form.WithLogger(zap.New(core)))

	called := false
	err := f.Submit(func(any) error { called = true; return nil })
	require.Error(t, err)
	assert.False(t, called)
	iss, ok := formskema.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/name", iss[0].Path)
	assert.Equal(t, 1, logs.FilterMessage("form submit rejected").Len())

	f.SetFieldValue("name", "Ada")
	require.False(t, f.Pristine())

	boom := errors.New("boom")
	assert.ErrorIs(t, f.Submit(func(any) error { return boom }), boom)
	assert.False(t, f.Pristine())

	var got any
	require.NoError(t, f.Submit(func(v any) error { got = v; return nil }))
	assert.Equal(t, map[string]any{"name": "Ada", "note": ""}, got)
	assert.True(t, f.Pristine())
}

func TestForm_SubmitExtractOpt(t *testing.T) {
	s := dsl.Object().Field("note", dsl.Leaf()).MustBuild()
	f := form.New(s, map[string]any{}, form.WithExtractOpt(formskema.ExtractOpt{FalsyValue: formskema.Null}))
	var got any
	require.NoError(t, f.Submit(func(v any) error { got = v; return nil }))
	assert.Equal(t, map[string]any{"note": formskema.Null}, got)
}

func TestForm_Reset(t *testing.T) {
	c := &counter{n: map[string]int{}}
	f := form.New(profileSchema(c), map[string]any{"name": "x", "email": "y"})
	f.SetFieldValue("email", "")
	require.True(t, f.HasErrors())

	errs := f.Reset(map[string]any{"name": "x", "email": "z"})
	assert.Nil(t, errs)
	assert.True(t, f.Pristine())
}

func TestForm_ConcurrentEdits(t *testing.T) {
	tags := dsl.Array(
		dsl.Object().Field("label", dsl.Leaf(rules.RequiredString())).MustBuild(),
		dsl.KeyField("id"),
	).MustBuild()
	s := dsl.Object().Field("tags", tags).MustBuild()
	f := form.New(s, map[string]any{"tags": []any{}})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				label := fmt.Sprintf("w%d-%d", w, i)
				if i%2 == 0 {
					label = ""
				}
				f.SetFieldValue("tags", []any{map[string]any{"id": w, "label": label}})
				_ = f.Errors()
				_ = f.Value()
			}
		}(w)
	}
	wg.Wait()

	// every worker ends on a labelled tag, whichever write landed last
	assert.Nil(t, f.Errors())
	assert.Nil(t, f.Validate())
	assert.Len(t, formskema.ListOf(formskema.FieldOf(f.Value(), "tags")), 1)
}
