package dsl

import (
	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/rules"
)

// ObjectBuilder assembles an object schema.
type ObjectBuilder struct {
	fields     map[string]*formskema.Schema
	fieldsFn   func() map[string]*formskema.Schema
	validation formskema.Rule
}

// FieldStep is returned by Field so the field can be refined before moving on.
type FieldStep struct {
	b    *ObjectBuilder
	name string
}

// Object creates a new object builder with a static field set.
func Object() *ObjectBuilder {
	return &ObjectBuilder{fields: map[string]*formskema.Schema{}}
}

// ObjectFunc creates an object builder whose field set is computed on every
// operation, for schemas that depend on runtime context.
func ObjectFunc(fn func() map[string]*formskema.Schema) *ObjectBuilder {
	return &ObjectBuilder{fieldsFn: fn}
}

// Field registers a field with its schema. Fields registered on an ObjectFunc
// builder are merged over the computed set.
func (b *ObjectBuilder) Field(name string, s *formskema.Schema) *FieldStep {
	if b.fields == nil {
		b.fields = map[string]*formskema.Schema{}
	}
	b.fields[name] = s
	return &FieldStep{b: b, name: name}
}

// Validation sets the object-level rule, reported as the Internal message.
func (b *ObjectBuilder) Validation(r formskema.Rule) *ObjectBuilder {
	b.validation = r
	return b
}

// Required makes the current field fail with the required message when absent.
// Leaves get the rule prepended; objects and arrays get it in front of their
// node-level validation.
func (f *FieldStep) Required() *ObjectBuilder {
	f.b.fields[f.name] = withRequired(f.b.fields[f.name])
	return f.b
}

// Field registers the next field on the same builder.
func (f *FieldStep) Field(name string, s *formskema.Schema) *FieldStep { return f.b.Field(name, s) }

// Validation sets the object-level rule on the same builder.
func (f *FieldStep) Validation(r formskema.Rule) *ObjectBuilder { return f.b.Validation(r) }

// Build builds the enclosing object schema.
func (f *FieldStep) Build() (*formskema.Schema, error) { return f.b.Build() }

// MustBuild builds the enclosing object schema and panics on error.
func (f *FieldStep) MustBuild() *formskema.Schema { return f.b.MustBuild() }

// Build returns the schema after checking it with formskema.CheckSchema.
func (b *ObjectBuilder) Build() (*formskema.Schema, error) {
	s := b.schema()
	if err := formskema.CheckSchema(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() *formskema.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *ObjectBuilder) schema() *formskema.Schema {
	static := make(map[string]*formskema.Schema, len(b.fields))
	for k, v := range b.fields {
		static[k] = v
	}
	dyn := b.fieldsFn
	fields := func() map[string]*formskema.Schema { return static }
	if dyn != nil {
		fields = func() map[string]*formskema.Schema {
			out := dyn()
			if len(static) == 0 {
				return out
			}
			merged := make(map[string]*formskema.Schema, len(out)+len(static))
			for k, v := range out {
				merged[k] = v
			}
			for k, v := range static {
				merged[k] = v
			}
			return merged
		}
	}
	return &formskema.Schema{Kind: formskema.KindObject, Fields: fields, Validation: b.validation}
}

func withRequired(s *formskema.Schema) *formskema.Schema {
	if s == nil {
		return s
	}
	cp := *s
	switch s.Kind {
	case formskema.KindLeaf:
		cp.Rules = append([]formskema.Rule{rules.Required()}, s.Rules...)
	case formskema.KindObject, formskema.KindArray:
		cp.Validation = rules.All(rules.Required(), s.Validation)
	}
	return &cp
}
