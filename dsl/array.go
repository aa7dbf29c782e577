package dsl

import (
	"fmt"

	formskema "github.com/reoring/formskema"
)

// ArrayBuilder assembles an array-of-keyed-members schema.
type ArrayBuilder struct {
	member     *formskema.Schema
	key        func(any) string
	validation formskema.Rule
}

// Array returns a builder for a list whose members follow member and are
// matched across snapshots by key.
func Array(member *formskema.Schema, key func(any) string) *ArrayBuilder {
	return &ArrayBuilder{member: member, key: key}
}

// Validation sets the array-level rule, reported as the Internal message.
func (a *ArrayBuilder) Validation(r formskema.Rule) *ArrayBuilder {
	a.validation = r
	return a
}

// Build returns the schema after checking it with formskema.CheckSchema.
func (a *ArrayBuilder) Build() (*formskema.Schema, error) {
	s := &formskema.Schema{Kind: formskema.KindArray, Member: a.member, KeySelector: a.key, Validation: a.validation}
	if err := formskema.CheckSchema(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (a *ArrayBuilder) MustBuild() *formskema.Schema {
	s, err := a.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// KeyField returns a key selector that reads the named field of a member and
// formats it with fmt.Sprint. Absent keys format as "<nil>", so every member
// without the field shares one key and one slot in ErrorTree.Members. Give
// new rows a client-side id before validating them, or use a custom selector.
func KeyField(name string) func(any) string {
	return func(el any) string { return fmt.Sprint(formskema.FieldOf(el, name)) }
}
