package dsl

import formskema "github.com/reoring/formskema"

// Leaf returns a leaf schema. Rules run in order and the first failure wins.
func Leaf(rules ...formskema.Rule) *formskema.Schema {
	return &formskema.Schema{Kind: formskema.KindLeaf, Rules: rules}
}
