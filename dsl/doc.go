// Package dsl provides builders for formskema schemas.
//
// Entry points
//   - Leaf(rules...): a scalar position; rules run in order and the first failure wins.
//   - Object(): create an object builder; chain Field/Required/Validation then MustBuild()/Build.
//   - ObjectFunc(fn): an object whose field set is computed on every operation.
//   - Array(member, key): a list of members matched across snapshots by key.
//   - KeyField(name): a key selector reading one field of each member.
//
// Build runs formskema.CheckSchema; MustBuild panics on the same errors.
//
// Example
//
//	tag := dsl.Object().
//	    Field("label", dsl.Leaf(rules.RequiredString())).
//	    MustBuild()
//
//	signup := dsl.Object().
//	    Field("email", dsl.Leaf(rules.Email())).Required().
//	    Field("password", dsl.Leaf(rules.MinLength(8))).Required().
//	    Field("confirm", dsl.Leaf()).
//	    Field("tags", dsl.Array(tag, dsl.KeyField("id")).
//	        Validation(rules.UniqueBy("label")).
//	        MustBuild()).
//	    Validation(rules.Match("password", "confirm")).
//	    MustBuild()
//
// Example (fields that depend on runtime state)
//
//	shipping := dsl.ObjectFunc(func() map[string]*formskema.Schema {
//	    if !cfg.ShippingEnabled() {
//	        return nil
//	    }
//	    return map[string]*formskema.Schema{"address": dsl.Leaf(rules.Required())}
//	}).MustBuild()
package dsl
