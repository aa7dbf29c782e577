// Package formskema validates, diffs and cleans nested form values against a
// declarative schema.
//
// A Schema node is a leaf (an ordered rule list), an object (a closure that
// returns field schemas) or an array of keyed members. Four operations walk a
// value alongside its schema:
//
//   - Extract returns a pruned copy of the value for submission;
//   - Validate computes a fresh ErrorTree;
//   - ValidateIncremental recomputes only the subtrees that changed since the
//     previous snapshot and reuses the previous errors everywhere else;
//   - HasErrors tells whether an ErrorTree holds any message.
//
// All operations are pure: they never mutate their inputs and are safe to call
// concurrently. Malformed schema nodes are logged through the logger installed
// with SetLogger and skipped; use CheckSchema (or dsl's Build) to fail fast.
//
// Design policy:
// - Keep the engine in the root package; builders live under dsl/, rules under
//   rules/, the YAML loader under schemafile/ and the CLI under cmd/formskema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object().
//	    Field("name", dsl.Leaf(rules.Required())).
//	    Field("tags", dsl.Array(tagSchema, dsl.KeyField("id")).MustBuild()).
//	    MustBuild()
//
//	errs := formskema.ValidateIncremental(prev, next, errs, s)
//	if !formskema.HasErrors(formskema.Validate(next, s)) {
//	    send(formskema.Extract(next, s))
//	}
package formskema
