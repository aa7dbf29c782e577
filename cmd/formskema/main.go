// Command formskema checks YAML form schemas and runs validation and
// extraction over JSON or YAML values.
//
// Usage:
//
//	formskema check -s schema.yaml
//	formskema validate -s schema.yaml -v value.json [--old old.json --errors errors.json]
//	formskema extract -s schema.yaml -v value.json [--no-falsy] [--null]
//	formskema rules
//
// validate exits with status 1 when the value has errors; other failures exit
// with status 2.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errHasErrors) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "formskema:", err)
		os.Exit(2)
	}
}
