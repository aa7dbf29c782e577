// Package formjson moves form values and error trees in and out of JSON using
// github.com/goccy/go-json.
package formjson

import (
	"errors"
	"fmt"

	j "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
)

// ErrTrailingData is returned when a document holds more than one JSON value.
var ErrTrailingData = errors.New("formjson: trailing data after JSON value")

// MarshalValue encodes an extracted value. formskema.Null encodes as null.
func MarshalValue(v any) ([]byte, error) {
	return j.Marshal(v)
}

// MarshalValueIndent is MarshalValue with indentation.
func MarshalValueIndent(v any) ([]byte, error) {
	return j.MarshalIndent(v, "", "  ")
}

// MarshalErrors encodes an error tree in its wire shape; nil encodes as null.
func MarshalErrors(e *formskema.ErrorTree) ([]byte, error) {
	return j.Marshal(e.Tree())
}

// MarshalErrorsIndent is MarshalErrors with indentation.
func MarshalErrorsIndent(e *formskema.ErrorTree) ([]byte, error) {
	return j.MarshalIndent(e.Tree(), "", "  ")
}

// UnmarshalErrors decodes an error tree from its wire shape.
func UnmarshalErrors(data []byte) (*formskema.ErrorTree, error) {
	var raw any
	if err := j.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formjson: decode errors: %w", err)
	}
	return formskema.ParseErrorTree(raw)
}
