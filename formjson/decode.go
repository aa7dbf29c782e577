package formjson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// DuplicateKeyError reports an object key that appears more than once.
type DuplicateKeyError struct {
	Path string // JSON Pointer of the object holding the key
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("formjson: duplicate key %q in object at %s", e.Key, p)
}

// DecodeValue decodes one JSON document into a value tree of map[string]any,
// []any and scalars. Integral numbers become int64, others float64. Duplicate
// object keys are rejected with a *DuplicateKeyError.
func DecodeValue(data []byte) (any, error) {
	return DecodeValueFrom(bytes.NewReader(data))
}

// DecodeValueFrom is DecodeValue over a reader.
func DecodeValueFrom(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	v, err := readValue(dec, "")
	if err != nil {
		var dup *DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, err
		}
		return nil, fmt.Errorf("formjson: decode value: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}

func readValue(dec *j.Decoder, ptr string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return readObject(dec, ptr)
		case '[':
			return readArray(dec, ptr)
		}
		return nil, fmt.Errorf("unexpected %q at %s", rune(t), pointerOrRoot(ptr))
	case j.Number:
		return number(string(t)), nil
	default:
		// string, bool, float64 or nil
		return t, nil
	}
}

func readObject(dec *j.Decoder, ptr string) (any, error) {
	m := map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at %s", pointerOrRoot(ptr))
		}
		if _, dup := m[key]; dup {
			return nil, &DuplicateKeyError{Path: ptr, Key: key}
		}
		v, err := readValue(dec, ptr+"/"+escape(key))
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
	return m, closing(dec)
}

func readArray(dec *j.Decoder, ptr string) (any, error) {
	out := []any{}
	for dec.More() {
		v, err := readValue(dec, ptr+"/"+strconv.Itoa(len(out)))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, closing(dec)
}

func closing(dec *j.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func number(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func escape(seg string) string {
	return strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
}

func pointerOrRoot(ptr string) string {
	if ptr == "" {
		return "/"
	}
	return ptr
}
