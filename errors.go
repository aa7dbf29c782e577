package formskema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes
const (
	CodeInvalid            = "invalid"
	CodeAggregateViolation = "aggregate_violation"
	CodeSchemaDefinition   = "schema_definition"
)

// ErrNilSchema is returned when an operation that requires a schema receives nil.
var ErrNilSchema = errors.New("formskema: nil schema")

// Issue represents a single validation entry flattened out of an ErrorTree.
type Issue struct {
	Path    string // JSON Pointer (for example: /tags/2/label). Member keys are used as segments.
	Code    string // One of the codes listed above.
	Message string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /name
		fmt.Fprintf(b, "%s at %s", it.Message, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// SchemaDefinitionError reports a schema node that is none of leaf, object or
// array. It is a programming error in the schema, not a failure of user data.
type SchemaDefinitionError struct {
	Path   string
	Reason string
}

func (e *SchemaDefinitionError) Error() string {
	return fmt.Sprintf("formskema: invalid schema at %s: %s", e.Path, e.Reason)
}

// Issues flattens the tree into Issues ordered by path. Object-level and
// array-level messages come before the messages of their children.
func (e *ErrorTree) Issues() Issues {
	if e == nil {
		return nil
	}
	var out Issues
	e.collectIssues(rootPath, &out)
	return out
}

// Err returns the tree as an error, or nil when it carries no errors.
func (e *ErrorTree) Err() error {
	if !HasErrors(e) {
		return nil
	}
	return e.Issues()
}

func (e *ErrorTree) collectIssues(p *path, out *Issues) {
	if e == nil {
		return
	}
	if e.Message != "" {
		*out = AppendIssues(*out, Issue{Path: p.pointer(), Code: CodeInvalid, Message: e.Message})
	}
	if e.Internal != "" {
		*out = AppendIssues(*out, Issue{Path: p.pointer(), Code: CodeAggregateViolation, Message: e.Internal})
	}
	for _, k := range sortedKeys(e.Fields) {
		e.Fields[k].collectIssues(p.field(k), out)
	}
	for _, k := range sortedKeys(e.Members) {
		e.Members[k].collectIssues(p.field(k), out)
	}
}

func sortedKeys(m map[string]*ErrorTree) []string {
	if len(m) == 0 {
		return nil
	}
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
