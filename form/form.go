// Package form holds the state of one form: its current value, its error tree
// and whether it has been edited since the last reset or successful submit.
//
// Every edit goes through formskema.ValidateIncremental, so only the parts of
// the value that changed are re-validated. A Form is safe for concurrent use.
package form

import (
	"sync"

	"go.uber.org/zap"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/internal/ident"
)

// Form is a concurrency-safe form-state holder.
type Form struct {
	schema *formskema.Schema
	log    *zap.Logger
	opt    formskema.ExtractOpt

	mu       sync.Mutex
	value    any
	errs     *formskema.ErrorTree
	pristine bool
}

// Option configures a Form.
type Option func(*Form)

// WithLogger sets the logger used for form events. Defaults to formskema.Logger().
func WithLogger(l *zap.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.log = l
		}
	}
}

// WithExtractOpt sets the options used by Submit to clean the value.
func WithExtractOpt(opt formskema.ExtractOpt) Option {
	return func(f *Form) { f.opt = opt }
}

// New returns a pristine form holding initial and its full validation result.
func New(s *formskema.Schema, initial any, opts ...Option) *Form {
	f := &Form{schema: s, log: formskema.Logger(), pristine: true}
	for _, o := range opts {
		o(f)
	}
	f.value = initial
	f.errs = formskema.Validate(initial, s)
	return f
}

// Value returns the current value. Callers must not mutate it in place; build a
// new value and pass it to SetValue instead.
func (f *Form) Value() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Errors returns the current error tree, nil when there are none.
func (f *Form) Errors() *formskema.ErrorTree {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

// Pristine reports whether the form is unchanged since New, Reset or the last
// successful Submit.
func (f *Form) Pristine() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pristine
}

// HasErrors reports whether the current error tree holds any message.
func (f *Form) HasErrors() bool {
	return formskema.HasErrors(f.Errors())
}

// SetValue replaces the value and re-validates what changed.
func (f *Form) SetValue(v any) *formskema.ErrorTree {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setLocked(v)
	return f.errs
}

func (f *Form) setLocked(v any) {
	if ident.Same(f.value, v) {
		return
	}
	f.errs = formskema.ValidateIncremental(f.value, v, f.errs, f.schema)
	f.value = v
	f.pristine = false
}

// SetFieldValue replaces one top-level field. The other fields are shared with
// the previous value, so their errors are reused as is. Values that are not
// map[string]any objects are replaced by a fresh object.
func (f *Form) SetFieldValue(name string, v any) *formskema.ErrorTree {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, _ := f.value.(map[string]any)
	next := make(map[string]any, len(prev)+1)
	for k, fv := range prev {
		next[k] = fv
	}
	next[name] = v
	f.setLocked(next)
	return f.errs
}

// SetErrors replaces the error tree, typically with errors reported by a
// server for the current value.
func (f *Form) SetErrors(e *formskema.ErrorTree) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = e
}

// Validate runs a full validation of the current value and stores the result.
func (f *Form) Validate() *formskema.ErrorTree {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = formskema.Validate(f.value, f.schema)
	return f.errs
}

// Submit validates the current value from scratch. When it has errors, Submit
// returns them as formskema.Issues without calling fn. Otherwise fn receives
// the extracted value; when fn succeeds and the value has not changed in the
// meantime the form becomes pristine. fn runs without holding the form's lock.
func (f *Form) Submit(fn func(cleaned any) error) error {
	f.mu.Lock()
	value := f.value
	f.errs = formskema.Validate(value, f.schema)
	errs := f.errs
	opt := f.opt
	f.mu.Unlock()

	if formskema.HasErrors(errs) {
		iss := errs.Issues()
		f.log.Debug("form submit rejected", zap.Int("issues", len(iss)))
		return iss
	}
	cleaned := formskema.Extract(value, f.schema, opt)
	if err := fn(cleaned); err != nil {
		f.log.Debug("form submit failed", zap.Error(err))
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ident.Same(f.value, value) {
		f.pristine = true
	}
	return nil
}

// Reset replaces the value without incremental reuse, re-validates it fully
// and marks the form pristine.
func (f *Form) Reset(v any) *formskema.ErrorTree {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	f.errs = formskema.Validate(v, f.schema)
	f.pristine = true
	return f.errs
}
