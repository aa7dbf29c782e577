// Package middleware validates JSON request bodies against a formskema schema
// at HTTP boundaries. The echo and gin subpackages adapt it to those routers.
package middleware

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/formjson"
)

type ctxKeyValue struct{}

// ContextWithValue attaches the cleaned request value to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the cleaned request value stored by the
// middleware.
func ValueFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValue{})
	return v, v != nil
}

// Result is the outcome of checking one request body.
type Result struct {
	Value  any                  // cleaned value, set when Errors is nil
	Errors *formskema.ErrorTree // validation errors
}

// Check decodes body as JSON, validates it against s and extracts the cleaned
// value. A non-nil error means the body is not valid JSON.
func Check(s *formskema.Schema, body io.Reader, opt formskema.ExtractOpt) (Result, error) {
	v, err := formjson.DecodeValueFrom(body)
	if err != nil {
		return Result{}, err
	}
	if e := formskema.Validate(v, s); formskema.HasErrors(e) {
		return Result{Errors: e}, nil
	}
	return Result{Value: formskema.Extract(v, s, opt)}, nil
}

// ErrorPayload shapes an error tree for JSON responses: the tree itself under
// "errors" and its flattened Issues under "issues".
func ErrorPayload(e *formskema.ErrorTree) map[string]any {
	return map[string]any{"errors": e.Tree(), "issues": e.Issues()}
}

// ValidateJSON returns net/http middleware that rejects invalid bodies with
// 400 and an ErrorPayload, and otherwise stores the cleaned value in the
// request context for next.
func ValidateJSON(s *formskema.Schema, opt formskema.ExtractOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := Check(s, r.Body, opt)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			if res.Errors != nil {
				if ce := formskema.Logger().Check(zap.DebugLevel, "request rejected"); ce != nil {
					ce.Write(zap.String("path", r.URL.Path), zap.Int("issues", len(res.Errors.Issues())))
				}
				writeJSON(w, http.StatusBadRequest, ErrorPayload(res.Errors))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), res.Value)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := formjson.MarshalValue(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
