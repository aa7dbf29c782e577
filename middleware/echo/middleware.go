package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/middleware"
)

// ValidateJSON checks the request JSON against schema s, stores the cleaned
// value in the request context on success, or returns 400 with the error tree
// when validation fails.
func ValidateJSON(s *formskema.Schema, opt formskema.ExtractOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := middleware.Check(s, c.Request().Body, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			if res.Errors != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(res.Errors))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), res.Value)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the cleaned value from echo.Context.
func GetValue(c echo.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
