package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/middleware"
)

// ValidateJSON checks the incoming JSON against schema s, stores the cleaned
// value in the request context, and on validation failure returns 400 with the
// error tree.
func ValidateJSON(s *formskema.Schema, opt formskema.ExtractOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := middleware.Check(s, c.Request.Body, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if res.Errors != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(res.Errors))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), res.Value))
		c.Next()
	}
}

// GetValue fetches the cleaned value from gin.Context.
func GetValue(c *gin.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
