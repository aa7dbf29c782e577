package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	echomw "github.com/reoring/formskema/middleware/echo"
	"github.com/reoring/formskema/rules"
)

func TestValidateJSON(t *testing.T) {
	s := dsl.Object().Field("id", dsl.Leaf(rules.RequiredString())).MustBuild()
	e := echo.New()
	e.POST("/items", func(c echo.Context) error {
		v, _ := echomw.GetValue(c)
		return c.JSON(http.StatusOK, v)
	}, echomw.ValidateJSON(s, formskema.ExtractOpt{}))

	for _, tc := range []struct {
		body string
		code int
	}{
		{`{"id":"x","junk":true}`, http.StatusOK},
		{`{"id":" "}`, http.StatusBadRequest},
		{`[`, http.StatusBadRequest},
	} {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.code {
			t.Fatalf("%s: status %d, want %d (%s)", tc.body, rec.Code, tc.code, rec.Body.String())
		}
		if tc.code == http.StatusOK && strings.Contains(rec.Body.String(), "junk") {
			t.Fatalf("unknown field leaked: %s", rec.Body.String())
		}
	}
}
