package v1

import (
	"html"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
)

// ServeConsole renders the single-page console. apiBase is only displayed; all calls
// go through this server's /v1 routes.
func ServeConsole(apiBase, version string) echo.HandlerFunc {
	r := strings.NewReplacer("{{API_BASE}}", html.EscapeString(apiBase), "{{VERSION}}", html.EscapeString(version))
	page := r.Replace(consoleHTML)
	return func(c *echo.Context) error {
		c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
		return c.HTML(http.StatusOK, page)
	}
}
