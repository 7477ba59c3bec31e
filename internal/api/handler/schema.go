package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Handlers rarely build it themselves; the central error handler
// renders it from returned errors.
type errorResponse struct {
	Error string `json:"error"`
}

// pageFromQuery reads the page and limit query parameters. Values are
// normalised later by the service; unparsable input degrades to defaults.
func pageFromQuery(c echo.Context) ports.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.PageRequest{Page: page, Limit: limit}
}

// sortFromQuery reads the sort column and order query parameters. Unknown
// columns are handled by the per-family allow-list in the service.
func sortFromQuery(c echo.Context) ports.Sort {
	return ports.Sort{
		Column: c.QueryParam("sort"),
		Desc:   c.QueryParam("order") == "desc",
	}
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
