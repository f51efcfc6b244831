package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erikmagkekse/nas-console/console"
	"github.com/erikmagkekse/nas-console/engine"

	"github.com/labstack/echo/v5"
)

const (
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalid    = "INVALID"
	CodeInternal   = "INTERNAL_ERROR"
)

var errStatus = []struct {
	err    error
	status int
	code   string
}{
	{console.ErrUnknownItem, http.StatusNotFound, CodeNotFound},
	{console.ErrUnknownAction, http.StatusNotFound, CodeNotFound},
	{engine.ErrInvalidMethod, http.StatusBadRequest, CodeInvalid},
}

func ConsoleError(c *echo.Context, err error) error {
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			return c.JSON(e.status, ErrorResponse{Error: err.Error(), Code: e.code})
		}
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeInternal})
}

func badRequest(c *echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeBadRequest})
}

func actionIndex(c *echo.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
