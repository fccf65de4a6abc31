package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/query"
)

// mapError converts a pipeline error into an echo.HTTPError. Bad parameters
// are the caller's fault; anything else is logged and hidden.
func mapError(c echo.Context, err error) *echo.HTTPError {
	var (
		bindErr *echo.BindingError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &bindErr):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid value for %s", bindErr.Field))
	case errors.As(err, &httpErr):
		return httpErr
	case query.IsUserError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
