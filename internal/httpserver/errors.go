package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return "insufficient stock"
	case errors.Is(err, service.ErrInUse):
		return "resource is in use"
	case errors.Is(err, service.ErrInvalidState):
		return "invalid order state"
	default:
		return "conflict"
	}
}

// fail logs err under event and turns it into the matching HTTP error.
// Only validation messages reach the client verbatim.
func fail(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	switch code {
	case http.StatusInternalServerError:
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(code, "internal error")
	case http.StatusBadRequest:
		l.Warn(event, "status", code, "error", err)
		return echo.NewHTTPError(code, err.Error())
	case http.StatusConflict:
		l.Warn(event, "status", code, "error", err)
		return echo.NewHTTPError(code, conflictMessage(err))
	default:
		l.Warn(event, "status", code, "error", err)
		return echo.NewHTTPError(code, http.StatusText(code))
	}
}

// bindValid decodes the body strictly and runs the request's own checks.
func bindValid[T interface{ Validate() error }](c echo.Context, dst *T) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return (*dst).Validate()
}

func badBody(l *slog.Logger, event string, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		l.Warn(event, "status", he.Code, "error", err)
		return he
	}
	return fail(l, event, err)
}

func uintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(v), nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
