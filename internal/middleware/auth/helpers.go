package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

// setSession exposes the caller both on the echo context and on the request context.
func setSession(c echo.Context, role string, id uint) error {
	ctx := c.Request().Context()
	switch role {
	case tokens.RoleCustomer:
		ctx = session.WithCustomer(ctx, id)
	case tokens.RoleStaff:
		ctx = session.WithStaff(ctx, id)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	}

	c.Set("user_id", id)
	c.Set("role", role)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}
