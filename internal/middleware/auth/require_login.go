package auth

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type SessionAuth struct {
	JWTSecret    []byte
	CookieSecure bool
}

func NewSessionAuth(secret []byte, secure bool) *SessionAuth {
	return &SessionAuth{JWTSecret: secret, CookieSecure: secure}
}

// RequireLogin accepts any valid session, customer or staff.
func (m *SessionAuth) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next)
}

func (m *SessionAuth) RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, tokens.RoleCustomer)
}

func (m *SessionAuth) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, tokens.RoleStaff)
}

func (m *SessionAuth) require(next echo.HandlerFunc, roles ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "error", err)
			c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, m.CookieSecure))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || id == 0 {
			l.Warn("auth_failed", "status", 401, "reason", "bad subject", "subject", claims.Subject)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		if len(roles) > 0 && !lo.Contains(roles, claims.Role) {
			l.Warn("auth_failed", "status", 403, "role", claims.Role)
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}

		if err := setSession(c, claims.Role, uint(id)); err != nil {
			return err
		}
		return next(c)
	}
}
