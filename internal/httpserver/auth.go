package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "signup_error", err)
	}

	customer, err := h.Svc.Signup(ctx, service.SignupRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("signup_failed", "status", 409, "reason", "email_exists")
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return fail(l, "signup_error", err)
	}

	l.Info("signup_success", "status", 201, "customer_id", customer.ID)
	return c.JSON(http.StatusCreated, customer)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	return h.login(c, "auth.login", h.Svc.Login)
}

func (h *AuthHTTP) StaffLogin(c echo.Context) error {
	return h.login(c, "auth.staff_login", h.Svc.StaffLogin)
}

func (h *AuthHTTP) login(c echo.Context, name string, do func(ctx context.Context, email, password string) (*service.LoginResult, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	var req transport.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return badBody(l, "login_error", err)
	}

	res, err := do(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, res.AccessExp, h.CookieSecure))
	l.Info("login_success", "status", 200, "role", res.Role, "subject", res.SubjectID)
	return c.JSON(http.StatusOK, echo.Map{"id": res.SubjectID, "role": res.Role, "expires_at": res.AccessExp})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, h.CookieSecure))
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	me, err := h.Svc.Me(ctx)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewMeResponse(me))
}
