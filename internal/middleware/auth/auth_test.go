package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

var secret = []byte("test-secret")

func run(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		ctx := c.Request().Context()
		if id, ok := session.CustomerFrom(ctx); ok {
			return c.JSON(http.StatusOK, map[string]any{"customer": id})
		}
		if id, ok := session.StaffFrom(ctx); ok {
			return c.JSON(http.StatusOK, map[string]any{"staff": id})
		}
		return c.NoContent(http.StatusTeapot)
	})(c)
	return rec, err
}

func tokenCookie(t *testing.T, role, sub string, exp time.Time) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, role, sub, exp)
	require.NoError(t, err)
	return &http.Cookie{Name: tokens.AccessCookie, Value: tok}
}

func code(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestRequireCustomer(t *testing.T) {
	m := NewSessionAuth(secret, false)
	exp := time.Now().Add(time.Hour)

	rec, err := run(t, m.RequireCustomer, tokenCookie(t, tokens.RoleCustomer, "7", exp))
	require.NoError(t, err)
	assert.JSONEq(t, `{"customer":7}`, rec.Body.String())

	_, err = run(t, m.RequireCustomer, nil)
	assert.Equal(t, http.StatusUnauthorized, code(err))

	_, err = run(t, m.RequireCustomer, tokenCookie(t, tokens.RoleStaff, "1", exp))
	assert.Equal(t, http.StatusForbidden, code(err))

	_, err = run(t, m.RequireCustomer, tokenCookie(t, tokens.RoleCustomer, "abc", exp))
	assert.Equal(t, http.StatusUnauthorized, code(err))
}

func TestRequireLogin_RejectsBadTokens(t *testing.T) {
	m := NewSessionAuth(secret, false)

	rec, err := run(t, m.RequireLogin, tokenCookie(t, tokens.RoleCustomer, "7", time.Now().Add(-time.Minute)))
	assert.Equal(t, http.StatusUnauthorized, code(err))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), tokens.AccessCookie+"=;")

	other, err := tokens.NewAccessToken([]byte("other"), tokens.RoleCustomer, "7", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = run(t, m.RequireLogin, &http.Cookie{Name: tokens.AccessCookie, Value: other})
	assert.Equal(t, http.StatusUnauthorized, code(err))

	_, err = run(t, m.RequireLogin, tokenCookie(t, "admin", "7", time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, code(err))
}

func TestRequireStaff(t *testing.T) {
	m := NewSessionAuth(secret, false)

	rec, err := run(t, m.RequireStaff, tokenCookie(t, tokens.RoleStaff, "3", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"staff":3}`, rec.Body.String())
}
