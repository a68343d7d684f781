package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkropachev/eshop/pkg/tokens"
)

var testSecret = []byte("test-secret")

func invoke(mw echo.MiddlewareFunc, authHeader string) (echo.Context, bool, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/1", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func bearer(t *testing.T, secret []byte, userID uint, isAdmin bool, exp time.Time) string {
	t.Helper()

	token, err := tokens.CreateAccessToken(secret, userID, isAdmin, exp)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequireAuth_MissingTokenIs401(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	_, called, err := invoke(m.RequireAuth, "")
	assert.False(t, called)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_MalformedHeaderIs401(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	_, called, err := invoke(m.RequireAuth, "Basic abc123")
	assert.False(t, called)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_WrongSecretIs401(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	header := bearer(t, []byte("other-secret"), 7, false, time.Now().Add(time.Hour))
	_, called, err := invoke(m.RequireAuth, header)
	assert.False(t, called)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, "the user is not authorized", he.Message)
}

func TestRequireAuth_ExpiredTokenIs401(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	header := bearer(t, testSecret, 7, false, time.Now().Add(-time.Hour))
	_, called, err := invoke(m.RequireAuth, header)
	assert.False(t, called)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ValidTokenSetsContext(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	header := bearer(t, testSecret, 7, false, time.Now().Add(time.Hour))
	c, called, err := invoke(m.RequireAuth, header)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, uint(7), c.Get(ContextUserID))
	assert.Equal(t, false, c.Get(ContextIsAdmin))
}

func TestRequireAdmin_NonAdminIs403(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	header := bearer(t, testSecret, 7, false, time.Now().Add(time.Hour))
	_, called, err := invoke(m.RequireAdmin, header)
	assert.False(t, called)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	header := bearer(t, testSecret, 7, true, time.Now().Add(time.Hour))
	c, called, err := invoke(m.RequireAdmin, header)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, true, c.Get(ContextIsAdmin))
}
