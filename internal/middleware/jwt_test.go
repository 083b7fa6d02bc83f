package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/model"
	"tablebook/internal/utils"
)

const testSecret = "unit-test-secret"

func bearerFor(t *testing.T, ident model.Identity) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, ident, 15)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

// run sends a GET through the given middleware chain and a handler that
// echoes back the identity stored on the context.
func run(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, model.Identity, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen model.Identity
	var seenOK bool
	h := mw(func(c echo.Context) error {
		seen, seenOK = CurrentIdentity(c)
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, seen, seenOK
}

func TestJWTAuth(t *testing.T) {
	staff := model.Identity{UserID: 7, IsStaff: true, IsActive: true}

	t.Run("valid token", func(t *testing.T) {
		rec, ident, ok := run(JWTAuth(testSecret), bearerFor(t, staff))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, ok)
		assert.Equal(t, staff, ident)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _, ok := run(JWTAuth(testSecret), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, ok)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec, _, _ := run(JWTAuth(testSecret), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", staff, 15)
		require.NoError(t, err)
		rec, _, _ := run(JWTAuth(testSecret), "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("zero subject rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, model.Identity{UserID: 0, IsActive: true}, 15)
		require.NoError(t, err)
		rec, _, _ := run(JWTAuth(testSecret), "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous passes without identity", func(t *testing.T) {
		rec, _, ok := run(OptionalAuth(testSecret), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, ok)
	})

	t.Run("valid token yields identity", func(t *testing.T) {
		ident := model.Identity{UserID: 3, IsStaff: true, IsSuperuser: true, IsActive: true}
		rec, seen, ok := run(OptionalAuth(testSecret), bearerFor(t, ident))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, ok)
		assert.Equal(t, ident, seen)
	})

	t.Run("invalid token is rejected, not downgraded", func(t *testing.T) {
		rec, _, _ := run(OptionalAuth(testSecret), "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		mw     echo.MiddlewareFunc
		ident  model.Identity
		status int
	}{
		{"staff passes staff gate", RequireStaff(), model.Identity{UserID: 1, IsStaff: true, IsActive: true}, http.StatusOK},
		{"superuser passes staff gate", RequireStaff(), model.Identity{UserID: 2, IsSuperuser: true, IsActive: true}, http.StatusOK},
		{"inactive staff forbidden", RequireStaff(), model.Identity{UserID: 3, IsStaff: true, IsActive: false}, http.StatusForbidden},
		{"plain user forbidden", RequireStaff(), model.Identity{UserID: 4, IsActive: true}, http.StatusForbidden},
		{"staff fails superuser gate", RequireSuperuser(), model.Identity{UserID: 5, IsStaff: true, IsActive: true}, http.StatusForbidden},
		{"superuser passes superuser gate", RequireSuperuser(), model.Identity{UserID: 6, IsSuperuser: true, IsActive: true}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(identityKey, tc.ident)

			h := tc.mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			_ = h(c)
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	t.Run("no identity forbidden", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := RequireStaff()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		_ = h(c)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
