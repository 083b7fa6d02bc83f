package middleware // middleware provides reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"tablebook/internal/model"
)

// identityKey is the context key under which the request-scoped caller
// identity is stored.  Handlers must read the identity through
// CurrentIdentity and never from any global state.
const identityKey = "identity"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the caller's identity into the request context.
// The provided secret must match the one used when issuing tokens.
// Requests without a valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// OptionalAuth is like JWTAuth but lets anonymous requests through
// without an identity.  The availability listing uses it: guests see
// active tables only, staff see the full registry on the same route.
// A present-but-invalid token is still rejected rather than silently
// downgraded to guest.
func OptionalAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			ident, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// parseBearer extracts and validates the bearer token, mapping its
// claims onto a model.Identity.  Tokens signed with anything other than
// HMAC are rejected.
func parseBearer(c echo.Context, secret string) (model.Identity, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return model.Identity{}, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.Identity{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, false
	}
	ident := model.Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		ident.UserID = uint64(sub)
	}
	if ident.UserID == 0 {
		return model.Identity{}, false
	}
	ident.IsStaff, _ = claims["staff"].(bool)
	ident.IsSuperuser, _ = claims["super"].(bool)
	ident.IsActive, _ = claims["active"].(bool)
	return ident, true
}
