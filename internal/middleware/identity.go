package middleware

// identity.go provides access to the request-scoped identity stored by
// JWTAuth/OptionalAuth.  The rate limiter also uses it to key buckets
// per user where one is authenticated.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tablebook/internal/model"
)

// CurrentIdentity returns the authenticated caller's identity from the
// context.  ok is false for anonymous requests.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	v := c.Get(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	ident, ok := v.(model.Identity)
	return ident, ok
}

// callerKey returns a stable string identifying the caller for rate
// limit bucketing: the user id when authenticated, "guest" otherwise.
func callerKey(c echo.Context) string {
	if ident, ok := CurrentIdentity(c); ok {
		return strconv.FormatUint(ident.UserID, 10)
	}
	return "guest"
}
