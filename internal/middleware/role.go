package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireStaff aborts the request with 403 unless the authenticated
// caller is active and flagged staff or superuser.  It assumes JWTAuth
// ran earlier in the chain; an absent identity is treated as forbidden.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || !ident.CanManage() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "staff access required"})
			}
			return next(c)
		}
	}
}

// RequireSuperuser gates account management endpoints.
func RequireSuperuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok || !ident.CanAdminister() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "superuser access required"})
			}
			return next(c)
		}
	}
}
