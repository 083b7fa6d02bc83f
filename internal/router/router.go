package router // router wires HTTP routes to their handlers and middleware

import (
	"github.com/labstack/echo/v4"

	"tablebook/internal/handler"
	"tablebook/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.  At the
// moment that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication endpoints.  Login,
// refresh and logout work without a session; /v1/auth/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the guest-facing booking surface.  The table
// listing accepts an optional bearer token so staff see the full
// registry on the same route; reservation creation is intentionally
// open because walk-in guests have no accounts.  Both routes carry the rate
// limiter, and the table listing additionally sits behind the response
// cache because the booking form re-queries availability on every date
// change.
func RegisterPublic(e *echo.Echo, t *handler.TableHandler, r *handler.ReservationHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{middleware.OptionalAuth(jwtSecret)}, extra...)
	e.GET("/v1/tables", t.List, mws...)
	e.POST("/v1/reservations", r.Create, mws...)
}

// RegisterStaff registers the staff-only management surface behind JWT
// authentication and the staff role gate.  Account administration is
// further restricted to superusers.
func RegisterStaff(e *echo.Echo, t *handler.TableHandler, r *handler.ReservationHandler, s *handler.StatsHandler, u *handler.StaffUserHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireStaff())

	// Table registry
	g.POST("/tables", t.Create)
	g.GET("/tables/:id", t.Get)
	g.PUT("/tables/:id", t.Update)
	g.DELETE("/tables/:id", t.Delete)

	// Reservation lifecycle.  The stats route is registered before the
	// :id routes purely for readability; echo matches static segments
	// first either way.
	g.GET("/reservations/stats", s.Today)
	g.GET("/reservations", r.List)
	g.GET("/reservations/:id", r.Get)
	g.PATCH("/reservations/:id", r.UpdateStatus)
	g.DELETE("/reservations/:id", r.Delete)

	// Staff account administration
	admin := g.Group("/admin", middleware.RequireSuperuser())
	admin.GET("/users", u.List)
	admin.POST("/users", u.Create)
	admin.DELETE("/users/:id", u.Delete)
}
