// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cat-gallery/internal/handler"
)

// RegisterRoutes registers routes with no dependencies: the health check and
// the static front-end assets.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.Static("/", "public")
}

// RegisterAuth registers the auth endpoints. The limiter fronts the
// credential-handling routes (bcrypt makes each one expensive); the resolver
// gates /auth/verify, which only echoes an already-resolved identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, resolver, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/verify", a.Verify, resolver)
}

// RegisterAdoptions registers the adoption endpoints. Every route requires a
// resolved identity; the handlers read the acting user from the request
// context only.
func RegisterAdoptions(e *echo.Echo, a *handler.AdoptionHandler, resolver echo.MiddlewareFunc) {
	g := e.Group("/adoptions", resolver)
	g.GET("", a.List)
	g.POST("", a.Adopt)
	g.DELETE("/:itemId", a.Unadopt)
}

// RegisterCatalog registers the cat CRUD endpoints. The read side is cached;
// the write side is ungated in the base deployment and gated behind the
// resolver when the deployment opts in (GATE_CATALOG).
func RegisterCatalog(e *echo.Echo, h *handler.CatHandler, cache, resolver echo.MiddlewareFunc, gateWrites bool) {
	e.GET("/cats", h.List, cache)
	e.GET("/cats/:id", h.Get)

	var writeMW []echo.MiddlewareFunc
	if gateWrites {
		writeMW = append(writeMW, resolver)
	}
	e.POST("/cats", h.Create, writeMW...)
	e.PUT("/cats/:id", h.Update, writeMW...)
	e.PATCH("/cats/:id", h.Patch, writeMW...)
	e.DELETE("/cats/:id", h.Delete, writeMW...)
}
