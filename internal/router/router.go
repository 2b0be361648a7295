// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/gate"
	"github.com/iliyamo/pandit-seva/internal/handler"
	"github.com/iliyamo/pandit-seva/internal/middleware"
)

// RegisterRoutes registers endpoints that need no session.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers sign-up, sign-in, refresh and sign-out plus the
// caller's own profile.  The gate endpoint answers anonymous callers too.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.SignUp)
	g.POST("/signin", a.SignIn)
	g.POST("/refresh", a.Refresh)
	g.POST("/signout", a.SignOut)

	e.GET("/v1/gate", p.Gate)

	me := e.Group("/v1/me", middleware.RequireGate(gate.Any))
	me.GET("", p.Me)
	me.PATCH("", p.UpdateMe)
}

// RegisterPublic registers the browse endpoints.  cache may be nil.
func RegisterPublic(e *echo.Echo, h *handler.PublicHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)
	g.GET("/pandits", h.ListPandits)
	g.GET("/pandits/:id", h.GetPandit)
	g.GET("/shop/items", h.ListShopItems)
}
