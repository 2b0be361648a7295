package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/gate"
	"github.com/iliyamo/pandit-seva/internal/handler"
	"github.com/iliyamo/pandit-seva/internal/middleware"
)

// RegisterRequester registers booking and cart endpoints.  Pandits are
// turned away with their own dashboard as the redirect.
func RegisterRequester(e *echo.Echo, b *handler.BookingHandler, c *handler.CartHandler) {
	g := e.Group("/v1", middleware.RequireGate(gate.RequesterOnly))

	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/cancel", b.Cancel)

	g.GET("/cart", c.Get)
	g.DELETE("/cart", c.Clear)
	g.POST("/cart/items", c.AddItem)
	g.PUT("/cart/items/:id", c.SetQuantity)
	g.DELETE("/cart/items/:id", c.RemoveItem)
	g.GET("/cart/stream", c.Stream)
}
