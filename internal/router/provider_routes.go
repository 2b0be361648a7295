package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/gate"
	"github.com/iliyamo/pandit-seva/internal/handler"
	"github.com/iliyamo/pandit-seva/internal/middleware"
)

// RegisterProvider registers the pandit dashboard endpoints.
func RegisterProvider(e *echo.Echo, b *handler.BookingHandler) {
	g := e.Group("/v1/pandit", middleware.RequireGate(gate.ProviderOnly))
	g.GET("/bookings", b.ListIncoming)
}
