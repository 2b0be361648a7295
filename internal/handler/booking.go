package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/service"
)

// Bookings is implemented by service.BookingService.
type Bookings interface {
	Create(ctx context.Context, requesterID string, in service.CreateBookingInput) (*model.BookingDetail, error)
	Cancel(ctx context.Context, requesterID, bookingID string) (*model.BookingDetail, error)
	Get(ctx context.Context, requesterID, bookingID string) (*model.BookingDetail, error)
	List(ctx context.Context, requesterID string) ([]model.BookingDetail, error)
	ListForProvider(ctx context.Context, panditID string) ([]model.BookingDetail, error)
}

// BookingHandler serves requester bookings and the provider's incoming list.
type BookingHandler struct {
	Bookings Bookings
}

func NewBookingHandler(b Bookings) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// Create books a pandit for the caller.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.CreateBookingInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, badBody())
	}
	b, err := h.Bookings.Create(c.Request().Context(), uid, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) List(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.Bookings.List(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, bookingList(items))
}

func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.Bookings.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel moves a pending booking to cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.Bookings.Cancel(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListIncoming lists bookings addressed to the calling pandit.
func (h *BookingHandler) ListIncoming(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.Bookings.ListForProvider(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, bookingList(items))
}

func bookingList(items []model.BookingDetail) echo.Map {
	if items == nil {
		items = []model.BookingDetail{}
	}
	return echo.Map{"items": items, "count": len(items)}
}
