package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/service"
)

const sseKeepAlive = 25 * time.Second

// Cart is implemented by service.CartService.
type Cart interface {
	Add(ctx context.Context, owner, shopItemID string) error
	SetQuantity(ctx context.Context, owner, cartItemID string, n int) error
	Remove(ctx context.Context, owner, cartItemID string) error
	Clear(ctx context.Context, owner string) error
	Snapshot(ctx context.Context, owner string) (model.CartSnapshot, error)
	Watch(ctx context.Context, owner string) (*service.CartSync, error)
}

// CartHandler serves the requester's cart.  Every mutation answers with
// the fresh snapshot so clients without the stream stay current.
type CartHandler struct {
	Cart Cart
}

func NewCartHandler(cart Cart) *CartHandler {
	return &CartHandler{Cart: cart}
}

type addItemReq struct {
	ShopItemID string `json:"shop_item_id"`
}

type setQuantityReq struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) Get(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.snapshot(c, uid, http.StatusOK)
}

// AddItem adds one unit of a shop item.
func (h *CartHandler) AddItem(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, badBody())
	}
	if err := h.Cart.Add(c.Request().Context(), uid, req.ShopItemID); err != nil {
		return respondError(c, err)
	}
	return h.snapshot(c, uid, http.StatusOK)
}

// SetQuantity sets a line's quantity; zero or less removes it.
func (h *CartHandler) SetQuantity(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	var req setQuantityReq
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		return respondError(c, badBody())
	}
	if err := h.Cart.SetQuantity(c.Request().Context(), uid, c.Param("id"), *req.Quantity); err != nil {
		return respondError(c, err)
	}
	return h.snapshot(c, uid, http.StatusOK)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Cart.Remove(c.Request().Context(), uid, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return h.snapshot(c, uid, http.StatusOK)
}

func (h *CartHandler) Clear(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Cart.Clear(c.Request().Context(), uid); err != nil {
		return respondError(c, err)
	}
	return h.snapshot(c, uid, http.StatusOK)
}

func (h *CartHandler) snapshot(c echo.Context, uid string, status int) error {
	snap, err := h.Cart.Snapshot(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status, snap)
}

// Stream pushes a "snapshot" server-sent event for the initial cart and
// after every change, until the client disconnects.
func (h *CartHandler) Stream(c echo.Context) error {
	uid, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()
	cs, err := h.Cart.Watch(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	defer cs.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	tick := time.NewTicker(sseKeepAlive)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case snap, ok := <-cs.Updates():
			if !ok {
				return nil
			}
			if err := writeEvent(res, "snapshot", snap.Version, snap); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeEvent(w *echo.Response, event string, id uint64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data)
	return err
}
