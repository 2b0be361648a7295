package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/model"
)

// Directory is implemented by service.DirectoryService.
type Directory interface {
	List(ctx context.Context, query string) ([]model.Profile, error)
	Get(ctx context.Context, id string) (*model.Profile, error)
}

// Catalog is implemented by service.CatalogService.
type Catalog interface {
	ListItems(ctx context.Context) ([]model.ShopItem, error)
}

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
	Directory Directory
	Catalog   Catalog
}

func NewPublicHandler(d Directory, c Catalog) *PublicHandler {
	return &PublicHandler{Directory: d, Catalog: c}
}

// ListPandits returns provider profiles, newest first.  ?q= filters by
// name, specialization or address.
func (h *PublicHandler) ListPandits(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	items, err := h.Directory.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []model.Profile{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *PublicHandler) GetPandit(c echo.Context) error {
	p, err := h.Directory.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PublicHandler) ListShopItems(c echo.Context) error {
	items, err := h.Catalog.ListItems(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []model.ShopItem{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
