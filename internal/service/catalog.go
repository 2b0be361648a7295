package service

import (
	"context"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
)

// CatalogService exposes the read-only shop catalog.
type CatalogService struct {
	shop ShopStore
}

func NewCatalogService(shop ShopStore) *CatalogService {
	return &CatalogService{shop: shop}
}

func (s *CatalogService) ListItems(ctx context.Context) ([]model.ShopItem, error) {
	items, err := s.shop.List(ctx)
	if err != nil {
		return nil, apperr.Transient("could not list shop items", err)
	}
	return items, nil
}
