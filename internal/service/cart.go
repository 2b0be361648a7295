package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/feed"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/repository"
)

// CartService mutates carts and announces every committed change on the
// feed so that open CartSyncs re-read.
type CartService struct {
	carts   CartStore
	feed    feed.Feed
	log     *logger.Logger
	now     func() time.Time
	version atomic.Uint64
}

func NewCartService(carts CartStore, f feed.Feed, log *logger.Logger) *CartService {
	return &CartService{carts: carts, feed: f, log: log.With("component", "cart"), now: time.Now}
}

// Add puts one more unit of shopItemID in owner's cart.
func (s *CartService) Add(ctx context.Context, owner, shopItemID string) error {
	shopItemID = strings.TrimSpace(shopItemID)
	if shopItemID == "" {
		return apperr.Field("shop_item_id", "shop_item_id is required")
	}
	if err := s.carts.Increment(ctx, owner, shopItemID, uuid.NewString()); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return apperr.Field("shop_item_id", "unknown shop item")
		}
		return apperr.Transient("could not add item to cart", err)
	}
	s.changed(ctx, owner)
	return nil
}

// SetQuantity sets a line's quantity; n <= 0 removes the line.
func (s *CartService) SetQuantity(ctx context.Context, owner, cartItemID string, n int) error {
	if n <= 0 {
		return s.Remove(ctx, owner, cartItemID)
	}
	if n > math.MaxInt32 {
		return apperr.Field("quantity", "quantity is too large")
	}
	if err := s.carts.SetQuantity(ctx, owner, cartItemID, n); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("cart item")
		}
		return apperr.Transient("could not update cart", err)
	}
	s.changed(ctx, owner)
	return nil
}

// Remove deletes one line of owner's cart.
func (s *CartService) Remove(ctx context.Context, owner, cartItemID string) error {
	if err := s.carts.Delete(ctx, owner, cartItemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("cart item")
		}
		return apperr.Transient("could not remove cart item", err)
	}
	s.changed(ctx, owner)
	return nil
}

// Clear empties owner's cart.  Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, owner string) error {
	n, err := s.carts.DeleteAll(ctx, owner)
	if err != nil {
		return apperr.Transient("could not clear cart", err)
	}
	if n > 0 {
		s.changed(ctx, owner)
	}
	return nil
}

// Snapshot reads owner's rows and recomputes totals.  Every snapshot gets
// a version higher than any snapshot started before it.
func (s *CartService) Snapshot(ctx context.Context, owner string) (model.CartSnapshot, error) {
	version := s.version.Add(1)
	lines, err := s.carts.ListByOwner(ctx, owner)
	if err != nil {
		return model.CartSnapshot{}, apperr.Transient("could not load cart", err)
	}
	return model.NewCartSnapshot(owner, lines, version, s.now().UTC()), nil
}

// changed signals subscribers.  The mutation is already committed, so a
// publish failure is logged rather than returned.
func (s *CartService) changed(ctx context.Context, owner string) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(context.WithoutCancel(ctx), owner); err != nil {
		s.log.Warn("cart change not published", "owner", owner, "error", err)
	}
}
