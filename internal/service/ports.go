// Package service holds the business rules for sessions, bookings, the cart
// and the provider directory.  Persistence and messaging are reached
// through the small interfaces below; internal/repository, internal/feed
// and internal/queue provide the production implementations.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/queue"
)

type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile, passwordHash string) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetCredentialByEmail(ctx context.Context, email string) (model.Credential, error)
	ListProviders(ctx context.Context) ([]model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, profileID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForProfile(ctx context.Context, profileID string) error
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetForUser(ctx context.Context, id, userID string) (*model.BookingDetail, error)
	ListByUser(ctx context.Context, userID string) ([]model.BookingDetail, error)
	ListByProvider(ctx context.Context, panditID string) ([]model.BookingDetail, error)
	TransitionStatus(ctx context.Context, id, userID string, from, to model.BookingStatus) (bool, error)
	StatusForUser(ctx context.Context, id, userID string) (model.BookingStatus, error)
}

type ShopStore interface {
	List(ctx context.Context) ([]model.ShopItem, error)
	GetByID(ctx context.Context, id string) (*model.ShopItem, error)
}

type CartStore interface {
	Increment(ctx context.Context, owner, itemID, newID string) error
	SetQuantity(ctx context.Context, owner, cartItemID string, n int) error
	Delete(ctx context.Context, owner, cartItemID string) error
	DeleteAll(ctx context.Context, owner string) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]model.CartLine, error)
}

// EventPublisher delivers booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}
