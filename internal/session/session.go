// Package session holds at most one authenticated identity and exposes a
// read-only projection of it to the access gate.  A Store is created per
// client runtime (per request in the HTTP server) and injected where needed.
package session

import (
	"context"
	"time"

	"github.com/iliyamo/pandit-seva/internal/model"
)

// Session is an authenticated identity with its resolved profile.
type Session struct {
	Profile        *model.Profile
	Role           model.Role
	AccessToken    string
	AccessExpires  time.Time
	RefreshToken   string // empty when restored from an access token alone
	RefreshExpires time.Time
}

// ProfileID is a nil-safe accessor for the session owner.
func (s *Session) ProfileID() string {
	if s == nil || s.Profile == nil {
		return ""
	}
	return s.Profile.ID
}

// SignUpInput is the data needed to create an account.
type SignUpInput struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FullName   string `json:"full_name" validate:"required,max=255"`
	AsProvider bool   `json:"is_pandit"`
}

// Authenticator is the identity backend a Store drives.
type Authenticator interface {
	Register(ctx context.Context, in SignUpInput) (*Session, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	// Resolve turns an access token into a live session with its profile.
	Resolve(ctx context.Context, accessToken string) (*Session, error)
	// Refresh rotates a refresh token into a new session.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	// Revoke invalidates whatever server-side state backs s.
	Revoke(ctx context.Context, s *Session) error
}

// View is what the access gate is allowed to see.
type View struct {
	Resolved        bool
	IsAuthenticated bool
	Role            model.Role
}
