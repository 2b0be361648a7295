package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/session"
	"github.com/iliyamo/pandit-seva/internal/utils"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

// AuthConfig carries the token and hashing parameters.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// AuthService issues and verifies sessions.  It implements
// session.Authenticator.
type AuthService struct {
	cfg      AuthConfig
	profiles ProfileStore
	tokens   TokenStore
	validate *validator.Validator
	log      *logger.Logger
}

var _ session.Authenticator = (*AuthService)(nil)

func NewAuthService(cfg AuthConfig, profiles ProfileStore, tokens TokenStore, v *validator.Validator, log *logger.Logger) *AuthService {
	return &AuthService{cfg: cfg, profiles: profiles, tokens: tokens, validate: v, log: log.With("component", "auth")}
}

// Register creates the profile with the chosen role and signs it in.
func (s *AuthService) Register(ctx context.Context, in session.SignUpInput) (*session.Session, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.validate.Validate(&in); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Transient("could not secure password", err)
	}
	p := &model.Profile{
		ID:       uuid.NewString(),
		Email:    in.Email,
		FullName: in.FullName,
		IsPandit: in.AsProvider,
	}
	if err := s.profiles.Create(ctx, p, hash); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperr.DuplicateIdentity(in.Email)
		}
		return nil, apperr.Transient("could not create account", err)
	}
	s.log.Info("account created", "profile_id", p.ID, "role", p.Role().String())
	return s.issue(ctx, p)
}

// Authenticate verifies credentials.  Unknown email and wrong password
// produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*session.Session, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.InvalidCredentials()
	}
	cred, err := s.profiles.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.Transient("could not verify credentials", err)
	}
	if !utils.VerifyPassword(cred.PasswordHash, password) {
		return nil, apperr.InvalidCredentials()
	}
	p, err := s.profiles.GetByID(ctx, cred.ProfileID)
	if err != nil {
		return nil, apperr.Transient("could not load profile", err)
	}
	return s.issue(ctx, p)
}

// Resolve validates an access token and loads its profile.  The role comes
// from the stored profile, not the token claim.
func (s *AuthService) Resolve(ctx context.Context, accessToken string) (*session.Session, error) {
	claims, err := utils.ParseAccessToken(s.cfg.JWTSecret, accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired access token")
	}
	p, err := s.profiles.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, apperr.Transient("could not load profile", err)
	}
	sess := &session.Session{
		Profile:     p,
		Role:        p.Role(),
		AccessToken: accessToken,
	}
	if claims.ExpiresAt != nil {
		sess.AccessExpires = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Refresh validates by hash, revokes the old token and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	raw := strings.TrimSpace(refreshToken)
	if raw == "" {
		return nil, apperr.Field("refresh_token", "refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	profileID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, apperr.Transient("could not verify refresh token", err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return nil, apperr.Transient("could not rotate refresh token", err)
	}
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("account no longer exists")
		}
		return nil, apperr.Transient("could not load profile", err)
	}
	return s.issue(ctx, p)
}

// Revoke invalidates the session's refresh token, or every refresh token of
// the profile when the session carries none.
func (s *AuthService) Revoke(ctx context.Context, sess *session.Session) error {
	var err error
	if sess.RefreshToken != "" {
		err = s.tokens.RevokeByHash(ctx, utils.HashRefreshRaw(sess.RefreshToken))
	} else if id := sess.ProfileID(); id != "" {
		err = s.tokens.RevokeAllForProfile(ctx, id)
	}
	if err != nil {
		return apperr.Transient("could not revoke session", err)
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, p *model.Profile) (*session.Session, error) {
	role := p.Role()
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, p.ID, role.String(), s.cfg.AccessTTLMin)
	if err != nil {
		return nil, apperr.Transient("could not issue access token", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, apperr.Transient("could not issue refresh token", err)
	}
	if err := s.tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, apperr.Transient("could not save refresh token", err)
	}
	return &session.Session{
		Profile:        p,
		Role:           role,
		AccessToken:    access.Token,
		AccessExpires:  access.Exp,
		RefreshToken:   refresh.Raw,
		RefreshExpires: refresh.Exp,
	}, nil
}
