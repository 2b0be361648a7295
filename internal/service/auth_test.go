package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/session"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

func newAuth(t *testing.T) (*AuthService, *fakeProfiles, *fakeTokens) {
	t.Helper()
	profiles, tokens := newFakeProfiles(), newFakeTokens()
	cfg := AuthConfig{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthService(cfg, profiles, tokens, validator.MustNew(), testLog), profiles, tokens
}

func signUp(email string, provider bool) session.SignUpInput {
	return session.SignUpInput{Email: email, Password: "secret1", FullName: "Test " + email, AsProvider: provider}
}

func TestRegisterCreatesProfileWithRole(t *testing.T) {
	auth, profiles, _ := newAuth(t)

	sess, err := auth.Register(context.Background(), signUp("  Pandit@Example.com ", true))
	require.NoError(t, err)

	assert.Equal(t, model.RoleProvider, sess.Role)
	assert.Equal(t, "pandit@example.com", sess.Profile.Email)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	stored, err := profiles.GetByID(context.Background(), sess.ProfileID())
	require.NoError(t, err)
	assert.True(t, stored.IsPandit)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, signUp("a@example.com", false))
	require.NoError(t, err)

	_, err = auth.Register(ctx, signUp("A@example.com", true))
	assert.ErrorIs(t, err, apperr.ErrDuplicateIdentity)
}

func TestRegisterValidation(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()

	in := signUp("a@example.com", false)
	in.FullName = "   "
	_, err := auth.Register(ctx, in)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.As(err).Details, "full_name")

	in = signUp("a@example.com", false)
	in.Password = "12345"
	_, err = auth.Register(ctx, in)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.As(err).Details, "password")

	in = signUp("not-an-email", false)
	_, err = auth.Register(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, signUp("a@example.com", false))
	require.NoError(t, err)

	_, wrongPass := auth.Authenticate(ctx, "a@example.com", "nope-nope")
	_, unknown := auth.Authenticate(ctx, "b@example.com", "secret1")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, apperr.As(wrongPass).Code, apperr.As(unknown).Code)
	assert.Equal(t, apperr.As(wrongPass).Message, apperr.As(unknown).Message)
	assert.ErrorIs(t, wrongPass, apperr.ErrInvalidCredentials)

	sess, err := auth.Authenticate(ctx, "A@EXAMPLE.COM", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleRequester, sess.Role)
}

func TestResolveLoadsProfileFromToken(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	created, err := auth.Register(ctx, signUp("p@example.com", true))
	require.NoError(t, err)

	got, err := auth.Resolve(ctx, created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ProfileID(), got.ProfileID())
	assert.Equal(t, model.RoleProvider, got.Role)
	assert.Empty(t, got.RefreshToken)

	_, err = auth.Resolve(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	created, err := auth.Register(ctx, signUp("a@example.com", false))
	require.NoError(t, err)

	next, err := auth.Refresh(ctx, created.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, created.RefreshToken, next.RefreshToken)

	_, err = auth.Refresh(ctx, created.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = auth.Refresh(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRevoke(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	created, err := auth.Register(ctx, signUp("a@example.com", false))
	require.NoError(t, err)

	require.NoError(t, auth.Revoke(ctx, created))
	_, err = auth.Refresh(ctx, created.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	second, err := auth.Authenticate(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	// A session restored from an access token has no refresh token, so
	// every token of the profile goes.
	require.NoError(t, auth.Revoke(ctx, &session.Session{Profile: second.Profile}))
	_, err = auth.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestStoreDrivenByAuthService(t *testing.T) {
	auth, _, _ := newAuth(t)
	ctx := context.Background()
	st := session.NewStore(auth, nil)

	_, err := st.SignUp(ctx, signUp("u@example.com", false))
	require.NoError(t, err)
	require.NoError(t, st.SignOut(ctx))
	require.NoError(t, st.SignOut(ctx))
	assert.Nil(t, st.Current())

	_, err = st.SignIn(ctx, "u@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleRequester, st.View().Role)
}
