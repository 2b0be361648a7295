package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// AuthHandler exposes sign-up, sign-in, refresh and sign-out over the
// request's session store.
type AuthHandler struct {
	Auth session.Authenticator
}

func NewAuthHandler(auth session.Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    *model.Profile `json:"user"`
	Role    model.Role     `json:"role"`
	Access  tokenPart      `json:"access"`
	Refresh *tokenPart     `json:"refresh,omitempty"`
}

func sessionResp(s *session.Session) authResp {
	out := authResp{
		User:   s.Profile,
		Role:   s.Role,
		Access: tokenPart{Token: s.AccessToken, Expires: s.AccessExpires},
	}
	if s.RefreshToken != "" {
		out.Refresh = &tokenPart{Token: s.RefreshToken, Expires: s.RefreshExpires}
	}
	return out
}

// SignUp creates the account and returns its first token pair.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req session.SignUpInput
	if err := c.Bind(&req); err != nil {
		return respondError(c, badBody())
	}
	sess, err := storeFrom(c, h.Auth).SignUp(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResp(sess))
}

// SignIn verifies credentials and returns a new token pair.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, badBody())
	}
	sess, err := storeFrom(c, h.Auth).SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(sess))
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, badBody())
	}
	sess, err := storeFrom(c, h.Auth).Refresh(c.Request().Context(), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(sess))
}

// SignOut ends the session.  A refresh_token in the body is revoked even
// when the request carries no access token.  Signing out twice is fine.
func (h *AuthHandler) SignOut(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req) // body is optional
	raw := strings.TrimSpace(req.RefreshToken)
	ctx := c.Request().Context()

	st := storeFrom(c, h.Auth)
	if cur := st.Current(); cur != nil {
		if raw != "" {
			cur.RefreshToken = raw
		}
		if err := st.SignOut(ctx); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	if raw != "" {
		if err := h.Auth.Revoke(ctx, &session.Session{RefreshToken: raw}); err != nil {
			return respondError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
